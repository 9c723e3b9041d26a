// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImports_Python(t *testing.T) {
	item := SourceItem{
		Path:     "pkg/a.py",
		Language: "python",
		Content:  "import os\nfrom . import utils\nfrom .sub import helper\n",
	}
	imports := ExtractImports(item)
	require.Len(t, imports, 3)
	assert.Equal(t, "os", imports[0].Module)
	assert.False(t, imports[0].IsRelative)
	assert.True(t, imports[1].IsRelative)
}

func TestExtractImports_UnsupportedLanguage(t *testing.T) {
	item := SourceItem{Path: "a.rb", Language: "ruby", Content: "require 'set'"}
	assert.Empty(t, ExtractImports(item))
}

func TestBuildDependencyGraph_Python(t *testing.T) {
	items := []SourceItem{
		{Path: "pkg/a.py", Language: "python", Content: "from .b import helper\n"},
		{Path: "pkg/b.py", Language: "python", Content: "import os\n"},
	}
	graph := BuildDependencyGraph(items)
	assert.True(t, graph.Forward["pkg/a.py"]["pkg/b.py"])
	assert.False(t, graph.Forward["pkg/b.py"]["pkg/a.py"])
}

func TestDependencyGraph_Reverse(t *testing.T) {
	graph := NewDependencyGraph()
	graph.addEdge("a.py", "b.py")
	rev := graph.Reverse()
	assert.True(t, rev["b.py"]["a.py"])
}

func TestRelatedFiles_BFSDepth(t *testing.T) {
	items := []SourceItem{
		{Path: "a.py", Language: "python", Content: "import b\n"},
		{Path: "b.py", Language: "python", Content: "import c\n"},
		{Path: "c.py", Language: "python", Content: "import os\n"},
	}
	graph := BuildDependencyGraph(items)
	target := map[string]bool{"a.py": true}

	depth1 := RelatedFiles(target, graph, 1)
	assert.True(t, depth1["b.py"])
	assert.False(t, depth1["c.py"])

	depth2 := RelatedFiles(target, graph, 2)
	assert.True(t, depth2["b.py"])
	assert.True(t, depth2["c.py"])
}

func TestRelatedFiles_ExcludesTargetsThemselves(t *testing.T) {
	items := []SourceItem{
		{Path: "a.py", Language: "python", Content: "import b\n"},
		{Path: "b.py", Language: "python", Content: "import os\n"},
	}
	graph := BuildDependencyGraph(items)
	target := map[string]bool{"a.py": true, "b.py": true}

	related := RelatedFiles(target, graph, 2)
	assert.False(t, related["a.py"])
	assert.False(t, related["b.py"])
}

func TestResolveImportToPath_PythonMultiDotUsesImmediateParent(t *testing.T) {
	// "from ..foo import bar" in pkg/sub/mod.py resolves relative to
	// pkg/sub (mod.py's immediate parent), not an extra directory up, no
	// matter how many leading dots the import has.
	fileSet := map[string]bool{"pkg/sub/foo.py": true}
	resolved := ResolveImportToPath("pkg/sub/mod.py", ImportInfo{Module: "..foo", IsRelative: true}, "python", fileSet)
	assert.Equal(t, "pkg/sub/foo.py", resolved)
}

func TestResolveImportToPath_JSRelative(t *testing.T) {
	fileSet := map[string]bool{"src/utils.ts": true}
	resolved := ResolveImportToPath("src/main.ts", ImportInfo{Module: "./utils", IsRelative: true}, "typescript", fileSet)
	assert.Equal(t, "src/utils.ts", resolved)
}

func TestResolveImportToPath_NonRelativeUnresolved(t *testing.T) {
	fileSet := map[string]bool{"src/utils.ts": true}
	resolved := ResolveImportToPath("src/main.ts", ImportInfo{Module: "lodash", IsRelative: false}, "typescript", fileSet)
	assert.Empty(t, resolved)
}
