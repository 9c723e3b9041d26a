// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"path"
	"regexp"
	"strings"
)

// ImportInfo is one import statement extracted from a source file.
type ImportInfo struct {
	Module     string
	IsRelative bool
}

// DependencyGraph is the forward (importer -> imported) edge set, plus a
// lazily-derived reverse index.
type DependencyGraph struct {
	Forward map[string]map[string]bool
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{Forward: make(map[string]map[string]bool)}
}

func (g *DependencyGraph) addEdge(from, to string) {
	if g.Forward[from] == nil {
		g.Forward[from] = make(map[string]bool)
	}
	g.Forward[from][to] = true
}

// Reverse returns the imported -> importer edge set.
func (g *DependencyGraph) Reverse() map[string]map[string]bool {
	rev := make(map[string]map[string]bool)
	for from, tos := range g.Forward {
		for to := range tos {
			if rev[to] == nil {
				rev[to] = make(map[string]bool)
			}
			rev[to][from] = true
		}
	}
	return rev
}

// importPatterns extracts the raw module string captured in group 1 from a
// trimmed source line, per language.
var importPatterns = map[string][]*regexp.Regexp{
	"python": {
		regexp.MustCompile(`^from\s+(\.*\S+)\s+import\b`),
		regexp.MustCompile(`^import\s+(\S+)`),
	},
	"javascript": {
		regexp.MustCompile(`^import\s+.*\sfrom\s+['"](.+)['"]`),
		regexp.MustCompile(`^import\s+['"](.+)['"]`),
		regexp.MustCompile(`require\(['"](.+)['"]\)`),
	},
	"go": {
		regexp.MustCompile(`^\s*"([^"]+)"\s*$`),
		regexp.MustCompile(`^import\s+"([^"]+)"`),
	},
	"rust": {
		regexp.MustCompile(`^use\s+([\w:]+)`),
		regexp.MustCompile(`^mod\s+(\w+)`),
	},
}

func init() {
	importPatterns["typescript"] = importPatterns["javascript"]
}

// ExtractImports scans item's content line by line for import statements.
func ExtractImports(item SourceItem) []ImportInfo {
	patterns, ok := importPatterns[item.Language]
	if !ok {
		return nil
	}

	var imports []ImportInfo
	for _, rawLine := range splitLines(item.Content) {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		for _, re := range patterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			module := m[1]
			imports = append(imports, ImportInfo{
				Module:     module,
				IsRelative: strings.HasPrefix(module, "."),
			})
			break
		}
	}
	return imports
}

// ResolveImportToPath resolves an import's module string to a path within
// the scanned file set, or "" if it can't be resolved (external package,
// unsupported language, or no matching file).
func ResolveImportToPath(sourcePath string, imp ImportInfo, language string, fileSet map[string]bool) string {
	switch language {
	case "python":
		return resolvePythonImport(sourcePath, imp, fileSet)
	case "javascript", "typescript":
		return resolveJSImport(sourcePath, imp, fileSet)
	default:
		return ""
	}
}

func resolvePythonImport(sourcePath string, imp ImportInfo, fileSet map[string]bool) string {
	module := imp.Module
	var base string
	if imp.IsRelative {
		dots := 0
		for dots < len(module) && module[dots] == '.' {
			dots++
		}
		dir := path.Dir(sourcePath)
		rest := strings.TrimPrefix(module[dots:], ".")
		rest = strings.ReplaceAll(rest, ".", "/")
		if rest == "" {
			base = dir
		} else {
			base = path.Join(dir, rest)
		}
	} else {
		base = strings.ReplaceAll(module, ".", "/")
	}

	candidates := []string{base + ".py", path.Join(base, "__init__.py")}
	for _, c := range candidates {
		if fileSet[c] {
			return c
		}
	}
	return ""
}

func resolveJSImport(sourcePath string, imp ImportInfo, fileSet map[string]bool) string {
	if !imp.IsRelative {
		return ""
	}
	dir := path.Dir(sourcePath)
	base := path.Clean(path.Join(dir, imp.Module))

	candidates := []string{
		base + ".ts", base + ".tsx", base + ".js", base + ".jsx",
		path.Join(base, "index.ts"), path.Join(base, "index.js"),
	}
	for _, c := range candidates {
		if fileSet[c] {
			return c
		}
	}
	return ""
}

// BuildDependencyGraph builds the forward import graph across all items.
func BuildDependencyGraph(items []SourceItem) *DependencyGraph {
	fileSet := make(map[string]bool, len(items))
	for _, item := range items {
		fileSet[item.Path] = true
	}

	graph := NewDependencyGraph()
	for _, item := range items {
		for _, imp := range ExtractImports(item) {
			resolved := ResolveImportToPath(item.Path, imp, item.Language, fileSet)
			if resolved != "" && resolved != item.Path {
				graph.addEdge(item.Path, resolved)
			}
		}
	}
	return graph
}

// RelatedFiles returns the set of paths reachable from targetFiles within
// depth BFS rounds over the union of forward and reverse edges, excluding
// targetFiles themselves.
func RelatedFiles(targetFiles map[string]bool, graph *DependencyGraph, depth int) map[string]bool {
	reverse := graph.Reverse()
	related := make(map[string]bool)
	frontier := make(map[string]bool, len(targetFiles))
	for f := range targetFiles {
		frontier[f] = true
	}

	for round := 0; round < depth; round++ {
		next := make(map[string]bool)
		for f := range frontier {
			for to := range graph.Forward[f] {
				if !targetFiles[to] && !related[to] {
					next[to] = true
				}
			}
			for from := range reverse[f] {
				if !targetFiles[from] && !related[from] {
					next[from] = true
				}
			}
		}
		if len(next) == 0 {
			break
		}
		for f := range next {
			related[f] = true
		}
		frontier = next
	}
	return related
}
