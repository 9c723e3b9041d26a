// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkFile_SmallFileIsSingleWholeFileChunk(t *testing.T) {
	item := SourceItem{Path: "a.py", Language: "python", Content: "import os\n\ndef f():\n    return os.getcwd()\n"}
	chunks := ChunkFile(item)
	require.Len(t, chunks, 1)
	assert.Equal(t, ChunkTypeFile, chunks[0].ChunkType)
	assert.Equal(t, 1, chunks[0].StartLine)
}

func TestChunkFile_PythonSplitsByDefinition(t *testing.T) {
	content := "import os\n" + strings.Repeat("\n", 205) + "def handler():\n    pass\n"
	item := SourceItem{Path: "big.py", Language: "python", Content: content}
	chunks := ChunkFile(item)
	require.NotEmpty(t, chunks)

	var sawFunc bool
	for _, c := range chunks {
		if c.ChunkType == ChunkTypeFunction && c.Name == "handler" {
			sawFunc = true
		}
	}
	assert.True(t, sawFunc)
}

func TestChunkFile_FallsBackToFixedSizeWithoutPatterns(t *testing.T) {
	content := strings.Repeat("line of text\n", 250)
	item := SourceItem{Path: "notes.txt", Language: "text", Content: content}
	chunks := ChunkFile(item)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, ChunkTypeSection, c.ChunkType)
	}
}

func TestChunkFile_CoversEveryLine(t *testing.T) {
	content := strings.Repeat("x\n", 250)
	item := SourceItem{Path: "notes.txt", Language: "text", Content: content}
	chunks := ChunkFile(item)

	totalLines := 0
	for i, c := range chunks {
		assert.Equal(t, totalLines+1, c.StartLine, "chunk %d must start right after the previous one ends", i)
		totalLines = c.EndLine
	}
	assert.Equal(t, len(splitLines(content)), totalLines)
}

func TestChunk_Header(t *testing.T) {
	named := Chunk{Path: "a.go", StartLine: 1, EndLine: 5, ChunkType: "function", Name: "Foo"}
	assert.Equal(t, "a.go:L1-5 (function: Foo)", named.Header())

	anon := Chunk{Path: "a.go", StartLine: 1, EndLine: 5, ChunkType: "file"}
	assert.Equal(t, "a.go:L1-5 (file)", anon.Header())
}
