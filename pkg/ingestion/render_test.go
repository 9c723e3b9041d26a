// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResult() ContextResult {
	return ContextResult{
		Query: "retry logic",
		Chunks: []Chunk{
			{Path: "a.go", Content: "func retry() {}", StartLine: 1, EndLine: 1, ChunkType: "function", Name: "retry", Language: "go"},
		},
		TotalTokens: 4,
		Budget:      100,
	}
}

func TestRender_Markdown(t *testing.T) {
	out := sampleResult().Render(FormatMarkdown)
	assert.Contains(t, out, "a.go:L1-1")
	assert.Contains(t, out, "```go")
	assert.Contains(t, out, "func retry() {}")
}

func TestRender_XML(t *testing.T) {
	out := sampleResult().Render(FormatXML)
	assert.Contains(t, out, `path="a.go"`)
	assert.Contains(t, out, `name="retry"`)
	assert.Contains(t, out, `type="function"`)
}

func TestRender_UnknownFormatDefaultsToMarkdown(t *testing.T) {
	out := sampleResult().Render(Format("bogus"))
	assert.Equal(t, sampleResult().Render(FormatMarkdown), out)
}

func TestRender_EmptyChunks(t *testing.T) {
	out := ContextResult{}.Render(FormatMarkdown)
	assert.Empty(t, out)
}
