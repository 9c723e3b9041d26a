// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCounter(n int) TokenCounter {
	return func(string) int { return n }
}

func TestSelect_NeverExceedsBudget(t *testing.T) {
	ranked := []ScoredChunk{
		{Chunk: chunkAt("a.go", 1, 1), Score: 1.0},
		{Chunk: chunkAt("b.go", 1, 1), Score: 0.9},
		{Chunk: chunkAt("c.go", 1, 1), Score: 0.8},
	}
	result := Select(ranked, 25, 1.0, false, nil, 0, fixedCounter(10))
	assert.LessOrEqual(t, result.TotalTokens, 25)
	assert.Len(t, result.Chunks, 2)
}

func TestSelect_ReserveFractionLimitsPrimaryPass(t *testing.T) {
	ranked := []ScoredChunk{
		{Chunk: chunkAt("a.go", 1, 1), Score: 1.0},
		{Chunk: chunkAt("b.go", 1, 1), Score: 0.9},
	}
	// budget=100, reserve=0.1 -> primary limit 10, each chunk costs 10.
	result := Select(ranked, 100, 0.1, false, nil, 0, fixedCounter(10))
	assert.Equal(t, 1, len(result.Chunks))
}

func TestSelect_FollowImportsAddsRelatedFiles(t *testing.T) {
	main := chunkAt("main.go", 1, 5)
	util := chunkAt("util.go", 1, 5)
	ranked := []ScoredChunk{
		{Chunk: main, Score: 1.0},
		{Chunk: util, Score: 0.1},
	}
	graph := NewDependencyGraph()
	graph.addEdge("main.go", "util.go")

	// Reserve fraction tight enough that only main.go fits the primary pass.
	result := Select(ranked, 20, 0.5, true, graph, 2, fixedCounter(10))
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, 1, result.RelatedFilesAdded)
	assert.Equal(t, 20, result.TotalTokens)
}

func TestSelect_NoFollowImportsLeavesRelatedOut(t *testing.T) {
	main := chunkAt("main.go", 1, 5)
	util := chunkAt("util.go", 1, 5)
	ranked := []ScoredChunk{
		{Chunk: main, Score: 1.0},
		{Chunk: util, Score: 0.1},
	}
	graph := NewDependencyGraph()
	graph.addEdge("main.go", "util.go")

	result := Select(ranked, 20, 0.5, false, graph, 2, fixedCounter(10))
	assert.Len(t, result.Chunks, 1)
	assert.Zero(t, result.RelatedFilesAdded)
}

func TestSelect_ResultSortedByScoreDescending(t *testing.T) {
	ranked := []ScoredChunk{
		{Chunk: chunkAt("low.go", 1, 1), Score: 0.1},
		{Chunk: chunkAt("high.go", 1, 1), Score: 0.9},
	}
	result := Select(ranked, 1000, 1.0, false, nil, 0, fixedCounter(1))
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "high.go", result.Chunks[0].Path)
}

func TestSelect_EmptyInput(t *testing.T) {
	result := Select(nil, 1000, 0.7, false, nil, 0, nil)
	assert.Empty(t, result.Chunks)
	assert.Zero(t, result.TotalTokens)
}
