// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ctxforge/pkg/cache"
	"github.com/kraklabs/ctxforge/pkg/embedding"
)

func TestSemanticRanker_RanksByCosineSimilarity(t *testing.T) {
	provider := embedding.NewMockProvider(8)
	ranker := NewSemanticRanker(provider, nil, nil)

	chunks := []Chunk{
		{Path: "a.go", Content: "retry with backoff"},
		{Path: "b.go", Content: "render html template"},
	}
	scored := ranker.Rank(context.Background(), "retry with backoff", chunks)
	require.Len(t, scored, 2)
	// The identical-text chunk should score highest against the mock's
	// deterministic hash embedding.
	assert.Equal(t, "a.go", scored[0].Chunk.Path)
}

func TestSemanticRanker_FallsBackToLexicalOnEmbedFailure(t *testing.T) {
	provider := &embedding.MockProvider{
		EmbedFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, assertErr("backend unavailable")
		},
	}
	ranker := NewSemanticRanker(provider, nil, nil)

	chunks := []Chunk{{Path: "retry.go", Content: "retry logic", Name: "retry"}}
	scored := ranker.Rank(context.Background(), "retry", chunks)
	require.Len(t, scored, 1)
	assert.Equal(t, "retry.go", scored[0].Chunk.Path)
}

func TestSemanticRanker_UsesCache(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(cache.FileCacheConfig{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	calls := 0
	provider := &embedding.MockProvider{
		EmbedFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			calls++
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, 0, 0}
			}
			return out, nil
		},
	}
	ranker := NewSemanticRanker(provider, c, nil)
	chunks := []Chunk{{Path: "a.go", Content: "same content"}}

	ranker.Rank(context.Background(), "same content", chunks)
	firstCalls := calls
	ranker.Rank(context.Background(), "same content", chunks)

	assert.Equal(t, firstCalls, calls, "second call should hit the cache, not re-embed")
}

func TestSemanticRanker_PartialBatchFailureKeepsOtherScores(t *testing.T) {
	// query + 21 chunks = 22 texts, split into batches of 20: the first
	// batch (query + 19 chunks) succeeds, the second batch (2 chunks)
	// fails. Only the second batch's chunks should fall back to a zero
	// score; the rest keep their real cosine similarity.
	provider := &embedding.MockProvider{
		EmbedFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			for _, text := range texts {
				if text == "fail me" {
					return nil, assertErr("backend 500")
				}
			}
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, 0, 0}
			}
			return out, nil
		},
	}
	ranker := NewSemanticRanker(provider, nil, nil)

	chunks := make([]Chunk, 21)
	for i := range chunks {
		chunks[i] = Chunk{Path: "ok.go", Content: "same content"}
	}
	chunks[19] = Chunk{Path: "broken.go", Content: "fail me"}
	chunks[20] = Chunk{Path: "broken2.go", Content: "fail me"}

	scored := ranker.Rank(context.Background(), "same content", chunks)
	require.Len(t, scored, 21)

	var brokenScore, okScore float64
	for _, s := range scored {
		switch s.Chunk.Path {
		case "broken.go", "broken2.go":
			brokenScore = s.Score
		case "ok.go":
			okScore = s.Score
		}
	}
	assert.Zero(t, brokenScore)
	assert.Greater(t, okScore, 0.0)
}

func TestBuildHydeQuery(t *testing.T) {
	assert.Equal(t, "q", BuildHydeQuery("q", ""))
	assert.Contains(t, BuildHydeQuery("q", "hypothesis"), "hypothesis")
}

type testError string

func (e testError) Error() string { return string(e) }

func assertErr(msg string) error { return testError(msg) }
