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
	"context"
	"log/slog"

	"github.com/kraklabs/ctxforge/pkg/cache"
	"github.com/kraklabs/ctxforge/pkg/embedding"
)

const (
	embedBatchSize     = 20
	chunkTruncateChars = 2000
	queryTruncateChars = 8000
	hydeTruncateChars  = 1000
)

// SemanticRanker scores chunks against a query by cosine similarity between
// their embeddings, reading through an embedding cache keyed by content
// hash so the same chunk is never re-embedded twice.
type SemanticRanker struct {
	provider embedding.Provider
	cache    cache.Cache
	logger   *slog.Logger
}

// NewSemanticRanker builds a ranker over provider, caching vectors in c (may
// be nil to disable caching).
func NewSemanticRanker(provider embedding.Provider, c cache.Cache, logger *slog.Logger) *SemanticRanker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticRanker{provider: provider, cache: c, logger: logger}
}

// Rank embeds query and every chunk's (truncated) content, scoring each
// chunk by cosine similarity to the query vector. If the query fails to
// embed, it falls back to RankLexical's ordering (the BackendUnavailable
// policy: semantic ranking degrades, it never fails the pipeline).
func (r *SemanticRanker) Rank(ctx context.Context, query string, chunks []Chunk) []ScoredChunk {
	texts := make([]string, 0, len(chunks)+1)
	texts = append(texts, truncate(query, queryTruncateChars))
	for _, c := range chunks {
		texts = append(texts, truncate(c.Content, chunkTruncateChars))
	}

	vectors := r.embedAll(ctx, texts)
	if vectors[0] == nil {
		r.logger.Warn("semantic.rank.query_embed_failed")
		return RankLexical(query, chunks)
	}

	queryVec := vectors[0]
	scored := make([]ScoredChunk, len(chunks))
	for i, c := range chunks {
		vec := vectors[i+1]
		var score float64
		if vec != nil {
			score = embedding.CosineSimilarity(queryVec, vec)
		}
		scored[i] = ScoredChunk{Chunk: c, Score: score}
	}

	// Unlike the lexical ranker, the reference behavior this is grounded on
	// does not renormalize after sorting — scores are raw cosine similarity.
	stableSortDesc(scored)
	return scored
}

// embedAll embeds texts in batches of embedBatchSize, consulting the cache
// first and writing new vectors back (best-effort). The returned slice is
// aligned with texts; a nil entry means that text could not be embedded,
// either because it hit the cache miss path and its batch's provider call
// failed, or because the provider returned short. A batch failure only
// drops that batch's entries to nil and never stops the remaining batches.
func (r *SemanticRanker) embedAll(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missingIdx []int

	for i, t := range texts {
		key := ContentHash(t)
		keys[i] = key
		if r.cache != nil {
			if vec, ok := r.cache.Get(ctx, key); ok {
				out[i] = vec
				recordEmbedCacheHit()
				continue
			}
		}
		recordEmbedCacheMiss()
		missingIdx = append(missingIdx, i)
	}

	for start := 0; start < len(missingIdx); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(missingIdx) {
			end = len(missingIdx)
		}
		batch := missingIdx[start:end]
		batchTexts := make([]string, len(batch))
		for i, idx := range batch {
			batchTexts[i] = texts[idx]
		}

		vectors, err := r.provider.Embed(ctx, batchTexts)
		if err != nil {
			r.logger.Warn("semantic.embed.batch_failed", "err", err, "batch_size", len(batch))
			recordEmbedError()
			continue
		}
		for i, idx := range batch {
			if i >= len(vectors) {
				continue
			}
			out[idx] = vectors[i]
			if r.cache != nil && vectors[i] != nil {
				_ = r.cache.Put(ctx, keys[idx], vectors[i])
			}
		}
	}

	return out
}

// GenerateHypothesis-consuming HyDE expansion lives in hyde.go (pkg/llm);
// BuildHydeQuery composes the final embedding input from a query and its
// hypothetical-document expansion.
func BuildHydeQuery(query, hypothesis string) string {
	if hypothesis == "" {
		return query
	}
	return query + "\n---\n" + truncate(hypothesis, hydeTruncateChars)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
