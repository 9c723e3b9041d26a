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
	"sort"
	"strings"
	"sync"

	"github.com/kraklabs/ctxforge/pkg/llm"
)

const llmRerankConcurrency = 5

// SummarizeChunk asks provider for a short summary of content, falling back
// to a first-line/comment heuristic if the call errors — summarization is
// a library-only extension point, never load-bearing for Build.
func SummarizeChunk(ctx context.Context, p llm.Provider, content string, maxLength int) string {
	if p != nil {
		prompt := "Summarize the following code in one sentence, under " +
			itoa(maxLength) + " characters:\n\n" + truncate(content, chunkTruncateChars)
		if resp, err := p.Generate(ctx, llm.GenerateRequest{Prompt: prompt, MaxTokens: 64, Temperature: 0.2}); err == nil {
			summary := strings.TrimSpace(resp.Text)
			if summary != "" {
				return truncate(summary, maxLength)
			}
		}
	}
	return heuristicSummary(content, maxLength)
}

// heuristicSummary falls back to the first non-blank line of content,
// whatever kind of line it is, truncated to maxLength.
func heuristicSummary(content string, maxLength int) string {
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		return truncate(trimmed, maxLength)
	}
	return ""
}

// BatchSummarize summarizes every chunk concurrently, bounded by
// llmRerankConcurrency in-flight calls.
func BatchSummarize(ctx context.Context, p llm.Provider, chunks []Chunk, maxLength int) []string {
	out := make([]string, len(chunks))
	sem := make(chan struct{}, llmRerankConcurrency)
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, content string) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = SummarizeChunk(ctx, p, content, maxLength)
		}(i, c.Content)
	}
	wg.Wait()
	return out
}

// RerankWithLLM re-scores the top topK*2 ranked chunks with an LLM
// relevance judgment, blending initial*0.4 + llmScore*0.6, and returns the
// full input re-sorted by the blended score (chunks outside the
// candidate window keep their original score and relative order).
func RerankWithLLM(ctx context.Context, p llm.Provider, query string, ranked []ScoredChunk, topK int, logger *slog.Logger) []ScoredChunk {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil || len(ranked) == 0 {
		return ranked
	}

	candidateN := topK * 2
	if candidateN > len(ranked) {
		candidateN = len(ranked)
	}
	candidates := ranked[:candidateN]
	rest := ranked[candidateN:]

	blended := make([]ScoredChunk, candidateN)
	sem := make(chan struct{}, llmRerankConcurrency)
	var wg sync.WaitGroup
	for i, sc := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sc ScoredChunk) {
			defer wg.Done()
			defer func() { <-sem }()
			llmScore := llm.RerankScore(ctx, p, query, sc.Chunk.Content)
			blended[i] = ScoredChunk{Chunk: sc.Chunk, Score: sc.Score*0.4 + llmScore*0.6}
		}(i, sc)
	}
	wg.Wait()

	sort.SliceStable(blended, func(i, j int) bool { return blended[i].Score > blended[j].Score })
	logger.Debug("ingestion.rerank.complete", "candidates", candidateN)

	return append(blended, rest...)
}
