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
	"time"

	"github.com/kraklabs/ctxforge/internal/errors"
	"github.com/kraklabs/ctxforge/pkg/cache"
	"github.com/kraklabs/ctxforge/pkg/embedding"
	"github.com/kraklabs/ctxforge/pkg/llm"
)

// BuilderConfig controls one Build call. Scanner and Logger may be left nil
// to get the defaults; EmbeddingProvider and LLMProvider may be left nil to
// disable semantic ranking and HyDE/smart-rerank respectively.
type BuilderConfig struct {
	Budget          int
	Include         []string
	Exclude         []string
	Hybrid          bool
	FollowImports   bool
	ImportDepth     int
	Hyde            bool
	SmartRerank     bool
	ReserveFraction float64

	Scanner           *Scanner
	EmbeddingProvider embedding.Provider
	EmbeddingCache    cache.Cache
	LLMProvider       llm.Provider
	Logger            *slog.Logger
	TokenCounter      TokenCounter
}

// Builder runs the context-building pipeline for a fixed configuration
// across any number of Build calls.
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder validates cfg, applies defaults, and returns a reusable Builder.
// Returns a *errors.UserError (ExitInvalidInput) if the configuration itself is
// invalid — independent of any later Build's query or source.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.Budget <= 0 {
		return nil, errors.NewInvalidInputError(
			"Invalid token budget",
			"Budget must be a positive number of tokens",
			"Pass --budget with a positive integer, e.g. --budget 8000",
		)
	}
	if cfg.ReserveFraction <= 0 || cfg.ReserveFraction > 1 {
		cfg.ReserveFraction = 0.7
	}
	if cfg.ImportDepth <= 0 {
		cfg.ImportDepth = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Scanner == nil {
		cfg.Scanner = NewScanner(cfg.Logger)
	}
	if cfg.TokenCounter == nil {
		cfg.TokenCounter = CountTokens
	}
	return &Builder{cfg: cfg}, nil
}

// Build runs source through the full pipeline — scan, chunk, analyze
// (dependency graph + importance), rank (lexical and, if configured,
// semantic), combine, select, and return a ContextResult. It never returns
// a partial result silently: the only errors returned are InvalidInput
// (bad query) or RemoteFetch (the scanner couldn't reach/read the source).
// Every other fault — a clone refresh failing, a single file being
// unreadable, a chunk's language going unparsed — is logged and absorbed,
// per this pipeline's error-handling contract.
func (b *Builder) Build(ctx context.Context, source RepoSource, query string) (ContextResult, error) {
	start := time.Now()
	defer func() { recordTotalDuration(time.Since(start)) }()

	if query == "" {
		return ContextResult{}, errors.NewInvalidInputError(
			"Empty query",
			"A query describing what context is needed is required",
			"Pass --query \"...\" or a positional query argument",
		)
	}

	cfg := b.cfg
	log := cfg.Logger

	items, err := b.scan(ctx, source)
	if err != nil {
		return ContextResult{}, errors.NewRemoteFetchError(
			"Could not read the requested source",
			err.Error(),
			"Check that the path exists or the repository URL is reachable",
			err,
		)
	}
	addFilesScanned(len(items))

	chunks := b.chunkAll(items)

	graph, importance := b.analyze(items)

	hypothesis := ""
	if cfg.Hyde && cfg.LLMProvider != nil {
		h, err := llm.GenerateHypothesis(ctx, cfg.LLMProvider, query)
		if err != nil {
			log.Warn("pipeline.hyde.failed", "err", err)
		} else {
			hypothesis = h
		}
	}

	lexical := b.rankLexical(query, chunks)
	semantic := b.rankSemantic(ctx, query, hypothesis, chunks)

	ranked := b.combine(lexical, semantic, importance)

	if cfg.SmartRerank && cfg.LLMProvider != nil {
		topK := 50
		if topK > len(ranked) {
			topK = len(ranked)
		}
		ranked = RerankWithLLM(ctx, cfg.LLMProvider, query, ranked, topK, log)
	}

	result := b.selectAndRender(ranked, graph, len(items), query)
	return result, nil
}

func (b *Builder) scan(ctx context.Context, source RepoSource) ([]SourceItem, error) {
	start := time.Now()
	defer func() { recordScanDuration(time.Since(start)) }()
	return b.cfg.Scanner.Scan(ctx, source, b.cfg.Exclude, b.cfg.Include)
}

func (b *Builder) chunkAll(items []SourceItem) []Chunk {
	start := time.Now()
	defer func() { recordChunkDuration(time.Since(start)) }()

	var chunks []Chunk
	for _, item := range items {
		chunks = append(chunks, ChunkFile(item)...)
	}
	addChunksCreated(len(chunks))
	return chunks
}

func (b *Builder) analyze(items []SourceItem) (*DependencyGraph, map[string]float64) {
	start := time.Now()
	defer func() { recordAnalyzeDuration(time.Since(start)) }()

	graph := BuildDependencyGraph(items)
	importance := make(map[string]float64, len(items))
	for _, item := range items {
		importance[item.Path] = ComputeImportance(item.Path, graph, len(items))
	}
	return graph, importance
}

func (b *Builder) rankLexical(query string, chunks []Chunk) []ScoredChunk {
	start := time.Now()
	defer func() { recordLexicalDuration(time.Since(start)) }()
	return RankLexical(query, chunks)
}

// rankSemantic returns nil (disabling the embedding contribution entirely)
// when the caller didn't opt into hybrid ranking or didn't configure an
// embedding provider — Combine treats a nil semantic ranking as "embeddings
// unavailable" and redistributes its weight onto the keyword score.
func (b *Builder) rankSemantic(ctx context.Context, query, hypothesis string, chunks []Chunk) []ScoredChunk {
	if !b.cfg.Hybrid || b.cfg.EmbeddingProvider == nil {
		return nil
	}
	start := time.Now()
	defer func() { recordSemanticDuration(time.Since(start)) }()

	ranker := NewSemanticRanker(b.cfg.EmbeddingProvider, b.cfg.EmbeddingCache, b.cfg.Logger)
	effectiveQuery := query
	if hypothesis != "" {
		effectiveQuery = BuildHydeQuery(query, hypothesis)
	}
	return ranker.Rank(ctx, effectiveQuery, chunks)
}

func (b *Builder) combine(lexical, semantic []ScoredChunk, importance map[string]float64) []ScoredChunk {
	start := time.Now()
	defer func() { recordHybridDuration(time.Since(start)) }()
	return Combine(lexical, semantic, importance, DefaultHybridWeights())
}

func (b *Builder) selectAndRender(ranked []ScoredChunk, graph *DependencyGraph, filesScanned int, query string) ContextResult {
	start := time.Now()
	defer func() { recordSelectDuration(time.Since(start)) }()

	sel := Select(ranked, b.cfg.Budget, b.cfg.ReserveFraction, b.cfg.FollowImports, graph, b.cfg.ImportDepth, b.cfg.TokenCounter)
	addChunksSelected(len(sel.Chunks))
	if dropped := len(ranked) - len(sel.Chunks); dropped > 0 {
		addChunksDropped(dropped)
	}

	includedFiles := make(map[string]bool, len(sel.Chunks))
	for _, c := range sel.Chunks {
		includedFiles[c.Path] = true
	}

	return ContextResult{
		Query:             query,
		Chunks:            sel.Chunks,
		TotalTokens:       sel.TotalTokens,
		Budget:            b.cfg.Budget,
		FilesScanned:      filesScanned,
		FilesIncluded:     len(includedFiles),
		RelatedFilesAdded: sel.RelatedFilesAdded,
	}
}
