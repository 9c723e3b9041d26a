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

package bootstrap

import (
	"log/slog"
	"os"

	"github.com/kraklabs/ctxforge/pkg/cache"
	"github.com/kraklabs/ctxforge/pkg/embedding"
	"github.com/kraklabs/ctxforge/pkg/ingestion"
	"github.com/kraklabs/ctxforge/pkg/llm"
)

// PipelineOptions holds the CLI-facing options needed to construct a
// Builder. Fields mirror the `ctxforge query` flags directly.
type PipelineOptions struct {
	Budget          int
	Include         []string
	Exclude         []string
	Hybrid          bool
	FollowImports   bool
	ImportDepth     int
	Hyde            bool
	SmartRerank     bool
	ReserveFraction float64

	// EmbeddingCacheDir overrides the embedding cache's on-disk directory;
	// empty uses FileCache's own default (~/.cache/ctxforge/embeddings).
	EmbeddingCacheDir string

	Logger *slog.Logger
}

// NewPipeline resolves embedding/completion providers from the environment
// (OLLAMA_HOST selects the embedding backend; ANTHROPIC_API_KEY,
// OPENAI_API_KEY or OLLAMA_HOST select the completion backend and
// CTXFORGE_MODEL its model, used for HyDE and smart rerank) and returns
// a ready Builder. Resolution is best-effort: if no embedding backend is
// configured, Hybrid ranking silently degrades to lexical-only; if no
// completion backend is configured, Hyde/SmartRerank are no-ops. Only a
// malformed BuilderConfig (e.g. a non-positive budget) returns an error.
func NewPipeline(opts PipelineOptions) (*ingestion.Builder, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	embedProvider := resolveEmbeddingProvider(logger)

	var embedCache cache.Cache
	if embedProvider != nil {
		c, err := cache.NewFileCache(cache.FileCacheConfig{DataDir: opts.EmbeddingCacheDir})
		if err != nil {
			logger.Warn("bootstrap.embedding_cache.unavailable", "err", err)
		} else {
			embedCache = c
		}
	}

	llmProvider := resolveLLMProvider(logger)

	return ingestion.NewBuilder(ingestion.BuilderConfig{
		Budget:            opts.Budget,
		Include:           opts.Include,
		Exclude:           opts.Exclude,
		Hybrid:            opts.Hybrid,
		FollowImports:     opts.FollowImports,
		ImportDepth:       opts.ImportDepth,
		Hyde:              opts.Hyde,
		SmartRerank:       opts.SmartRerank,
		ReserveFraction:   opts.ReserveFraction,
		EmbeddingProvider: embedProvider,
		EmbeddingCache:    embedCache,
		LLMProvider:       llmProvider,
		Logger:            logger,
	})
}

// resolveEmbeddingProvider picks Ollama when OLLAMA_HOST is set, returning
// nil (no semantic ranking) otherwise. OpenAI embeddings are not yet wired
// here; OPENAI_API_KEY alone selects the completion provider only.
func resolveEmbeddingProvider(logger *slog.Logger) embedding.Provider {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		model := os.Getenv("OLLAMA_EMBED_MODEL")
		if model == "" {
			model = "nomic-embed-text"
		}
		logger.Debug("bootstrap.embedding.ollama", "host", host, "model", model)
		return embedding.NewOllamaProvider(host, model, 0)
	}
	return nil
}

// resolveLLMProvider picks a completion provider for HyDE/smart-rerank,
// preferring an explicit ANTHROPIC_API_KEY or OPENAI_API_KEY, falling back
// to Ollama if OLLAMA_HOST is set, and returning nil (HyDE/rerank disabled)
// otherwise. CTXFORGE_MODEL overrides the provider's default model.
func resolveLLMProvider(logger *slog.Logger) llm.Provider {
	model := os.Getenv("CTXFORGE_MODEL")

	var cfg llm.ProviderConfig
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg = llm.ProviderConfig{Type: "anthropic", APIKey: os.Getenv("ANTHROPIC_API_KEY"), DefaultModel: model}
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg = llm.ProviderConfig{Type: "openai", APIKey: os.Getenv("OPENAI_API_KEY"), DefaultModel: model}
	case os.Getenv("OLLAMA_HOST") != "":
		cfg = llm.ProviderConfig{Type: "ollama", BaseURL: os.Getenv("OLLAMA_HOST"), DefaultModel: model}
	default:
		return nil
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		logger.Warn("bootstrap.llm.unavailable", "type", cfg.Type, "err", err)
		return nil
	}
	return provider
}
