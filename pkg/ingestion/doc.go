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

// Package ingestion builds a token-bounded, query-relevant code context
// from a repository: scan source files, split them into semantically
// meaningful chunks, rank those chunks against a query, and greedily select
// the highest-value chunks that fit inside a token budget.
//
// # Pipeline Overview
//
// Build runs a single codebase and query through the first five stages and
// returns a ContextResult; its Render method performs the sixth:
//
//  1. Scan: read every non-excluded file under the repository (local
//     directory, or a git URL cloned/refreshed into a local cache)
//  2. Chunk: split each file into file/header/function/class/... chunks
//  3. Analyze: build the cross-file import dependency graph and score
//     each file's structural importance independently of the query
//  4. Rank: score chunks against the query lexically (BM25) and,
//     optionally, semantically (embedding cosine similarity), then blend
//     the two with the importance score into one final ranking
//  5. Select: greedily fill the token budget with the highest-ranked
//     chunks, then expand to pull in chunks from files related by import
//     to whatever was already selected
//  6. Render: format the selected chunks as Markdown or XML
//
// # Quick Start
//
//	builder, err := ingestion.NewBuilder(ingestion.BuilderConfig{
//	    Budget: 50000,
//	    Logger: logger,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := builder.Build(ctx, ingestion.LocalSource("/path/to/repo"),
//	    "how does authentication work")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Print(result.Render(ingestion.FormatMarkdown))
//
// # Supported Languages
//
// The definition-aware chunker recognizes Python, JavaScript, TypeScript,
// Go, and Rust function/type boundaries; every other language falls back to
// fixed-size chunking. Go additionally gets a tree-sitter-backed chunker
// (see chunker_go.go) that falls back to the regex strategy on parse error.
//
// # Configuration
//
// BuilderConfig controls the token budget, budget reserve fraction,
// include/exclude globs, and whether semantic ranking, import-following,
// HyDE and smart rerank are enabled. NewBuilder fills in defaults for unset
// fields: ReserveFraction 0.7, ImportDepth 2, CountTokens as the token
// counter, and a default Scanner and Logger. The hybrid ranking weights are
// not configurable; Build always uses DefaultHybridWeights.
//
// # Metrics
//
// Each pipeline stage emits a Prometheus histogram of its duration and the
// semantic ranker emits embedding cache hit/miss/error counters; see
// metrics.go.
package ingestion
