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

// Package bootstrap wires a ready-to-use ingestion.Builder from CLI-level
// options.
//
// This internal package is the one place that turns environment variables
// into concrete provider instances: OLLAMA_HOST selects the embedding
// backend, ANTHROPIC_API_KEY/OPENAI_API_KEY/OLLAMA_HOST (in that preference
// order) select the completion backend used for HyDE and smart rerank, and
// CTXFORGE_MODEL overrides the completion model. Everything else in
// PipelineOptions maps directly onto ingestion.BuilderConfig.
//
// # Usage
//
//	builder, err := bootstrap.NewPipeline(bootstrap.PipelineOptions{
//	    Budget:        8000,
//	    Hybrid:        true,
//	    FollowImports: true,
//	    ImportDepth:   2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := builder.Build(ctx, ingestion.LocalSource(path), query)
//
// # Graceful Degradation
//
// NewPipeline never fails because a provider is unconfigured: if no
// embedding backend is resolvable, Hybrid ranking silently falls back to
// lexical-only; if no completion backend is resolvable, Hyde and
// SmartRerank are no-ops. The only error NewPipeline returns is from
// ingestion.NewBuilder itself (e.g. a non-positive Budget).
package bootstrap
