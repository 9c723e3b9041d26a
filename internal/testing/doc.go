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

// Package testing provides fixtures for ctxforge pipeline tests.
//
// It materializes a small on-disk repository and hands back the
// RepoSource, embedding provider, and completion provider a pipeline
// test needs — no daemon, no schema, no Docker.
//
// # Quick Start
//
//	func TestMyFeature(t *testing.T) {
//	    src := testing.WriteTestRepo(t, map[string]string{
//	        "main.go": "package main\n\nfunc main() {}\n",
//	    })
//
//	    builder, err := ingestion.NewBuilder(ingestion.BuilderConfig{
//	        Budget:            1000,
//	        EmbeddingProvider: testing.NewMockEmbeddingProvider(),
//	        LLMProvider:       testing.NewMockLLMProvider(""),
//	    })
//	    require.NoError(t, err)
//
//	    result, err := builder.Build(context.Background(), src, "entry point")
//	    require.NoError(t, err)
//	}
//
// # Fixtures
//
//   - WriteTestRepo: writes a map of relative paths to a temp dir, returns
//     a LocalSource
//   - NewMockEmbeddingProvider: deterministic hash-based embeddings
//   - NewMockLLMProvider: a completion provider returning a fixed response
package testing
