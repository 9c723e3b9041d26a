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

import "strings"

// HybridWeights controls how the lexical, semantic, and importance scores
// blend into a chunk's final rank.
type HybridWeights struct {
	Keyword    float64
	Embedding  float64
	Importance float64
}

// DefaultHybridWeights matches the distilled ranking formula: with
// embeddings available, 0.4/0.4/0.2; the Combine function redistributes
// Keyword+Embedding's share onto Keyword when embeddings are absent.
func DefaultHybridWeights() HybridWeights {
	return HybridWeights{Keyword: 0.4, Embedding: 0.4, Importance: 0.2}
}

var docExtensions = map[string]bool{
	".md": true, ".mdx": true, ".txt": true, ".rst": true,
}

// Combine blends lexical and (optional) semantic rankings with each
// chunk's query-independent importance score, applies a x0.6 penalty to
// documentation-file chunks, sorts descending, and renormalizes to a top
// score of 1.0. semantic may be nil when semantic ranking is disabled or
// unavailable, in which case the full keyword+embedding weight collapses
// onto keyword.
func Combine(lexical, semantic []ScoredChunk, importance map[string]float64, weights HybridWeights) []ScoredChunk {
	keywordByChunk := indexByIdentity(lexical)

	useEmbeddings := semantic != nil
	kw, emb, imp := weights.Keyword, weights.Embedding, weights.Importance
	if !useEmbeddings {
		kw += emb
		emb = 0
	}

	var semanticByChunk map[chunkKey]float64
	if useEmbeddings {
		semanticByChunk = indexByIdentity(semantic)
	}

	combined := make([]ScoredChunk, len(lexical))
	for i, sc := range lexical {
		key := keyFor(sc.Chunk)
		kwScore := keywordByChunk[key]
		embScore := 0.0
		if useEmbeddings {
			embScore = semanticByChunk[key]
		}
		impScore := importance[sc.Chunk.Path]

		final := kw*kwScore + emb*embScore + imp*impScore
		if isDocFile(sc.Chunk.Path) {
			final *= 0.6
		}

		combined[i] = ScoredChunk{Chunk: sc.Chunk, Score: final}
	}

	return normalizeScores(combined)
}

type chunkKey struct {
	path      string
	startLine int
	endLine   int
}

func keyFor(c Chunk) chunkKey {
	return chunkKey{path: c.Path, startLine: c.StartLine, endLine: c.EndLine}
}

func indexByIdentity(scored []ScoredChunk) map[chunkKey]float64 {
	m := make(map[chunkKey]float64, len(scored))
	for _, sc := range scored {
		m[keyFor(sc.Chunk)] = sc.Score
	}
	return m
}

func isDocFile(path string) bool {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return false
	}
	return docExtensions[strings.ToLower(path[idx:])]
}
