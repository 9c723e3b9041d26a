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

// SelectionResult is the outcome of budgeted chunk selection.
type SelectionResult struct {
	Chunks            []Chunk
	TotalTokens       int
	RelatedFilesAdded int
}

// Select runs the two-pass greedy budget fill described by the distilled
// spec: a primary pass over ranked chunks that stops once it would exceed
// reserveFraction*budget, followed (if followImports) by an expansion pass
// that pulls in chunks from files related by import to whatever the
// primary pass selected, up to the full budget. The final chunk list is
// re-sorted by score descending.
func Select(ranked []ScoredChunk, budget int, reserveFraction float64, followImports bool, graph *DependencyGraph, importDepth int, counter TokenCounter) SelectionResult {
	if counter == nil {
		counter = CountTokens
	}
	primaryLimit := int(float64(budget) * reserveFraction)

	var selected []ScoredChunk
	selectedPaths := make(map[string]bool)
	totalTokens := 0

	for _, sc := range ranked {
		tokens := counter(sc.Chunk.Content)
		if totalTokens+tokens > primaryLimit {
			break
		}
		selected = append(selected, sc)
		selectedPaths[sc.Chunk.Path] = true
		totalTokens += tokens
	}

	relatedAdded := 0
	if followImports && graph != nil && len(selectedPaths) > 0 {
		related := RelatedFiles(selectedPaths, graph, importDepth)
		if len(related) > 0 {
			alreadySelected := make(map[chunkKey]bool, len(selected))
			for _, sc := range selected {
				alreadySelected[keyFor(sc.Chunk)] = true
			}

			for _, sc := range ranked {
				if !related[sc.Chunk.Path] || alreadySelected[keyFor(sc.Chunk)] {
					continue
				}
				tokens := counter(sc.Chunk.Content)
				if totalTokens+tokens > budget {
					continue
				}
				selected = append(selected, sc)
				alreadySelected[keyFor(sc.Chunk)] = true
				totalTokens += tokens
				relatedAdded++
			}
		}
	}

	stableSortDesc(selected)

	chunks := make([]Chunk, len(selected))
	for i, sc := range selected {
		chunks[i] = sc.Chunk
	}

	return SelectionResult{
		Chunks:            chunks,
		TotalTokens:       totalTokens,
		RelatedFilesAdded: relatedAdded,
	}
}
