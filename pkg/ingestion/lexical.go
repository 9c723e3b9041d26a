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
	"math"
	"regexp"
	"sort"
	"strings"
)

// ScoredChunk pairs a Chunk with a ranking score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

var (
	wordPattern   = regexp.MustCompile(`[a-z][a-z0-9_]*`)
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Tokenize lowercases text and extracts `[a-z][a-z0-9_]*` runs, then adds
// the lowercased pieces of each identifier in the original text split on
// camelCase boundaries and underscores, so "getUserName" yields
// "getusername", "get", "user" and "name".
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := wordPattern.FindAllString(lower, -1)

	// Recover camelCase boundaries from the original (case-preserved) text
	// by running the same extraction before lowercasing, splitting each
	// match on camelCase, then lowercasing the pieces.
	var tokens []string
	tokens = append(tokens, raw...)

	identPattern := regexp.MustCompile(`[A-Za-z][A-Za-z0-9_]*`)
	for _, word := range identPattern.FindAllString(text, -1) {
		split := camelBoundary.ReplaceAllString(word, "${1}_${2}")
		for _, part := range strings.Split(split, "_") {
			if part == "" {
				continue
			}
			lowerPart := strings.ToLower(part)
			if wordPattern.MatchString(lowerPart) {
				tokens = append(tokens, lowerPart)
			}
		}
	}
	return tokens
}

const (
	bm25K1 = 1.5
	bm25B  = 0.75

	pathBonus = 2.0
	nameBonus = 3.0
)

// RankLexical scores chunks against query using BM25 over Tokenize'd
// content, adds 2.0 per query term overlapping the tokenized path and 3.0
// per query term overlapping the tokenized chunk name, then normalizes so
// the top score is 1.0.
func RankLexical(query string, chunks []Chunk) []ScoredChunk {
	queryTerms := uniqueTerms(Tokenize(query))
	if len(queryTerms) == 0 {
		out := make([]ScoredChunk, len(chunks))
		for i, c := range chunks {
			out[i] = ScoredChunk{Chunk: c, Score: 0}
		}
		return out
	}

	docs := make([][]string, len(chunks))
	docLens := make([]float64, len(chunks))
	var totalLen float64
	termDocFreq := make(map[string]int)

	for i, c := range chunks {
		toks := Tokenize(c.Content)
		docs[i] = toks
		docLens[i] = float64(len(toks))
		totalLen += docLens[i]

		seen := make(map[string]bool, len(toks))
		for _, t := range toks {
			seen[t] = true
		}
		for t := range seen {
			termDocFreq[t]++
		}
	}

	n := len(chunks)
	avgDocLen := 1.0
	if n > 0 {
		avgDocLen = totalLen / float64(n)
	}

	idf := make(map[string]float64, len(queryTerms))
	for _, t := range queryTerms {
		df := termDocFreq[t]
		idf[t] = math.Log((float64(n)-float64(df)+0.5)/(float64(df)+0.5) + 1)
	}

	scored := make([]ScoredChunk, n)
	for i, c := range chunks {
		termFreq := make(map[string]int, len(docs[i]))
		for _, t := range docs[i] {
			termFreq[t]++
		}

		var score float64
		for _, t := range queryTerms {
			tf := float64(termFreq[t])
			if tf == 0 {
				continue
			}
			numerator := tf * (bm25K1 + 1)
			denominator := tf + bm25K1*(1-bm25B+bm25B*docLens[i]/avgDocLen)
			score += idf[t] * numerator / denominator
		}

		score += float64(overlapCount(queryTerms, Tokenize(c.Path))) * pathBonus
		score += float64(overlapCount(queryTerms, Tokenize(c.Name))) * nameBonus

		scored[i] = ScoredChunk{Chunk: c, Score: score}
	}

	return normalizeScores(scored)
}

// overlapCount returns the number of distinct queryTerms that also appear
// in tokens.
func overlapCount(queryTerms []string, tokens []string) int {
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}
	var n int
	for _, t := range queryTerms {
		if present[t] {
			n++
		}
	}
	return n
}

func uniqueTerms(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// normalizeScores sorts scored descending by score and rescales so the top
// score is 1.0. A chunk set that is entirely zero-scored is left as-is
// (preserving input order) rather than dividing by zero.
func normalizeScores(scored []ScoredChunk) []ScoredChunk {
	stableSortDesc(scored)
	if len(scored) == 0 || scored[0].Score <= 0 {
		return scored
	}
	top := scored[0].Score
	for i := range scored {
		scored[i].Score /= top
	}
	return scored
}

// stableSortDesc sorts scored by Score descending, stable on ties.
func stableSortDesc(scored []ScoredChunk) {
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
}
