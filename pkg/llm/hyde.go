// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GenerateHypothesis produces a short hypothetical answer to query (HyDE:
// Hypothetical Document Embeddings) — embedding the query alongside a
// plausible answer surfaces chunks that share the answer's vocabulary, not
// just the question's. Callers truncate the result themselves; any error
// here should fall back to embedding the raw query.
func GenerateHypothesis(ctx context.Context, p Provider, query string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short hypothetical code snippet or explanation that would answer this question about a codebase. Be concise.\n\nQuestion: %s",
		query,
	)
	resp, err := p.Generate(ctx, GenerateRequest{Prompt: prompt, MaxTokens: 256, Temperature: 0.3})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// RerankScore asks the model to rate, from 0.0 to 1.0, how relevant content
// is to query. Any parse or request failure returns 0.5 (neutral) so a
// rerank fault never eliminates a candidate outright.
func RerankScore(ctx context.Context, p Provider, query, content string) float64 {
	prompt := fmt.Sprintf(
		"Rate how relevant the following code is to the query, as a single number between 0.0 and 1.0. Respond with only the number.\n\nQuery: %s\n\nCode:\n%s",
		query, truncateForPrompt(content, 2000),
	)
	resp, err := p.Generate(ctx, GenerateRequest{Prompt: prompt, MaxTokens: 8, Temperature: 0})
	if err != nil {
		return 0.5
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(resp.Text), 64)
	if err != nil || score < 0 || score > 1 {
		return 0.5
	}
	return score
}

// ExpandQuery asks the model for up to four related search terms, returning
// [query] plus those terms. On any failure it returns [query] alone.
func ExpandQuery(ctx context.Context, p Provider, query string) []string {
	prompt := fmt.Sprintf(
		"List up to 4 additional search terms related to this query about a codebase, one per line, no numbering or punctuation.\n\nQuery: %s",
		query,
	)
	resp, err := p.Generate(ctx, GenerateRequest{Prompt: prompt, MaxTokens: 64, Temperature: 0.2})
	if err != nil {
		return []string{query}
	}
	terms := []string{query}
	for _, line := range strings.Split(resp.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		terms = append(terms, line)
		if len(terms) == 5 {
			break
		}
	}
	return terms
}

func truncateForPrompt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
