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

package testing

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/ctxforge/pkg/ingestion"
	"github.com/kraklabs/ctxforge/pkg/llm"
)

// TestWriteTestRepo verifies the fixture materializes files that a Scanner
// can read back.
func TestWriteTestRepo(t *testing.T) {
	src := WriteTestRepo(t, map[string]string{
		"main.go":       "package main\n\nfunc main() {}\n",
		"internal/a.go": "package internal\n",
	})

	require.Equal(t, "local_path", src.Type)
	require.NotEmpty(t, src.Value)

	scanner := ingestion.NewScanner(nil)
	items, err := scanner.Scan(context.Background(), src, nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	paths := make([]string, len(items))
	for i, item := range items {
		paths[i] = item.Path
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"internal/a.go", "main.go"}, paths)
}

// TestWriteTestRepo_Isolated verifies each call gets its own temp dir.
func TestWriteTestRepo_Isolated(t *testing.T) {
	src1 := WriteTestRepo(t, map[string]string{"a.go": "package a\n"})
	src2 := WriteTestRepo(t, map[string]string{"b.go": "package b\n"})

	assert.NotEqual(t, src1.Value, src2.Value)
}

// TestNewMockEmbeddingProvider verifies the mock returns deterministic,
// same-dimension vectors.
func TestNewMockEmbeddingProvider(t *testing.T) {
	provider := NewMockEmbeddingProvider()
	require.NotNil(t, provider)

	v1, err := provider.Embed(context.Background(), []string{"hello world"})
	require.NoError(t, err)
	v2, err := provider.Embed(context.Background(), []string{"hello world"})
	require.NoError(t, err)

	assert.Equal(t, v1, v2, "embedding of identical input must be deterministic")
	require.Len(t, v1, 1)
	assert.NotEmpty(t, v1[0])
}

// TestNewMockLLMProvider_Default verifies the zero-value mock works without
// a canned response.
func TestNewMockLLMProvider_Default(t *testing.T) {
	provider := NewMockLLMProvider("")
	require.NotNil(t, provider)

	_, err := provider.Generate(context.Background(), llm.GenerateRequest{Prompt: "anything"})
	assert.NoError(t, err)
}

// TestNewMockLLMProvider_FixedResponse verifies the provider echoes the
// configured response regardless of the request.
func TestNewMockLLMProvider_FixedResponse(t *testing.T) {
	provider := NewMockLLMProvider("a hypothetical answer")

	resp, err := provider.Generate(context.Background(), llm.GenerateRequest{Prompt: "irrelevant"})
	require.NoError(t, err)
	assert.Equal(t, "a hypothetical answer", resp.Text)
	assert.True(t, resp.Done)
}
