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
	"os"
	"path/filepath"
	"testing"

	"github.com/kraklabs/ctxforge/pkg/embedding"
	"github.com/kraklabs/ctxforge/pkg/ingestion"
	"github.com/kraklabs/ctxforge/pkg/llm"
)

// WriteTestRepo materializes files (relative path -> content) under a fresh
// t.TempDir and returns a LocalSource pointing at it. This is the fixture
// most pipeline tests start from instead of a real clone.
//
// Example:
//
//	src := testing.WriteTestRepo(t, map[string]string{
//	    "main.go":       "package main\n\nfunc main() {}\n",
//	    "internal/a.go": "package internal\n",
//	})
func WriteTestRepo(t *testing.T, files map[string]string) ingestion.RepoSource {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return ingestion.LocalSource(root)
}

// NewMockEmbeddingProvider returns a deterministic embedding provider
// suitable for exercising semantic ranking without a live Ollama/OpenAI
// backend.
func NewMockEmbeddingProvider() embedding.Provider {
	return embedding.NewMockProvider(32)
}

// NewMockLLMProvider returns a completion provider with a fixed response,
// or the package's default canned response if resp is empty. Useful for
// HyDE/smart-rerank tests that don't care about the actual text, only that
// a call happened.
func NewMockLLMProvider(resp string) llm.Provider {
	if resp == "" {
		return &llm.MockProvider{}
	}
	return &llm.MockProvider{
		GenerateFunc: func(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
			return &llm.GenerateResponse{Text: resp, Done: true}, nil
		},
	}
}
