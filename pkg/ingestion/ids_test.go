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

package ingestion

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"./src/main.go":  "src/main.go",
		"src/main.go":    "src/main.go",
		"/src/main.go":   "src/main.go",
		"src//main.go":   "src/main.go",
		"src/../src/a.go": "src/a.go",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	text := "func main() {}"
	h1 := ContentHash(text)
	h2 := ContentHash(text)
	if h1 != h2 {
		t.Errorf("ContentHash should be deterministic: got %q and %q", h1, h2)
	}
	if len(h1) != 16 {
		t.Errorf("ContentHash should be 16 hex chars, got %d: %q", len(h1), h1)
	}
}

func TestContentHash_DifferentText(t *testing.T) {
	h1 := ContentHash("func main() {}")
	h2 := ContentHash("func other() {}")
	if h1 == h2 {
		t.Errorf("ContentHash should differ for different text: both got %q", h1)
	}
}

func TestContentHash_EmptyText(t *testing.T) {
	h := ContentHash("")
	if len(h) != 16 {
		t.Errorf("ContentHash of empty string should still be 16 hex chars, got %q", h)
	}
}
