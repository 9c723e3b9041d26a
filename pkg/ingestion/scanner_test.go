// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestScanner_Scan_ReadsAllFiles(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"main.go":       "package main\n",
		"internal/a.go": "package internal\n",
	})

	scanner := NewScanner(nil)
	items, err := scanner.Scan(context.Background(), LocalSource(root), nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	paths := make([]string, len(items))
	for i, item := range items {
		paths[i] = item.Path
		assert.Equal(t, "go", item.Language)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"internal/a.go", "main.go"}, paths)
}

func TestScanner_Scan_ExcludeGlob(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"main.go":        "package main\n",
		"main_test.go":   "package main\n",
		"vendor/lib.go":  "package vendor\n",
	})

	scanner := NewScanner(nil)
	items, err := scanner.Scan(context.Background(), LocalSource(root), []string{"*_test.go", "vendor/*"}, nil)
	require.NoError(t, err)

	for _, item := range items {
		assert.NotContains(t, item.Path, "_test.go")
		assert.NotContains(t, item.Path, "vendor/")
	}
	assert.Len(t, items, 1)
}

func TestScanner_Scan_IncludeGlobRestricts(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"main.go":   "package main\n",
		"README.md": "# hi\n",
	})

	scanner := NewScanner(nil)
	items, err := scanner.Scan(context.Background(), LocalSource(root), nil, []string{"*.go"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "main.go", items[0].Path)
}

func TestScanner_Scan_NonexistentLocalPathErrors(t *testing.T) {
	scanner := NewScanner(nil)
	_, err := scanner.Scan(context.Background(), LocalSource(filepath.Join(t.TempDir(), "missing")), nil, nil)
	assert.Error(t, err)
}

func TestDeriveOwnerRepo_SSHShorthand(t *testing.T) {
	owner, repo := deriveOwnerRepo("git@github.com:acme/tool.git")
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "tool", repo)
}

func TestDeriveOwnerRepo_HTTPSURL(t *testing.T) {
	owner, repo := deriveOwnerRepo("https://example.com/acme/tool.git")
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "tool", repo)
}

func TestParseHostingURL_OwnerRepoUsedAsPrefix(t *testing.T) {
	parsed, ok := ParseHostingURL("https://github.com/acme/tool")
	require.True(t, ok)
	assert.Equal(t, "acme", parsed.Owner)
	assert.Equal(t, "tool", parsed.Repo)
}

func TestReadOne_AppliesPrefix(t *testing.T) {
	root := writeRepo(t, map[string]string{"main.go": "package main\n"})
	scanner := NewScanner(nil)

	item, ok := scanner.readOne(root, "acme/tool/", "main.go")
	require.True(t, ok)
	assert.Equal(t, "acme/tool/main.go", item.Path)
}
