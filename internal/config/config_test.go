// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ctxforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeYAML(t, `
budget: 12000
include:
  - "**/*.go"
exclude:
  - "**/*_test.go"
hybrid: true
follow_imports: true
import_depth: 3
hyde: true
smart_rerank: true
format: xml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12000, cfg.Budget)
	assert.Equal(t, []string{"**/*.go"}, cfg.Include)
	assert.Equal(t, []string{"**/*_test.go"}, cfg.Exclude)
	assert.True(t, cfg.Hybrid)
	assert.True(t, cfg.FollowImports)
	assert.Equal(t, 3, cfg.ImportDepth)
	assert.True(t, cfg.Hyde)
	assert.True(t, cfg.SmartRerank)
	assert.Equal(t, "xml", cfg.Format)
}

func TestLoad_PartialFileLeavesRestZeroValued(t *testing.T) {
	path := writeYAML(t, `budget: 5000`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Budget)
	assert.Nil(t, cfg.Include)
	assert.False(t, cfg.Hybrid)
	assert.Equal(t, "", cfg.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeYAML(t, "budget: [this is not, valid: yaml")

	_, err := Load(path)
	assert.Error(t, err)
}
