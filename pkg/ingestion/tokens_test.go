// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens_Empty(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))
}

func TestCountTokens_NonEmptyNeverZero(t *testing.T) {
	assert.Equal(t, 1, CountTokens("a"))
	assert.Equal(t, 1, CountTokens("abc"))
}

func TestCountTokens_Scales(t *testing.T) {
	short := CountTokens(strings.Repeat("a", 40))
	long := CountTokens(strings.Repeat("a", 400))
	assert.Greater(t, long, short)
	assert.Equal(t, 10, short)
	assert.Equal(t, 100, long)
}

func TestCountTokens_Deterministic(t *testing.T) {
	text := "package main\n\nfunc main() {}\n"
	assert.Equal(t, CountTokens(text), CountTokens(text))
}
