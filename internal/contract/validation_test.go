// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxBudget_Default(t *testing.T) {
	os.Unsetenv("CTXFORGE_MAX_BUDGET")
	assert.Equal(t, DefaultMaxBudget, MaxBudget())
}

func TestMaxBudget_EnvOverride(t *testing.T) {
	t.Setenv("CTXFORGE_MAX_BUDGET", "500000")
	assert.Equal(t, 500000, MaxBudget())
}

func TestMaxBudget_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("CTXFORGE_MAX_BUDGET", "not-a-number")
	assert.Equal(t, DefaultMaxBudget, MaxBudget())

	t.Setenv("CTXFORGE_MAX_BUDGET", "-5")
	assert.Equal(t, DefaultMaxBudget, MaxBudget())
}

func TestValidateBudget(t *testing.T) {
	t.Setenv("CTXFORGE_MAX_BUDGET", "100000")

	cases := []struct {
		name   string
		budget int
		ok     bool
	}{
		{"positive", 8000, true},
		{"zero", 0, false},
		{"negative", -1, false},
		{"at ceiling", 100000, true},
		{"over ceiling", 100001, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := ValidateBudget(c.budget)
			assert.Equal(t, c.ok, result.OK)
			if !c.ok {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestValidateGlobs(t *testing.T) {
	assert.True(t, ValidateGlobs(nil).OK)
	assert.True(t, ValidateGlobs([]string{}).OK)
	assert.True(t, ValidateGlobs([]string{"*.go", "internal/**"}).OK)

	empty := ValidateGlobs([]string{"*.go", ""})
	assert.False(t, empty.OK)

	tooLong := ValidateGlobs([]string{strings.Repeat("a", MaxGlobPatternBytes+1)})
	assert.False(t, tooLong.OK)
}

func TestValidateSource(t *testing.T) {
	assert.True(t, ValidateSource(".").OK)
	assert.True(t, ValidateSource("https://github.com/owner/repo").OK)

	assert.False(t, ValidateSource("").OK)
	assert.False(t, ValidateSource("   ").OK)
}
