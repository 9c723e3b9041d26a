// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OLLAMA_HOST", "OLLAMA_EMBED_MODEL", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "CTXFORGE_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestNewPipeline_NoProvidersConfigured(t *testing.T) {
	clearProviderEnv(t)

	builder, err := NewPipeline(PipelineOptions{Budget: 8000})
	require.NoError(t, err)
	require.NotNil(t, builder)
}

func TestNewPipeline_InvalidBudgetPropagatesError(t *testing.T) {
	clearProviderEnv(t)

	_, err := NewPipeline(PipelineOptions{Budget: 0})
	assert.Error(t, err)
}

func TestResolveEmbeddingProvider_NoneConfigured(t *testing.T) {
	clearProviderEnv(t)

	provider := resolveEmbeddingProvider(slog.Default())
	assert.Nil(t, provider)
}

func TestResolveEmbeddingProvider_Ollama(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")

	provider := resolveEmbeddingProvider(slog.Default())
	require.NotNil(t, provider)
	assert.Equal(t, "ollama", provider.Name())
}

func TestResolveLLMProvider_NoneConfigured(t *testing.T) {
	clearProviderEnv(t)

	provider := resolveLLMProvider(slog.Default())
	assert.Nil(t, provider)
}

func TestResolveLLMProvider_PrefersAnthropicOverOpenAI(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	provider := resolveLLMProvider(slog.Default())
	require.NotNil(t, provider)
}

func TestResolveLLMProvider_FallsBackToOllama(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")

	provider := resolveLLMProvider(slog.Default())
	require.NotNil(t, provider)
}
