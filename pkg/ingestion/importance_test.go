// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFileImportance_EntrypointScoresHigherThanTest(t *testing.T) {
	main := ComputeFileImportance("cmd/app/main.go")
	test := ComputeFileImportance("tests/fixtures/sample.go")
	assert.Greater(t, main, test)
}

func TestComputeFileImportance_BoundedToUnitInterval(t *testing.T) {
	for _, p := range []string{"main.go", "vendor/deep/a/b/c/d/e/f/g.go", ".hidden", "README.md"} {
		score := ComputeFileImportance(p)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestComputeFileImportance_DeepNestingPenalized(t *testing.T) {
	shallow := ComputeFileImportance("src/handler.go")
	deep := ComputeFileImportance("src/a/b/c/d/e/f/g/handler.go")
	assert.Greater(t, shallow, deep)
}

func TestComputeFileImportance_AuxiliaryConfigPenalized(t *testing.T) {
	plain := ComputeFileImportance("src/handler.go")
	yamlConfig := ComputeFileImportance("src/config.yaml")
	jsonConfig := ComputeFileImportance("src/settings.json")
	assert.Greater(t, plain, yamlConfig)
	assert.Greater(t, plain, jsonConfig)
}

func TestIsAuxiliaryConfig(t *testing.T) {
	assert.True(t, isAuxiliaryConfig("config.yaml"))
	assert.True(t, isAuxiliaryConfig("settings.json"))
	assert.True(t, isAuxiliaryConfig("values.yml"))
	assert.False(t, isAuxiliaryConfig("package.json"))
	assert.False(t, isAuxiliaryConfig("tsconfig.json"))
	assert.False(t, isAuxiliaryConfig("pyproject.toml"))
	assert.False(t, isAuxiliaryConfig(".env"))
	assert.False(t, isAuxiliaryConfig("main.go"))
}

func TestComputeCentrality_NoEdgesIsZero(t *testing.T) {
	graph := NewDependencyGraph()
	assert.Zero(t, ComputeCentrality("isolated.go", graph, 10))
}

func TestComputeCentrality_ZeroTotalFiles(t *testing.T) {
	graph := NewDependencyGraph()
	assert.Zero(t, ComputeCentrality("a.go", graph, 0))
}

func TestComputeCentrality_ConnectedFileScoresPositive(t *testing.T) {
	graph := NewDependencyGraph()
	graph.addEdge("a.go", "hub.go")
	graph.addEdge("b.go", "hub.go")
	assert.Greater(t, ComputeCentrality("hub.go", graph, 3), 0.0)
}

func TestComputeImportance_BlendsBothSignals(t *testing.T) {
	graph := NewDependencyGraph()
	graph.addEdge("a.go", "main.go")
	score := ComputeImportance("main.go", graph, 2)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
