package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_TestdataScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	p := newPipeline()
	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, p, sc))
		})
	}
}

func TestSnapshot(t *testing.T) {
	sc := &Scenario{
		Name: "snapshot-shape",
		Steps: []Step{
			{Query: "test"},
			{Query: "((unclosed", WantError: true},
		},
	}

	snap, err := Snapshot(newPipeline(), sc)
	require.NoError(t, err)

	assert.Equal(t, "snapshot-shape", snap.ScenarioName)
	require.Len(t, snap.Steps, 2)

	ok := snap.Steps[0]
	assert.Equal(t, `contains "test"`, ok.DeterministicText)
	assert.Equal(t, `The term "test".`, ok.NarrativeText)
	assert.True(t, strings.HasPrefix(ok.AST, "{"), "AST is canonical JSON: %s", ok.AST)
	assert.Empty(t, ok.Error)

	rejected := snap.Steps[1]
	assert.Empty(t, rejected.AST)
	assert.Contains(t, rejected.Error, "invalid query syntax")
}

func TestSnapshot_Deterministic(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	p := newPipeline()
	for _, sc := range scenarios {
		first, err := Snapshot(p, sc)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := Snapshot(p, sc)
			require.NoError(t, err)
			assert.Equal(t, first, again, "scenario %s", sc.Name)
		}
	}
}
