package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenarioFile(t, t.TempDir(), "basic.yaml", `
name: basic
description: smoke check
steps:
  - query: test
    deterministic: contains "test"
  - query: ((broken
    want_error: true
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "basic", sc.Name)
	assert.Equal(t, "smoke check", sc.Description)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, "test", sc.Steps[0].Query)
	assert.Equal(t, `contains "test"`, sc.Steps[0].Deterministic)
	assert.False(t, sc.Steps[0].WantError)
	assert.True(t, sc.Steps[1].WantError)
}

func TestLoadScenario_Invalid(t *testing.T) {
	testCases := map[string]struct {
		content string
		errMsg  string
	}{
		"missing_name": {
			content: "steps:\n  - query: test\n",
			errMsg:  "name is required",
		},
		"no_steps": {
			content: "name: empty\n",
			errMsg:  "at least one step",
		},
		"step_without_query": {
			content: "name: bad\nsteps:\n  - deterministic: x\n",
			errMsg:  "query is required",
		},
		"error_step_with_expectations": {
			content: "name: bad\nsteps:\n  - query: x\n    want_error: true\n    narrative: Nope.\n",
			errMsg:  "want_error excludes output expectations",
		},
		"malformed_yaml": {
			content: "name: [unterminated\n",
			errMsg:  "parse scenario",
		},
	}

	dir := t.TempDir()
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			path := writeScenarioFile(t, dir, name+".yaml", tc.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "b_second.yaml", "name: second\nsteps:\n  - query: b\n")
	writeScenarioFile(t, dir, "a_first.yml", "name: first\nsteps:\n  - query: a\n")
	writeScenarioFile(t, dir, "notes.txt", "ignored")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadScenarios_EmptyDir(t *testing.T) {
	_, err := LoadScenarios(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}

func TestLoadScenarios_Testdata(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	seen := map[string]bool{}
	for _, sc := range scenarios {
		assert.False(t, seen[sc.Name], "duplicate scenario name %q", sc.Name)
		seen[sc.Name] = true
	}
}
