package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBatchCommand_AllValid(t *testing.T) {
	path := writeQueryFile(t, `
# comment lines and blanks are skipped
test
("Python" OR "Java")
title:("Machine Learning" OR "AI")
`)

	out, err := executeCommand("batch", path)
	require.NoError(t, err)

	assert.Contains(t, out, `✓ line 3: test`)
	assert.Contains(t, out, `The term "test".`)
	assert.Contains(t, out, "3 queries, 0 rejected")
}

func TestBatchCommand_RejectedQueries(t *testing.T) {
	path := writeQueryFile(t, "test\n((broken\n")

	out, err := executeCommand("batch", path)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ line 2: ((broken")
	assert.Contains(t, out, "2 queries, 1 rejected")
}

func TestBatchCommand_FailFast(t *testing.T) {
	path := writeQueryFile(t, "((broken\ntest\n")

	out, err := executeCommand("batch", "--fail-fast", path)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "1 query, 1 rejected")
	assert.NotContains(t, out, "line 2")
}

func TestBatchCommand_JSON(t *testing.T) {
	path := writeQueryFile(t, "test\n")

	out, err := executeCommand("--format", "json", "batch", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, data["total"])
	assert.EqualValues(t, 0, data["rejected"])
}

func TestBatchCommand_MissingFile(t *testing.T) {
	_, err := executeCommand("batch", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBatchCommand_EmptyFile(t *testing.T) {
	path := writeQueryFile(t, "# only a comment\n\n")

	_, err := executeCommand("batch", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
