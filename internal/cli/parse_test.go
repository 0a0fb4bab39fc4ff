package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_Text(t *testing.T) {
	out, err := executeCommand("parse", `("Python" OR "Java")`)
	require.NoError(t, err)

	assert.Contains(t, out, `Deterministic: Include items that match ANY of: ("Python"; "Java")`)
	assert.Contains(t, out, `Narrative:     Search for documents containing any of the following: "Python", "Java".`)
	assert.NotContains(t, out, "AST:")
}

func TestParseCommand_TextWithAST(t *testing.T) {
	out, err := executeCommand("parse", "--ast", "test")
	require.NoError(t, err)

	assert.Contains(t, out, `AST:           {"type":"Word","value":"test"}`)
}

func TestParseCommand_JSON(t *testing.T) {
	out, err := executeCommand("--format", "json", "parse", "test")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test", data["query"])
	assert.Equal(t, `contains "test"`, data["deterministic_text"])
	assert.Equal(t, `The term "test".`, data["narrative_text"])
	assert.NotNil(t, data["ast_json"])
}

func TestParseCommand_SyntaxError(t *testing.T) {
	out, err := executeCommand("parse", "((unclosed")
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E001]")
	assert.Contains(t, out, "invalid query syntax")
}

func TestParseCommand_SyntaxErrorJSON(t *testing.T) {
	out, err := executeCommand("--format", "json", "parse", "title:")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSyntax, resp.Error.Code)
}
