package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	root := NewRootCommand()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "click .foo", "wait for url to be https://example.com/")
	require.NoError(t, err)
	assert.Contains(t, out, "ok      click .foo")
	assert.Contains(t, out, "ok      wait for url to be https://example.com/")

	out, err = execute(t, "validate", "click .foo", "fly away")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 commands do not resolve to an action", err.Error())
	assert.Contains(t, out, "invalid fly away")
}

func TestValidateCommand_RequiresArgs(t *testing.T) {
	_, err := execute(t, "validate")
	assert.Error(t, err)
}

func TestActionsCommand(t *testing.T) {
	out, err := execute(t, "actions")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "1. navigate-url"))
	assert.Contains(t, lines[6], "wait-for-url")
}

func TestRunCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)
}
