package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_LoggingFlags(t *testing.T) {
	cmd := newRootCommand()

	levelFlag := cmd.Flags().ShorthandLookup("L")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "log-level", levelFlag.Name)

	assert.NotNil(t, cmd.Flags().Lookup("log-json"))
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "hlsub ")
}
