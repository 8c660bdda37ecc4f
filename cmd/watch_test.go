package cmd

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCommand_LogLinesDefault(t *testing.T) {
	cmd := watchCommand()

	flag := cmd.Flags().Lookup("log-lines")
	require.NotNil(t, flag)

	lines, err := strconv.Atoi(flag.DefValue)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, lines, 50, "log window default below the dashboard contract")
	assert.LessOrEqual(t, lines, 100)
}
