package action

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	act, err := ParseCommand("psql -f bootstrap.sql")
	require.NoError(t, err)
	assert.Equal(t, "psql", act.Name())

	_, err = ParseCommand("   ")
	require.Error(t, err)
}

func TestCommandActionSuccess(t *testing.T) {
	act := NewCommand("true")
	require.NoError(t, act.Run(context.Background()))
}

func TestCommandActionExitCodePreserved(t *testing.T) {
	act := NewCommand("sh", "-c", "exit 3")
	err := act.Run(context.Background())
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestCommandActionCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	act := NewCommand("sleep", "10")
	require.Error(t, act.Run(ctx))
}
