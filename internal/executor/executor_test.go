package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor() *OSCommandExecutor {
	return NewOSCommandExecutor(Options{
		MaxOutputBytes:   1024 * 1024,
		GracefulShutdown: 100 * time.Millisecond,
	})
}

func TestRunCapturesStreamsSeparately(t *testing.T) {
	e := newTestExecutor()

	res, err := e.Run(context.Background(), []string{"/bin/sh", "-c", "echo out; echo err >&2"}, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunReportsNonzeroExit(t *testing.T) {
	e := newTestExecutor()

	res, err := e.Run(context.Background(), []string{"/bin/sh", "-c", "exit 42"}, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 42, res.ExitCode)
}

func TestRunEmptyCommand(t *testing.T) {
	e := newTestExecutor()
	_, err := e.Run(context.Background(), nil, t.TempDir(), nil)
	assert.Error(t, err)
}

func TestRunRespectsWorkingDirectory(t *testing.T) {
	e := newTestExecutor()
	dir := t.TempDir()

	res, err := e.Run(context.Background(), []string{"pwd"}, dir, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, dir)
}

func TestRunWithTimeoutCompletes(t *testing.T) {
	e := newTestExecutor()

	res, err := e.RunWithTimeout(context.Background(), []string{"/bin/sh", "-c", "echo done"}, t.TempDir(), nil, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "done\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunWithTimeoutKillsSlowCommand(t *testing.T) {
	e := newTestExecutor()

	start := time.Now()
	res, err := e.RunWithTimeout(context.Background(), []string{"/bin/sh", "-c", "sleep 10"}, t.TempDir(), nil, 200*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	require.NotNil(t, res)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunWithTimeoutNonzeroExitIsNotAnError(t *testing.T) {
	e := newTestExecutor()

	res, err := e.RunWithTimeout(context.Background(), []string{"/bin/sh", "-c", "exit 3"}, t.TempDir(), nil, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunTruncatesOutput(t *testing.T) {
	e := NewOSCommandExecutor(Options{MaxOutputBytes: 16, GracefulShutdown: 100 * time.Millisecond})

	res, err := e.Run(context.Background(), []string{"/bin/sh", "-c", "printf '%0.s=' $(seq 1 100)"}, t.TempDir(), nil)
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Len(t, res.Stdout, 16)
}
