package builder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubRunner records the invocation and returns a fixed exit code.
type stubRunner struct {
	name string
	args []string
	code int
	err  error
}

func (s *stubRunner) run(_ context.Context, name string, args []string, _, _ io.Writer) (int, error) {
	s.name = name
	s.args = args

	return s.code, s.err
}

// TestRun_Success verifies exit code 0 yields a nil error and the completion banner.
func TestRun_Success(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	stub := &stubRunner{}
	err := Run(context.Background(), &Options{
		Out:    &out,
		Runner: stub.run,
	})

	require.NoError(t, err)
	require.Contains(t, out.String(), OutputPath)
	require.Equal(t, PackagerExecutable, stub.name)
}

// TestRun_PassesFixedArguments ensures the literal argument list reaches the tool unchanged.
func TestRun_PassesFixedArguments(t *testing.T) {
	t.Parallel()

	stub := &stubRunner{}
	err := Run(context.Background(), &Options{
		Out:    io.Discard,
		Runner: stub.run,
	})

	require.NoError(t, err)
	require.Equal(t, PackagerArguments(), stub.args)

	// Invariant: the list never varies between calls.
	require.Equal(t, PackagerArguments(), PackagerArguments())
	require.Contains(t, stub.args, "main.py")
	require.Contains(t, stub.args, "--icon=assets/icon.png")
}

// TestRun_FailurePropagatesExitCode checks identity propagation for a range of codes.
func TestRun_FailurePropagatesExitCode(t *testing.T) {
	t.Parallel()

	for _, code := range []int{1, 2, 7, 130, 255} {
		var out bytes.Buffer

		stub := &stubRunner{code: code}
		err := Run(context.Background(), &Options{
			Out:    &out,
			Runner: stub.run,
		})

		var exitErr *ExitError

		require.ErrorAs(t, err, &exitErr)
		require.Equal(t, code, exitErr.Code)
		require.Contains(t, out.String(), "BUILD FAILED")
	}
}

// TestRun_PauseConsumesAcknowledgment verifies the failure path reads a line from In.
func TestRun_PauseConsumesAcknowledgment(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	in := strings.NewReader("\n")
	stub := &stubRunner{code: 3}
	err := Run(context.Background(), &Options{
		Out:            &out,
		In:             in,
		PauseOnFailure: true,
		Runner:         stub.run,
	})

	var exitErr *ExitError

	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.Code)
	require.Contains(t, out.String(), "Press Enter")
	require.Zero(t, in.Len(), "acknowledgment line should be consumed")
}

// TestRun_SignalKilledTool maps the missing exit code of a signal-killed tool
// to a plain failure instead of exiting with a negative status.
func TestRun_SignalKilledTool(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	stub := &stubRunner{code: -1}
	err := Run(context.Background(), &Options{
		Out:    &out,
		Runner: stub.run,
	})

	var exitErr *ExitError

	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, out.String(), "BUILD FAILED (exit code 1)")
}

// TestRun_SpawnFailure ensures an unrunnable tool surfaces as a wrapped error, not an ExitError.
func TestRun_SpawnFailure(t *testing.T) {
	t.Parallel()

	spawnErr := errors.New("executable file not found")
	stub := &stubRunner{err: spawnErr}
	err := Run(context.Background(), &Options{
		Out:    io.Discard,
		Runner: stub.run,
	})

	require.ErrorIs(t, err, spawnErr)

	var exitErr *ExitError

	require.False(t, errors.As(err, &exitErr))
}

// TestExecRunner_ExitCode runs a real child process and checks the reported code.
func TestExecRunner_ExitCode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	code, err := ExecRunner(context.Background(), "sh", []string{"-c", "exit 42"}, io.Discard, io.Discard)
	require.NoError(t, err)
	require.Equal(t, 42, code)

	code, err = ExecRunner(context.Background(), "sh", []string{"-c", "exit 0"}, io.Discard, io.Discard)
	require.NoError(t, err)
	require.Zero(t, code)
}

// TestExecRunner_SignalKilled reports -1 when the child dies to a signal.
func TestExecRunner_SignalKilled(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	code, err := ExecRunner(context.Background(),
		"sh", []string{"-c", "kill -9 $$"}, io.Discard, io.Discard)
	require.NoError(t, err)
	require.Equal(t, -1, code)
}

// TestExecRunner_MissingTool ensures a missing executable is an error, not an exit code.
func TestExecRunner_MissingTool(t *testing.T) {
	t.Parallel()

	_, err := ExecRunner(context.Background(),
		"zocopos-no-such-tool", nil, io.Discard, io.Discard)
	require.Error(t, err)
}
