//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestIsProcessRunning_NotFound checks a name no real process should carry.
func TestIsProcessRunning_NotFound(t *testing.T) {
	t.Parallel()

	running, err := IsProcessRunning("zocopos-definitely-not-running.exe")
	require.NoError(t, err)
	require.False(t, running)
}

// TestTerminateProcessByName kills a process by its executable name.
func TestTerminateProcessByName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	// A uniquely named sleeper, short enough for the kernel's process name limit.
	script := filepath.Join(t.TempDir(), "zocopos-sleep")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0o755))

	cmd := exec.Command(script)
	require.NoError(t, cmd.Start())

	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	running, err := IsProcessRunning("zocopos-sleep")
	require.NoError(t, err)
	require.True(t, running)

	require.NoError(t, TerminateProcessByName("zocopos-sleep"))

	// Reap the child so it does not linger as a zombie in the process list.
	_ = cmd.Wait()

	running, err = IsProcessRunning("zocopos-sleep")
	require.NoError(t, err)
	require.False(t, running)
}
