//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"os"
	"strings"

	"github.com/mitchellh/go-ps"
)

// IsProcessRunning reports whether any process other than the current one
// runs under the provided executable name. The comparison ignores case
// because Windows filenames are case-insensitive.
func IsProcessRunning(executableName string) (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if strings.EqualFold(process.Executable(), executableName) {
			return true, nil
		}
	}

	return false, nil
}

// TerminateProcessByName tries to kill processes with the provided executable name.
func TerminateProcessByName(executableName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !strings.EqualFold(process.Executable(), executableName) {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
