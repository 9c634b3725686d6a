// +build !windows

package daemon

import (
	"fmt"
	"os"
	"syscall"
)

// SendProbeNow asks a running daemon for an immediate probe cycle.
func SendProbeNow(dataDir string) error {
	running, pid := CheckRunning(dataDir)
	if !running {
		return fmt.Errorf("daemon is not running")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGUSR1); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}

	return nil
}
