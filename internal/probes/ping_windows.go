// +build windows

package probes

import (
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

// pingArgs builds the single-echo ping invocation for Windows.
func pingArgs(host string, timeout time.Duration) (string, []string) {
	ms := int(timeout.Milliseconds())
	if ms < 1 {
		ms = 1000
	}
	return "ping", []string{"-n", "1", "-w", strconv.Itoa(ms), host}
}

// hideWindow keeps the child ping console from flashing on screen.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
