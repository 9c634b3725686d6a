// +build !windows

package probes

import (
	"os/exec"
	"strconv"
	"time"
)

// pingArgs builds the single-echo ping invocation for Unix systems.
func pingArgs(host string, timeout time.Duration) (string, []string) {
	secs := int(timeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	return "ping", []string{"-c", "1", "-W", strconv.Itoa(secs), host}
}

func hideWindow(_ *exec.Cmd) {}
