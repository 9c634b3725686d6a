// +build !windows

package viewer

import "os/exec"

// installDirCandidates has nothing to add on Unix; PATH lookup covers the
// usual install locations.
func installDirCandidates() []string {
	return nil
}

func detach(_ *exec.Cmd) {}
