// +build windows

package viewer

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/windows"
)

// installDirCandidates probes the standard Program Files install locations
// for viewers that are not on PATH.
func installDirCandidates() []string {
	pf := os.Getenv("ProgramFiles")
	if pf == "" {
		pf = `C:\Program Files`
	}
	pfx86 := os.Getenv("ProgramFiles(x86)")
	if pfx86 == "" {
		pfx86 = `C:\Program Files (x86)`
	}

	dirs := []string{
		filepath.Join(pf, "TightVNC"),
		filepath.Join(pfx86, "TightVNC"),
		filepath.Join(pf, "RealVNC"),
		filepath.Join(pfx86, "RealVNC"),
	}
	exes := []string{"tvnviewer.exe", "vncviewer.exe", "tightvncviewer.exe"}

	var found []string
	for _, dir := range dirs {
		for _, exe := range exes {
			candidate := filepath.Join(dir, exe)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				found = append(found, candidate)
			}
		}
	}
	return found
}

// detach keeps the viewer from opening a console window attached to ours.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
