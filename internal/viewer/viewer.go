// Package viewer locates and launches an external VNC viewer for a device.
// The core only supplies the host/port pair; the process itself is an
// external collaborator.
package viewer

import (
	"fmt"
	"os/exec"

	"github.com/user/devwatch/internal/model"
)

// pathCandidates are viewer executable names tried on PATH, most specific
// first.
var pathCandidates = []string{
	"vncviewer",
	"tightvncviewer",
	"tvnviewer",
	"xtightvncviewer",
	"tigervnc",
	"remmina",
}

// Find returns the path to a VNC viewer executable, or an error when none
// is installed. An explicit path short-circuits discovery.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if p, err := exec.LookPath(explicit); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("configured viewer %q not found", explicit)
	}

	for _, name := range pathCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	for _, p := range installDirCandidates() {
		return p, nil
	}
	return "", fmt.Errorf("no VNC viewer found on PATH or in standard install locations")
}

// Target builds the viewer argument for a device. Display numbers above the
// default port use the host::port form.
func Target(dev *model.Device, auxPort int) string {
	if auxPort > 0 && auxPort != 5900 {
		return fmt.Sprintf("%s::%d", dev.Host, auxPort)
	}
	return dev.Host
}

// Launch starts the viewer detached; it outlives the calling process.
func Launch(viewerPath, target string) error {
	cmd := exec.Command(viewerPath, target)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch viewer: %w", err)
	}
	return cmd.Process.Release()
}
