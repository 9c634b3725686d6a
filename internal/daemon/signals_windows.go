// +build windows

package daemon

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/user/devwatch/internal/util"
)

// handleSignals maps SIGINT/SIGTERM to graceful stop. Windows has no user
// signal; probe-now only works for in-process consumers there.
func (d *Daemon) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		util.Log().Info().Str("signal", sig.String()).Msg("shutdown signal received")
		d.Stop()
	case <-d.shutdown:
	}
}
