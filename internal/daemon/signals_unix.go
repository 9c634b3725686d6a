// +build !windows

package daemon

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/user/devwatch/internal/util"
)

// handleSignals maps SIGINT/SIGTERM to graceful stop and SIGUSR1 to an
// immediate probe cycle.
func (d *Daemon) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGUSR1 {
				util.Log().Info().Msg("probe-now signal received")
				d.monitor.ProbeNow()
				continue
			}
			util.Log().Info().Str("signal", sig.String()).Msg("shutdown signal received")
			d.Stop()
			return
		case <-d.shutdown:
			return
		}
	}
}
