package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/daemon"
	"github.com/user/devwatch/internal/monitor"
	"github.com/user/devwatch/internal/probes"
	"github.com/user/devwatch/internal/storage"
	"github.com/user/devwatch/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the live dashboard",
	Long: `Open the live terminal dashboard. The dashboard runs its own
monitoring loop in-process, so it does not need (and should not share the
database with) a background daemon.`,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	if running, pid := daemon.CheckRunning(cfg.DataDir); running {
		return fmt.Errorf("daemon is running (PID %d); stop it before opening the dashboard", pid)
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	devices := storage.NewDeviceStorage(db)
	settings := storage.NewSettingsStorage(db)
	prober := probes.NewProber(settings.ProbeTimeout(), cfg.AuxPort)

	mon := monitor.New(devices, prober, settings, cfg.ProbeConcurrency)
	if err := mon.Start(); err != nil {
		return err
	}
	// Drain the in-flight cycle before the database closes under it.
	defer mon.Stop()

	return tui.NewApp(db, cfg, mon).Run()
}
