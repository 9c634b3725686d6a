package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/daemon"
	"github.com/user/devwatch/internal/model"
	"github.com/user/devwatch/internal/monitor"
	"github.com/user/devwatch/internal/probes"
	"github.com/user/devwatch/internal/storage"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe all enabled devices immediately",
	Long: `Probe all enabled devices immediately. With a running daemon the
request is forwarded to it and coalesces with any pending one; otherwise
a single cycle runs in-process and prints each result.`,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	if running, pid := daemon.CheckRunning(cfg.DataDir); running {
		if err := daemon.SendProbeNow(cfg.DataDir); err != nil {
			return err
		}
		fmt.Printf("Probe request sent to daemon (PID %d)\n", pid)
		return nil
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
	summary := mon.RunCycle(context.Background())

	enabled, err := devices.Enabled()
	if err != nil {
		return err
	}
	for _, dev := range enabled {
		res, ok := mon.Cache().Get(dev.ID)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%-20s %-28s %s", dev.Name, dev.Host, res.Outcome)
		if res.Outcome == model.OutcomeOnline {
			if ms := res.LatencyMs(); ms != nil {
				line += fmt.Sprintf(" (%.1f ms)", *ms)
			}
			if res.AuxService {
				line += " [vnc]"
			}
		} else if res.Message != "" {
			line += " " + res.Message
		}
		fmt.Println(line)
	}

	fmt.Printf("\n%d devices: %d online, %d offline, %d errors in %s\n",
		summary.Devices, summary.Online, summary.Offline, summary.Errors,
		summary.Duration.Round(time.Millisecond))
	return nil
}
