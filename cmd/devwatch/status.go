package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/daemon"
	"github.com/user/devwatch/internal/model"
	"github.com/user/devwatch/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and device status",
	Long:  "Show the current status of the devwatch daemon and the last known state of every device.",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))

	runningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("46")).
		Bold(true)

	stoppedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	running, pid := daemon.CheckRunning(cfg.DataDir)

	fmt.Println(titleStyle.Render("devwatch Status"))
	fmt.Println()

	fmt.Print(labelStyle.Render("Daemon: "))
	if running {
		fmt.Println(runningStyle.Render(fmt.Sprintf("Running (PID %d)", pid)))
	} else {
		fmt.Println(stoppedStyle.Render("Stopped"))
	}

	if sf, err := daemon.ReadStatusFile(cfg.DataDir); err == nil && running {
		fmt.Print(labelStyle.Render("Started: "))
		fmt.Println(valueStyle.Render(sf.StartTime))

		fmt.Print(labelStyle.Render("Uptime: "))
		fmt.Println(valueStyle.Render(sf.Uptime))

		fmt.Print(labelStyle.Render("Last cycle: "))
		fmt.Println(valueStyle.Render(fmt.Sprintf("%d devices in %s (%d online, %d offline, %d errors)",
			sf.LastCycle.Devices, sf.LastCycle.Duration.Round(time.Millisecond),
			sf.LastCycle.Online, sf.LastCycle.Offline, sf.LastCycle.Errors)))
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	devices, err := storage.NewDeviceStorage(db).List()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	settings := storage.NewSettingsStorage(db)
	fmt.Print(labelStyle.Render("Interval: "))
	fmt.Println(valueStyle.Render(settings.PollInterval().String()))

	fmt.Println()
	fmt.Println(titleStyle.Render("Devices"))

	if len(devices) == 0 {
		fmt.Println(labelStyle.Render("  none configured"))
		return nil
	}

	for _, d := range devices {
		status := string(d.LastStatus)
		var styled string
		switch d.LastStatus {
		case model.OutcomeOnline:
			styled = runningStyle.Render(status)
		case model.OutcomeOffline, model.OutcomeError:
			styled = stoppedStyle.Render(status)
		default:
			styled = labelStyle.Render(status)
		}

		line := fmt.Sprintf("  %s %s (%s",
			valueStyle.Render(d.Name), styled, d.Host)
		if d.Method == model.MethodTCP {
			line += fmt.Sprintf(":%d", d.Port)
		}
		line += ")"
		if d.LastLatencyMs != nil {
			line += labelStyle.Render(fmt.Sprintf(" %.1fms", *d.LastLatencyMs))
		}
		if d.AuxService {
			line += labelStyle.Render(" [vnc]")
		}
		if !d.Enabled {
			line += labelStyle.Render(" (disabled)")
		}
		fmt.Println(line)
	}

	return nil
}
