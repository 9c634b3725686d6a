package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/model"
	"github.com/user/devwatch/internal/storage"
)

var (
	deviceHost   string
	deviceMethod string
	devicePort   int
	deviceTeam   string
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage monitored devices",
}

var deviceAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a device",
	Long: `Add a device to the registry. The host is required; the method defaults
to ping. TCP checks require a port in [1, 65535].`,
	Args: cobra.ExactArgs(1),
	RunE: runDeviceAdd,
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices",
	RunE:  runDeviceList,
}

var deviceRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a device permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeviceRemove,
}

var deviceEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Include a device in monitoring",
	Args:  cobra.ExactArgs(1),
	RunE:  setEnabled(true),
}

var deviceDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Exclude a device from monitoring without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  setEnabled(false),
}

var deviceWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Watch a device closely (switches to the fast 1s interval)",
	Args:  cobra.ExactArgs(1),
	RunE:  setWatched(true),
}

var deviceUnwatchCmd = &cobra.Command{
	Use:   "unwatch <id>",
	Short: "Stop watching a device (restores the previous interval when it was the last)",
	Args:  cobra.ExactArgs(1),
	RunE:  setWatched(false),
}

var deviceSetTeamCmd = &cobra.Command{
	Use:   "set-team <id> [team]",
	Short: "Assign a device to a team, or unassign with no team argument",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDeviceSetTeam,
}

func init() {
	deviceAddCmd.Flags().StringVar(&deviceHost, "host", "", "hostname or IP (required)")
	deviceAddCmd.Flags().StringVar(&deviceMethod, "method", "ping", "check method: ping or tcp")
	deviceAddCmd.Flags().IntVar(&devicePort, "port", 0, "TCP port (required for tcp method)")
	deviceAddCmd.Flags().StringVar(&deviceTeam, "team", "", "team name (created if missing)")
	deviceAddCmd.MarkFlagRequired("host")

	deviceCmd.AddCommand(deviceAddCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceRemoveCmd)
	deviceCmd.AddCommand(deviceEnableCmd)
	deviceCmd.AddCommand(deviceDisableCmd)
	deviceCmd.AddCommand(deviceWatchCmd)
	deviceCmd.AddCommand(deviceUnwatchCmd)
	deviceCmd.AddCommand(deviceSetTeamCmd)
}

func runDeviceAdd(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	method, err := model.ParseMethod(deviceMethod)
	if err != nil {
		return err
	}

	dev := &model.Device{
		Name:    args[0],
		Host:    deviceHost,
		Method:  method,
		Port:    devicePort,
		Enabled: true,
		Watched: true,
	}

	if deviceTeam != "" {
		teams := storage.NewTeamStorage(db)
		team, err := teams.GetByName(deviceTeam)
		if err != nil {
			return err
		}
		if team == nil {
			team, err = teams.Create(deviceTeam)
			if err != nil {
				return err
			}
		}
		dev.TeamID = &team.ID
	}

	if err := storage.NewDeviceStorage(db).Save(dev); err != nil {
		return err
	}

	fmt.Printf("Added device %d: %s (%s, %s)\n", dev.ID, dev.Name, dev.Host, dev.Method)
	return nil
}

func runDeviceList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	devices, err := storage.NewDeviceStorage(db).List()
	if err != nil {
		return err
	}
	teams, err := storage.NewTeamStorage(db).List()
	if err != nil {
		return err
	}
	teamNames := make(map[int64]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	if len(devices) == 0 {
		fmt.Println("No devices configured")
		return nil
	}

	fmt.Printf("%-4s %-20s %-28s %-6s %-6s %-12s %-8s %s\n",
		"ID", "NAME", "HOST", "TYPE", "PORT", "TEAM", "STATUS", "FLAGS")
	for _, d := range devices {
		team := "-"
		if d.TeamID != nil {
			team = teamNames[*d.TeamID]
		}
		port := "-"
		if d.Method == model.MethodTCP {
			port = strconv.Itoa(d.Port)
		}
		flags := ""
		if !d.Enabled {
			flags += "disabled "
		}
		if !d.Watched {
			flags += "unwatched "
		}
		if d.AuxService {
			flags += "vnc"
		}
		fmt.Printf("%-4d %-20s %-28s %-6s %-6s %-12s %-8s %s\n",
			d.ID, d.Name, d.Host, d.Method, port, team, d.LastStatus, flags)
	}

	return nil
}

func runDeviceRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := storage.NewDeviceStorage(db).Delete(id); err != nil {
		return err
	}
	fmt.Printf("Removed device %d\n", id)
	return nil
}

func setEnabled(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		db, err := storage.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := storage.NewDeviceStorage(db).SetEnabled(id, enabled); err != nil {
			return err
		}

		verb := "Disabled"
		if enabled {
			verb = "Enabled"
		}
		fmt.Printf("%s device %d; the change takes effect next cycle\n", verb, id)
		return nil
	}
}

// setWatched flips the watched flag and manages the fast-refresh interval:
// the first watched device saves the configured interval and drops to 1s,
// unwatching the last one restores it.
func setWatched(watched bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		db, err := storage.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		devices := storage.NewDeviceStorage(db)
		settings := storage.NewSettingsStorage(db)

		if err := devices.SetWatched(id, watched); err != nil {
			return err
		}

		if watched {
			if err := settings.EnterFastRefresh(); err != nil {
				return err
			}
			fmt.Printf("Watching device %d (fast refresh, %s)\n", id, storage.FastInterval)
			return nil
		}

		count, err := devices.CountWatched()
		if err != nil {
			return err
		}
		if count == 0 {
			if err := settings.LeaveFastRefresh(); err != nil {
				return err
			}
			fmt.Printf("Unwatched device %d; restored interval %s\n", id, settings.PollInterval())
			return nil
		}
		fmt.Printf("Unwatched device %d (%d still watched)\n", id, count)
		return nil
	}
}

func runDeviceSetTeam(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	devices := storage.NewDeviceStorage(db)
	dev, err := devices.Get(id)
	if err != nil {
		return err
	}
	if dev == nil {
		return fmt.Errorf("device %d not found", id)
	}

	if len(args) == 1 {
		dev.TeamID = nil
		if err := devices.Save(dev); err != nil {
			return err
		}
		fmt.Printf("Device %d unassigned\n", id)
		return nil
	}

	teams := storage.NewTeamStorage(db)
	team, err := teams.GetByName(args[1])
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("team %q not found", args[1])
	}

	dev.TeamID = &team.ID
	if err := devices.Save(dev); err != nil {
		return err
	}
	fmt.Printf("Device %d assigned to team %s\n", id, team.Name)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
