package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change runtime settings",
	Long: `Show or change the runtime settings stored in the database:
interval, timeout and export-on-close. Changes take effect at the next
cycle boundary of a running daemon.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set interval, timeout or export-on-close",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	settings := storage.NewSettingsStorage(db)
	fmt.Printf("interval         %s\n", settings.PollInterval())
	fmt.Printf("timeout          %s\n", settings.ProbeTimeout())
	fmt.Printf("export-on-close  %t\n", settings.ExportOnClose())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	settings := storage.NewSettingsStorage(db)
	key, value := args[0], args[1]

	switch key {
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		if err := settings.SetPollInterval(d); err != nil {
			return err
		}
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		if err := settings.SetProbeTimeout(d); err != nil {
			return err
		}
	case "export-on-close":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		if err := settings.SetExportOnClose(on); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown setting %q (interval, timeout, export-on-close)", key)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
