package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/export"
	"github.com/user/devwatch/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the monitoring snapshot",
	Long: `Write monitor.txt (device roll-up plus the last 500 log lines) next
to the database in the data directory.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	result, err := export.Write(cfg.DataDir, cfg.LogFile, storage.NewDeviceStorage(db))
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s\n", result.MonitorPath)
	fmt.Printf("Database at %s\n", result.DBPath)
	return nil
}
