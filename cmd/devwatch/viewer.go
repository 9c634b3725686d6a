package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/storage"
	"github.com/user/devwatch/internal/viewer"
)

var viewerCmd = &cobra.Command{
	Use:   "viewer <id>",
	Short: "Open a VNC viewer for a device",
	Long: `Open a VNC viewer session for the given device. The viewer binary is
discovered on PATH unless viewer_path is set in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runViewer,
}

func runViewer(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	dev, err := storage.NewDeviceStorage(db).Get(id)
	if err != nil {
		return err
	}
	if dev == nil {
		return fmt.Errorf("device %d not found", id)
	}

	path, err := viewer.Find(cfg.ViewerPath)
	if err != nil {
		return err
	}

	target := viewer.Target(dev, cfg.AuxPort)
	if err := viewer.Launch(path, target); err != nil {
		return err
	}

	fmt.Printf("Launched viewer for %s (%s)\n", dev.Name, target)
	return nil
}
