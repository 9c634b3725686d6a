package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/devwatch/internal/storage"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage device teams",
}

var teamAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a team",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamAdd,
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teams and their device counts",
	RunE:  runTeamList,
}

var teamRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a team",
	Args:  cobra.ExactArgs(2),
	RunE:  runTeamRename,
}

var teamRemoveCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a team; its devices stay and become unassigned",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamRemove,
}

func init() {
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamRenameCmd)
	teamCmd.AddCommand(teamRemoveCmd)
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	team, err := storage.NewTeamStorage(db).Create(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Created team %d: %s\n", team.ID, team.Name)
	return nil
}

func runTeamList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	teams, err := storage.NewTeamStorage(db).List()
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		fmt.Println("No teams configured")
		return nil
	}

	devices := storage.NewDeviceStorage(db)
	fmt.Printf("%-4s %-20s %s\n", "ID", "NAME", "DEVICES")
	for _, t := range teams {
		members, err := devices.ListByTeam(t.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%-4d %-20s %d\n", t.ID, t.Name, len(members))
	}
	return nil
}

func runTeamRename(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	teams := storage.NewTeamStorage(db)
	team, err := teams.GetByName(args[0])
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("team %q not found", args[0])
	}
	if err := teams.Rename(team.ID, args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed team %s to %s\n", args[0], args[1])
	return nil
}

func runTeamRemove(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	teams := storage.NewTeamStorage(db)
	team, err := teams.GetByName(args[0])
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("team %q not found", args[0])
	}
	if err := teams.Delete(team.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted team %s; member devices were unassigned\n", team.Name)
	return nil
}
