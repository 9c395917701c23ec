package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the router service is running",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, reg, sup, err := buildSupervisor()
	if err != nil {
		return err
	}

	// State is derived fresh on every query, never cached.
	if sup.IsRunning() {
		pid, _ := reg.ReadPID()
		color.Green("Router service is running (pid %d) on %s.", pid, cfg.Addr())
	} else {
		color.Yellow("Router service is stopped.")
	}
	return nil
}
