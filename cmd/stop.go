package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the router service",
	Long: `Signal the router service to terminate and clear its pid and
reference-count records. Cleanup always runs, even when the service is
already gone, so a stale record never blocks a later start.`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(_ *cobra.Command, _ []string) error {
	_, _, sup, err := buildSupervisor()
	if err != nil {
		return err
	}

	// Never fails: an already-stopped service is a normal outcome here.
	if sup.Stop() {
		color.Green("claude code router service has been successfully stopped.")
	} else {
		color.Yellow("Router service was not running. Records cleaned up.")
	}
	return nil
}
