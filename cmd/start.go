package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the router service in the background",
	Long: `Start the router service as a detached background process. The command
returns immediately without waiting for the service to become ready.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(_ *cobra.Command, _ []string) error {
	_, reg, sup, err := buildSupervisor()
	if err != nil {
		return err
	}

	if sup.IsRunning() {
		pid, _ := reg.ReadPID()
		color.Yellow("Router service is already running (pid %d).", pid)
		return nil
	}

	pid, err := sup.Start()
	if err != nil {
		return err
	}

	color.Green("Router service started (pid %d).", pid)
	return nil
}
