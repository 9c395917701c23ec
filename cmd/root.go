package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shuangxunian/claude-code-router/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ccr",
	Short: "A CLI front end that routes Claude Code through a local proxy service",
	Long: `claude-code-router supervises a background proxy service and forwards
Claude Code sessions through it. The service is spawned detached on demand,
tracked through a pid record, and stopped cleanly via signal plus cleanup.

Piping an image into ccr sends it straight to the running service for
description, bypassing normal command dispatch.`,
	Version: server.Version,
	Run: func(cmd *cobra.Command, _ []string) {
		// Bare invocation prints usage and fails, so scripts notice.
		_ = cmd.Help()
		os.Exit(1)
	},
}

func Execute() {
	// Piped binary input takes priority over any command argument.
	if handled := dispatchPipedImage(); handled {
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "version for ccr")
}
