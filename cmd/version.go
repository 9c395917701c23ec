package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shuangxunian/claude-code-router/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ccr version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("ccr version %s\n", server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
