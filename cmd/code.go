package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shuangxunian/claude-code-router/internal/config"
)

const (
	readyTimeout      = 10 * time.Second
	readyInitialDelay = 1 * time.Second
)

var codeCmd = &cobra.Command{
	Use:   "code [args...]",
	Short: "Run Claude Code through the router, starting the service if needed",
	Long: `Launch the configured Claude CLI with its API traffic routed through the
local service. If the service is not running it is started just in time and
the command waits for it to become ready before launching.`,
	// Everything after "code" belongs to the Claude CLI, including flags.
	DisableFlagParsing: true,
	RunE:               runCode,
}

func init() {
	rootCmd.AddCommand(codeCmd)
}

func runCode(_ *cobra.Command, args []string) error {
	cfg, _, sup, err := buildSupervisor()
	if err != nil {
		return err
	}

	if !sup.IsRunning() {
		color.Yellow("Router service not running, starting...")
		// Spawn failures are fatal here: the user has no other signal that
		// startup went wrong.
		if err := sup.StartDetached(); err != nil {
			return err
		}
		if !sup.WaitUntilReady(context.Background(), readyTimeout, readyInitialDelay) {
			color.Red("Router service did not become ready in time.")
			fmt.Fprintln(os.Stderr, "Check the service logs, or try 'ccr start' and 'ccr status' manually.")
			os.Exit(1)
		}
	}

	return execClaude(cfg, args)
}

// execClaude runs the Claude CLI with stdio inherited and its API endpoint
// pointed at the local service, propagating the child's exit code.
func execClaude(cfg *config.Config, args []string) error {
	// #nosec 204
	cmd := exec.Command(cfg.ClaudeCommand, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		"ANTHROPIC_BASE_URL="+cfg.ServiceURL(),
		"ANTHROPIC_API_KEY=claude-code-router",
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("failed to launch %q: %w", cfg.ClaudeCommand, err)
	}
	return nil
}
