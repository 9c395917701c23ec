package cmd

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shuangxunian/claude-code-router/internal/config"
	"github.com/shuangxunian/claude-code-router/internal/logger"
	"github.com/shuangxunian/claude-code-router/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the router service in the foreground",
	Long: `Run the router service in the foreground. This is what 'ccr start'
spawns as a detached process; running it directly is useful for debugging.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("host", "H", "", "Host to bind the service to (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolP("debug", "d", false, "Enable debug mode (verbose logging)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags beat config when set.
	if host, err := cmd.Flags().GetString("host"); err == nil && host != "" {
		cfg.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && port != 0 {
		cfg.Port = port
	}
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		cfg.Debug = true
	}

	slogger := logger.New(cfg.LogDir, cfg.Debug)
	srv := server.NewServer(cfg, slogger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Service failed to start: %v", err)
		}
	}()

	// Wait for the supervisor's SIGTERM (or a user's SIGINT).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogger.Info("shutting down router service")

	ctx, cancel := server.CreateShutdownContext(30 * time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Service forced to shutdown: %v", err)
	}

	slogger.Info("router service exited")
}
