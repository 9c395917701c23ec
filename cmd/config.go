package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shuangxunian/claude-code-router/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage configuration settings for claude-code-router.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:
- api_key: API key for the upstream provider
- base_url: upstream OpenAI-compatible base URL
- host: host the service binds to (default: 127.0.0.1)
- port: port the service listens on (default: 3456)
- model: default chat model
- image_model: model used for piped-image description
- claude_command: the Claude CLI binary launched by 'ccr code'`,
	Args: cobra.ExactArgs(2),
	Run:  runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Long: `Get a configuration value. The api_key is printed masked. See
'ccr config set --help' for the list of keys.`,
	Args: cobra.ExactArgs(1),
	Run:  runConfigGet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}

func runConfigSet(_ *cobra.Command, args []string) {
	key := args[0]
	value := args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch key {
	case "api_key":
		cfg.APIKey = value
	case "base_url":
		cfg.BaseURL = value
	case "host":
		cfg.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Invalid port value: %s. Must be an integer.", value)
		}
		cfg.Port = port
	case "model":
		cfg.Model = value
	case "image_model":
		cfg.ImageModel = value
	case "claude_command":
		cfg.ClaudeCommand = value
	default:
		log.Fatalf("Invalid key: %s. Valid keys are: api_key, base_url, host, port, model, image_model, claude_command", key)
	}

	if err := config.Save(cfg); err != nil {
		log.Fatalf("Failed to save configuration: %v", err)
	}

	fmt.Printf("Configuration updated: %s = %s\n", key, maskIfAPIKey(key, value))
}

func runConfigGet(_ *cobra.Command, args []string) {
	key := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var value string
	switch key {
	case "api_key":
		if cfg.APIKey != "" {
			value = "********"
		}
	case "base_url":
		value = cfg.BaseURL
	case "host":
		value = cfg.Host
	case "port":
		if cfg.Port != 0 {
			value = strconv.Itoa(cfg.Port)
		}
	case "model":
		value = cfg.Model
	case "image_model":
		value = cfg.ImageModel
	case "claude_command":
		value = cfg.ClaudeCommand
	default:
		log.Fatalf("Invalid key: %s. Valid keys are: api_key, base_url, host, port, model, image_model, claude_command", key)
	}

	if value == "" {
		fmt.Printf("%s is not set\n", key)
	} else {
		fmt.Printf("%s = %s\n", key, value)
	}
}

func maskIfAPIKey(key, value string) string {
	if key == "api_key" && value != "" {
		return "********"
	}
	return value
}
