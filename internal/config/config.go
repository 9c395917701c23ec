package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Model         string `mapstructure:"model"`
	ImageModel    string `mapstructure:"image_model"`
	ClaudeCommand string `mapstructure:"claude_command"`
	LogDir        string `mapstructure:"log_dir"`
	Debug         bool   `mapstructure:"debug"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIKey:        "",
		BaseURL:       "https://openrouter.ai/api/v1",
		Host:          "127.0.0.1",
		Port:          3456,
		Model:         "anthropic/claude-sonnet-4",
		ImageModel:    "google/gemini-2.5-flash",
		ClaudeCommand: "claude",
	}
}

// Addr returns the host:port address of the router service.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServiceURL returns the base URL clients use to reach the local service.
func (c *Config) ServiceURL() string {
	return fmt.Sprintf("http://%s", c.Addr())
}

// Load loads configuration with precedence: ENV vars > .env file > config file > defaults
func Load() (*Config, error) {
	// Pick up a .env from the working directory before viper reads the
	// environment. Missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	defaultCfg := DefaultConfig()
	v.SetDefault("api_key", defaultCfg.APIKey)
	v.SetDefault("base_url", defaultCfg.BaseURL)
	v.SetDefault("host", defaultCfg.Host)
	v.SetDefault("port", defaultCfg.Port)
	v.SetDefault("model", defaultCfg.Model)
	v.SetDefault("image_model", defaultCfg.ImageModel)
	v.SetDefault("claude_command", defaultCfg.ClaudeCommand)
	v.SetDefault("log_dir", defaultCfg.LogDir)
	v.SetDefault("debug", defaultCfg.Debug)

	v.SetConfigName("config")
	v.SetConfigType("json")

	appDir, err := AppDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(appDir)

	v.SetEnvPrefix("CCR")
	v.AutomaticEnv()

	_ = v.BindEnv("api_key", "CCR_API_KEY")
	_ = v.BindEnv("base_url", "CCR_BASE_URL")
	_ = v.BindEnv("host", "CCR_HOST")
	_ = v.BindEnv("port", "CCR_PORT")
	_ = v.BindEnv("model", "CCR_MODEL")
	_ = v.BindEnv("image_model", "CCR_IMAGE_MODEL")
	_ = v.BindEnv("claude_command", "CCR_CLAUDE_COMMAND")
	_ = v.BindEnv("log_dir", "CCR_LOG_DIR")
	_ = v.BindEnv("debug", "CCR_DEBUG")

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(appDir, "logs")
	}

	return &cfg, nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	appDir, err := AppDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(appDir)

	v.Set("api_key", cfg.APIKey)
	v.Set("base_url", cfg.BaseURL)
	v.Set("host", cfg.Host)
	v.Set("port", cfg.Port)
	v.Set("model", cfg.Model)
	v.Set("image_model", cfg.ImageModel)
	v.Set("claude_command", cfg.ClaudeCommand)
	v.Set("log_dir", cfg.LogDir)
	v.Set("debug", cfg.Debug)

	configPath := filepath.Join(appDir, "config.json")
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AppDir returns the application state directory. It holds the config file,
// the pid and reference-count records, and the log directory. CCR_HOME
// overrides everything, which keeps tests hermetic.
func AppDir() (string, error) {
	if home := os.Getenv("CCR_HOME"); home != "" {
		return home, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "claude-code-router"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".claude-code-router"), nil
}
