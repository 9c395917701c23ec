package cmd

import (
	"github.com/shuangxunian/claude-code-router/internal/config"
	"github.com/shuangxunian/claude-code-router/internal/registry"
	"github.com/shuangxunian/claude-code-router/internal/supervisor"
)

// buildSupervisor wires the config, registry, and supervisor used by the
// lifecycle commands. Every command builds these fresh so state is always
// re-read from disk.
func buildSupervisor() (*config.Config, *registry.Registry, *supervisor.Supervisor, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	appDir, err := config.AppDir()
	if err != nil {
		return nil, nil, nil, err
	}
	reg := registry.New(appDir)
	return cfg, reg, supervisor.New(reg, cfg.LogDir), nil
}
