package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/config"
)

// loadAppConfig loads configuration from env files, the environment and an
// optional config.yaml.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"prod_mode", cfg.Server.ProdMode)

	slog.Debug("optional backends",
		"redis_configured", cfg.Redis.Addr != "",
		"smtp_configured", cfg.Mail.SMTPHost != "")

	return cfg, nil
}
