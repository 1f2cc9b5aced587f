package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
//  1. Default values
//  2. The YAML file at path (optional; missing file is fine)
//  3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN)
func LoadConfig(path string) (*Config, error) {
	startTime := time.Now()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about, so keys
	// without defaults must be bound explicitly or env-only configuration
	// (e.g. BOT_TELEGRAM_TOKEN with no config file) never reaches Unmarshal.
	for _, key := range []string{
		"telegram.token",
		"telegram.admin_user_id",
		"telegram.group_chat_id",
		"telegram.required_channel_id",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: failed to bind env for key %q: %v", ErrConfiguration, key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: failed to read config file %q: %v", ErrConfiguration, path, err)
			}
			slog.Info("Config file not found, using defaults and environment", "path", path)
		} else {
			slog.Debug("Config file loaded", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("Configuration loaded",
		"log_level", cfg.Logger.Level,
		"db_path", cfg.Database.Path,
		"scheduler_tasks", len(cfg.Scheduler.Tasks),
		"duration_ms", time.Since(startTime).Milliseconds())

	return cfg, nil
}
