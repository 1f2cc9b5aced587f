// Package config provides configuration loading, validation, and defaults
// for the rolekeeper bot. Values come from defaults, an optional YAML file,
// and BOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"time"

	"github.com/go-telegram/bot/models"
)

// ErrConfiguration marks configuration loading or validation failures.
// These are fatal: the process must not start with a bad configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and chat identity.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`
	// GroupChatID is the main community group the bot moderates. Zero means
	// group-specific features (message counting) accept any group chat.
	GroupChatID int64 `mapstructure:"group_chat_id"`
	// RequiredChannelID gates role applications on channel membership.
	// Zero disables the gate.
	RequiredChannelID int64 `mapstructure:"required_channel_id"`

	// BotInfo is populated at runtime after GetMe, never from the file.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// MessagesConfig holds all user-facing reply strings so communities can
// reword the bot without a rebuild.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"          validate:"required"`
	NotAuthorized   string `mapstructure:"not_authorized"   validate:"required"`
	GeneralError    string `mapstructure:"general_error"    validate:"required"`
	RoleUnavailable string `mapstructure:"role_unavailable" validate:"required"`
	RoleAssigned    string `mapstructure:"role_assigned"    validate:"required"`
	NoRoles         string `mapstructure:"no_roles"         validate:"required"`
	ClaimAccepted   string `mapstructure:"claim_accepted"   validate:"required"`
	ClaimRejected   string `mapstructure:"claim_rejected"   validate:"required"`
	RateLimited     string `mapstructure:"rate_limited"     validate:"required"`
	NotSubscribed   string `mapstructure:"not_subscribed"   validate:"required"`
}

// SchedulerConfig holds the scheduled task table keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named task and sets its cron schedule
// (six-field, with seconds).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// RateLimitConfig bounds how many messages a user may send per window
// before the bot stops reacting to them.
type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxMessages int           `mapstructure:"max_messages" validate:"min=1"`
	Window      time.Duration `mapstructure:"window"       validate:"min=1s"`
}
