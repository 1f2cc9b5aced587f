// Package tasks implements the bot's scheduled background tasks and their
// registration.
package tasks

import (
	"log/slog"

	"github.com/ellirien/rolekeeper/internal/config"
	"github.com/ellirien/rolekeeper/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Editor database.MessageEditor
}
