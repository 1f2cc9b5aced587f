package handlers

import (
	"log/slog"

	"github.com/ellirien/rolekeeper/internal/config"
	"github.com/ellirien/rolekeeper/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	// Editor pushes board edits after role mutations.
	Editor database.MessageEditor
	// Membership gates role applications on community-channel membership;
	// nil disables the gate.
	Membership ChatMemberChecker
}
