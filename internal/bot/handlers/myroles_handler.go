package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMyRolesHandler returns a handler for the /myroles command.
func NewMyRolesHandler(deps HandlerDeps) bot.HandlerFunc {
	return myRolesHandler{deps}.Handle
}

type myRolesHandler struct {
	deps HandlerDeps
}

func (h myRolesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "myroles")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	names, err := h.deps.Store.GetRolesByUser(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get user's roles", "user_id", userID, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	text := h.deps.Config.Messages.NoRoles
	if len(names) > 0 {
		text = "Ваши роли:\n" + strings.Join(names, "\n")
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send myroles reply", "error", err, "chat_id", chatID)
	}
}
