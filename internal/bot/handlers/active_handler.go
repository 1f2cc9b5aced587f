package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewActiveHandler returns a handler for the /active command, replying with
// the sender's message counts over the standard windows.
func NewActiveHandler(deps HandlerDeps) bot.HandlerFunc {
	return activeHandler{deps}.Handle
}

type activeHandler struct {
	deps HandlerDeps
}

func (h activeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "active")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	stats, err := h.deps.Store.GetMessageStats(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get message stats", "user_id", userID, "error", err)
		h.deps.replyError(ctx, b, update.Message.Chat.ID)
		return
	}

	text := fmt.Sprintf(
		"Ваша активность:\nЗа день: %d\nЗа неделю: %d\nЗа месяц: %d\nЗа всё время: %d",
		stats.Day, stats.Week, stats.Month, stats.Total,
	)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", update.Message.Chat.ID)
	}
}

// replyError sends the generic error message, used when a storage operation fails.
func (deps HandlerDeps) replyError(ctx context.Context, b *bot.Bot, chatID int64) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Config.Messages.GeneralError,
	})
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send error message", "error", err, "chat_id", chatID)
	}
}
