package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ellirien/rolekeeper/internal/database"
)

// NewFreeHandler returns a handler for the /free command, listing unoccupied
// roles. An optional argument names a region to filter by, e.g.
// "/free Мондштадт".
func NewFreeHandler(deps HandlerDeps) bot.HandlerFunc {
	return freeHandler{deps}.Handle
}

type freeHandler struct {
	deps HandlerDeps
}

func (h freeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "free")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var region *database.Region
	arg := commandArgument(update.Message.Text)
	if arg != "" {
		r, ok := database.ParseRegion(arg)
		if !ok {
			if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "Неизвестный регион: " + arg,
			}); err != nil {
				log.ErrorContext(ctx, "Failed to send unknown region reply", "error", err)
			}
			return
		}
		region = &r
	}

	roles, err := h.deps.Store.GetAvailableRoles(ctx, region)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get available roles", "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}
	if len(roles) == 0 {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Свободных ролей нет."}); err != nil {
			log.ErrorContext(ctx, "Failed to send empty free roles reply", "error", err)
		}
		return
	}

	var sb strings.Builder
	sb.WriteString("Свободные роли:\n")
	for _, role := range roles {
		sb.WriteString(role.Name)
		sb.WriteString(" — ")
		sb.WriteString(string(role.Region))
		sb.WriteString("\n")
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: strings.TrimRight(sb.String(), "\n")})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send free roles list", "error", err, "chat_id", chatID)
	}
}

// commandArgument returns the text after the leading /command token, with any
// @botname suffix on the command stripped.
func commandArgument(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
