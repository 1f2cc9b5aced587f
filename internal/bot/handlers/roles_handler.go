package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRolesHandler returns a handler for the /roles command: the full
// occupancy snapshot, one role per line.
func NewRolesHandler(deps HandlerDeps) bot.HandlerFunc {
	return rolesHandler{deps}.Handle
}

type rolesHandler struct {
	deps HandlerDeps
}

func (h rolesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "roles")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	statuses, err := h.deps.Store.GetRoleStatus(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get role status", "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}
	if len(statuses) == 0 {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Список ролей пуст."}); err != nil {
			log.ErrorContext(ctx, "Failed to send empty roles reply", "error", err)
		}
		return
	}

	var sb strings.Builder
	sb.WriteString("Роли:\n")
	for _, st := range statuses {
		sb.WriteString(st.Name)
		if st.OccupiedBy.Valid {
			sb.WriteString(" ✅")
		}
		sb.WriteString("\n")
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: strings.TrimRight(sb.String(), "\n")})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send roles list", "error", err, "chat_id", chatID)
	}
}
