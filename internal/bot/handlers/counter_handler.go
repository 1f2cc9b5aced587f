package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewGroupMessageHandler returns the default (catch-all) handler. It records
// every regular group message for activity statistics, keeping the sender's
// profile fresh along the way.
func NewGroupMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return groupMessageHandler{deps}.Handle
}

type groupMessageHandler struct {
	deps HandlerDeps
}

func (h groupMessageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "group_message")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}
	if msg.Chat.Type != models.ChatTypeGroup && msg.Chat.Type != models.ChatTypeSupergroup {
		return
	}
	if groupID := h.deps.Config.Telegram.GroupChatID; groupID != 0 && msg.Chat.ID != groupID {
		return
	}
	// Unregistered commands also land on the default handler; they are not
	// activity.
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	from := msg.From
	if err := h.deps.Store.RegisterUser(ctx, from.ID, from.Username, fullName(from), false); err != nil {
		log.ErrorContext(ctx, "Failed to register message sender", "user_id", from.ID, "error", err)
	}

	sentAt := time.Unix(int64(msg.Date), 0).UTC()
	if err := h.deps.Store.AddMessage(ctx, from.ID, msg.Text, sentAt); err != nil {
		log.ErrorContext(ctx, "Failed to record group message", "user_id", from.ID, "error", err)
		return
	}

	log.DebugContext(ctx, "Recorded group message", "user_id", from.ID, "chat_id", msg.Chat.ID)
}
