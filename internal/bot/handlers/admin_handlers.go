package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// targetUserID resolves the user an admin command acts on: the replied-to
// message's sender, or a numeric ID argument.
func targetUserID(msg *models.Message) (int64, error) {
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From.ID, nil
	}
	arg := commandArgument(msg.Text)
	if arg == "" {
		return 0, fmt.Errorf("no target: reply to a message or pass a user ID")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user ID %q", arg)
	}
	return id, nil
}

// NewBanHandler returns a handler for the /ban command. Banning also releases
// every role the user held and resynchronizes the boards.
func NewBanHandler(deps HandlerDeps) bot.HandlerFunc {
	return banHandler{deps}.Handle
}

type banHandler struct {
	deps HandlerDeps
}

func (h banHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "ban")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	userID, err := targetUserID(update.Message)
	if err != nil {
		replyText(ctx, b, log, chatID, "Укажите пользователя: ответом на сообщение или ID.")
		return
	}

	if err := h.deps.Store.BanUser(ctx, userID); err != nil {
		log.ErrorContext(ctx, "Failed to ban user", "user_id", userID, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	released, err := h.deps.Store.ReleaseRolesByUser(ctx, userID, h.deps.Editor)
	if err != nil {
		log.ErrorContext(ctx, "Failed to release banned user's roles", "user_id", userID, "error", err)
	}

	log.InfoContext(ctx, "User banned", "user_id", userID, "roles_released", released)
	replyText(ctx, b, log, chatID, fmt.Sprintf("Пользователь %d заблокирован (ролей снято: %d).", userID, released))
}

// NewUnbanHandler returns a handler for the /unban command.
func NewUnbanHandler(deps HandlerDeps) bot.HandlerFunc {
	return unbanHandler{deps}.Handle
}

type unbanHandler struct {
	deps HandlerDeps
}

func (h unbanHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "unban")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	userID, err := targetUserID(update.Message)
	if err != nil {
		replyText(ctx, b, log, chatID, "Укажите пользователя: ответом на сообщение или ID.")
		return
	}

	if err := h.deps.Store.UnbanUser(ctx, userID); err != nil {
		log.ErrorContext(ctx, "Failed to unban user", "user_id", userID, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	log.InfoContext(ctx, "User unbanned", "user_id", userID)
	replyText(ctx, b, log, chatID, fmt.Sprintf("Пользователь %d разблокирован.", userID))
}

// NewPromoteHandler returns a handler for the /promote command, granting a
// user admin status.
func NewPromoteHandler(deps HandlerDeps) bot.HandlerFunc {
	return promoteHandler{deps}.Handle
}

type promoteHandler struct {
	deps HandlerDeps
}

func (h promoteHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "promote")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	userID, err := targetUserID(update.Message)
	if err != nil {
		replyText(ctx, b, log, chatID, "Укажите пользователя: ответом на сообщение или ID.")
		return
	}

	if err := h.deps.Store.SetAdmin(ctx, userID, true); err != nil {
		log.ErrorContext(ctx, "Failed to promote user", "user_id", userID, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	log.InfoContext(ctx, "User promoted to admin", "user_id", userID)
	replyText(ctx, b, log, chatID, fmt.Sprintf("Пользователь %d теперь администратор.", userID))
}

func replyText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
