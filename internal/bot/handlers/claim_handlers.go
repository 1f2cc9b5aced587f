package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ellirien/rolekeeper/internal/database"
)

// ClaimKind is the topic-claim namespace used by role applications.
const ClaimKind = "anketa"

// ClaimCallbackPrefix is the callback-data prefix for claim decisions, in the
// form "anketa:accept:<topic>" or "anketa:reject:<topic>".
const ClaimCallbackPrefix = ClaimKind + ":"

// NewClaimHandler returns a handler for the /new command: a user applies for
// a role. The claim is stored durably, keyed by the forum topic it was made
// in, and admins get accept/reject buttons.
func NewClaimHandler(deps HandlerDeps) bot.HandlerFunc {
	return claimHandler{deps}.Handle
}

type claimHandler struct {
	deps HandlerDeps
}

func (h claimHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "claim")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	roleName := commandArgument(msg.Text)
	if roleName == "" {
		replyText(ctx, b, log, chatID, "Укажите роль: /new <имя роли>")
		return
	}

	role, err := h.deps.Store.GetRoleByName(ctx, roleName)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up requested role", "role", roleName, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}
	if role == nil || role.OccupiedBy.Valid {
		replyText(ctx, b, log, chatID, h.deps.Config.Messages.RoleUnavailable)
		return
	}

	from := msg.From
	if err := h.deps.Store.RegisterUser(ctx, from.ID, from.Username, fullName(from), false); err != nil {
		log.ErrorContext(ctx, "Failed to register claimant", "user_id", from.ID, "error", err)
	}

	// Forum topics carry a thread ID; outside forums the claim message
	// itself identifies the application.
	topicID := int64(msg.MessageThreadID)
	if topicID == 0 {
		topicID = int64(msg.ID)
	}

	claim := &database.TopicClaim{
		Kind:     ClaimKind,
		TopicID:  topicID,
		UserID:   from.ID,
		RoleName: roleName,
	}
	if err := h.deps.Store.SaveTopicClaim(ctx, claim); err != nil {
		log.ErrorContext(ctx, "Failed to save topic claim", "topic_id", topicID, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Принять", CallbackData: fmt.Sprintf("%saccept:%d", ClaimCallbackPrefix, topicID)},
			{Text: "Отклонить", CallbackData: fmt.Sprintf("%sreject:%d", ClaimCallbackPrefix, topicID)},
		}},
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("Анкета на роль «%s» от пользователя %d. Решение за администраторами.", roleName, from.ID),
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to post claim decision message", "topic_id", topicID, "error", err)
		return
	}

	log.InfoContext(ctx, "Role claim recorded", "topic_id", topicID, "user_id", from.ID, "role", roleName)
}

// NewClaimDecisionHandler returns the callback handler for claim decisions.
// Only admins may decide; on accept the role is assigned to the claimant and
// the board resynchronized, on reject the claim is simply dropped.
func NewClaimDecisionHandler(deps HandlerDeps) bot.HandlerFunc {
	return claimDecisionHandler{deps}.Handle
}

type claimDecisionHandler struct {
	deps HandlerDeps
}

func (h claimDecisionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "claim_decision")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	answer := func(text string) {
		_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: cq.ID,
			Text:            text,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
		}
	}

	if !h.deps.isAdmin(ctx, cq.From.ID) {
		log.WarnContext(ctx, "Non-admin tried to decide a claim", "user_id", cq.From.ID)
		answer(h.deps.Config.Messages.NotAuthorized)
		return
	}

	verb, topicID, err := parseClaimCallback(cq.Data)
	if err != nil {
		log.WarnContext(ctx, "Malformed claim callback data", "data", cq.Data, "error", err)
		answer(h.deps.Config.Messages.GeneralError)
		return
	}

	claim, err := h.deps.Store.GetTopicClaim(ctx, ClaimKind, topicID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load topic claim", "topic_id", topicID, "error", err)
		answer(h.deps.Config.Messages.GeneralError)
		return
	}
	if claim == nil {
		answer("Анкета уже рассмотрена.")
		return
	}

	var result string
	switch verb {
	case "accept":
		ok, err := h.deps.Store.AssignRole(ctx, claim.RoleName, claim.UserID, h.deps.Editor)
		if err != nil {
			log.ErrorContext(ctx, "Failed to assign claimed role",
				"role", claim.RoleName, "user_id", claim.UserID, "error", err)
			answer(h.deps.Config.Messages.GeneralError)
			return
		}
		if !ok {
			answer(h.deps.Config.Messages.RoleUnavailable)
			return
		}
		result = fmt.Sprintf(h.deps.Config.Messages.ClaimAccepted, claim.RoleName)
	case "reject":
		result = h.deps.Config.Messages.ClaimRejected
	default:
		answer(h.deps.Config.Messages.GeneralError)
		return
	}

	if err := h.deps.Store.DeleteTopicClaim(ctx, ClaimKind, topicID); err != nil {
		log.ErrorContext(ctx, "Failed to delete decided claim", "topic_id", topicID, "error", err)
	}
	answer(result)

	// Replace the decision message so the buttons disappear.
	if cq.Message.Message != nil {
		msg := cq.Message.Message
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      result,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to update decision message", "error", err)
		}
	}

	log.InfoContext(ctx, "Claim decided",
		"topic_id", topicID, "verb", verb, "user_id", claim.UserID, "role", claim.RoleName)
}

// parseClaimCallback splits "anketa:<verb>:<topic>" into its verb and topic ID.
func parseClaimCallback(data string) (verb string, topicID int64, err error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != ClaimKind {
		return "", 0, fmt.Errorf("unexpected callback data format %q", data)
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad topic ID in callback data %q: %w", data, err)
	}
	return parts[1], id, nil
}
