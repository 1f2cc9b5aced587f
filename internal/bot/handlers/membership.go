package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChatMemberChecker reports whether a user belongs to a chat or channel. It
// is injected rather than taken from the bot client so the gate is testable
// with fakes.
type ChatMemberChecker interface {
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)
}

// RequireMembership creates a middleware that only lets members of the
// configured community channel through. Disabled (pass-through) when no
// channel is configured or no checker is wired.
func RequireMembership(deps HandlerDeps) tgbot.Middleware {
	channelID := deps.Config.Telegram.RequiredChannelID
	if channelID == 0 || deps.Membership == nil {
		return func(next tgbot.HandlerFunc) tgbot.HandlerFunc { return next }
	}

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			log := deps.Logger.With("middleware", "membership")

			member, err := deps.Membership.IsMember(ctx, channelID, userID)
			if err != nil {
				log.ErrorContext(ctx, "Membership check failed", "user_id", userID, "error", err)
				deps.replyError(ctx, b, update.Message.Chat.ID)
				return
			}
			if !member {
				log.InfoContext(ctx, "Rejected non-member", "user_id", userID, "channel_id", channelID)
				replyText(ctx, b, log, update.Message.Chat.ID, deps.Config.Messages.NotSubscribed)
				return
			}

			next(ctx, b, update)
		}
	}
}
