// Package handlers contains Telegram bot command and callback handlers,
// their registration logic, and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ellirien/rolekeeper/internal/database"
)

// isAdmin reports whether userID may use admin commands: either the
// configured admin or a user promoted to admin status in the database.
func (deps HandlerDeps) isAdmin(ctx context.Context, userID int64) bool {
	if userID == deps.Config.Telegram.AdminUserID {
		return true
	}

	user, err := deps.Store.GetUser(ctx, userID)
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to check admin status", "user_id", userID, "error", err)
		return false
	}
	return user != nil && user.Status == database.StatusAdmin
}

// AdminOnly creates a middleware that rejects message commands from
// non-admin users with a "not authorized" reply.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if !deps.isAdmin(ctx, userID) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized command attempt", "user_id", userID, "chat_id", chatID)

				_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.NotAuthorized,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
