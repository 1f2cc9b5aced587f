package handlers

import (
	"context"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// rateLimiter is a per-user fixed-window counter. The window starts on the
// first message and resets once it has fully elapsed.
type rateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[int64]*windowEntry
	now     func() time.Time
}

type windowEntry struct {
	start time.Time
	count int
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		max:     max,
		window:  window,
		entries: make(map[int64]*windowEntry),
		now:     time.Now,
	}
}

// allow counts one message for userID and reports whether it is within the
// limit. The first over-limit message in a window returns exactly count ==
// max+1, which the middleware uses to warn once.
func (l *rateLimiter) allow(userID int64) (ok bool, firstOver bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, exists := l.entries[userID]
	if !exists || now.Sub(entry.start) >= l.window {
		l.entries[userID] = &windowEntry{start: now, count: 1}
		return true, false
	}

	entry.count++
	if entry.count <= l.max {
		return true, false
	}
	return false, entry.count == l.max+1
}

// RateLimit creates a middleware that drops messages from users exceeding the
// configured per-window limit. The first dropped message in a window gets a
// warning reply; the rest are dropped silently. Admin commands are exempt.
func RateLimit(deps HandlerDeps) tgbot.Middleware {
	if !deps.Config.RateLimit.Enabled {
		return func(next tgbot.HandlerFunc) tgbot.HandlerFunc { return next }
	}

	limiter := newRateLimiter(deps.Config.RateLimit.MaxMessages, deps.Config.RateLimit.Window)
	log := deps.Logger.With("middleware", "rate_limit")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil || update.Message.From.IsBot {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if deps.isAdmin(ctx, userID) {
				next(ctx, b, update)
				return
			}

			ok, firstOver := limiter.allow(userID)
			if ok {
				next(ctx, b, update)
				return
			}

			log.DebugContext(ctx, "Dropping rate-limited message",
				"user_id", userID, "chat_id", update.Message.Chat.ID)
			if firstOver {
				_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: update.Message.Chat.ID,
					Text:   deps.Config.Messages.RateLimited,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send rate limit warning", "error", err)
				}
			}
		}
	}
}
