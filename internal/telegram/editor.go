package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"

	"github.com/ellirien/rolekeeper/internal/database"
)

// Editor adapts a bot instance to the narrow message-edit capability the
// store needs for board synchronization.
type Editor struct {
	bot *bot.Bot
}

// NewEditor wraps b as a database.MessageEditor.
func NewEditor(b *bot.Bot) *Editor {
	return &Editor{bot: b}
}

var _ database.MessageEditor = (*Editor)(nil)

// EditMessageText edits a previously published message in place. Telegram
// rejects edits that leave the text unchanged; that outcome is a success here
// since the message already shows the desired content.
func (e *Editor) EditMessageText(ctx context.Context, chatID, messageID int64, text string) error {
	_, err := e.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: int(messageID),
		Text:      text,
	})
	if err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("failed to edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}
