package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MembershipChecker answers chat-membership queries through the Bot API.
type MembershipChecker struct {
	bot *bot.Bot
}

// NewMembershipChecker wraps b as a membership checker.
func NewMembershipChecker(b *bot.Bot) *MembershipChecker {
	return &MembershipChecker{bot: b}
}

// IsMember reports whether userID currently belongs to chatID. Users who
// left or were kicked do not count as members.
func (c *MembershipChecker) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	member, err := c.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to get chat member %d of chat %d: %w", userID, chatID, err)
	}

	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true, nil
	default:
		return false, nil
	}
}
