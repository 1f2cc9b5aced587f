package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ellirien/rolekeeper/internal/database"
)

// NewPublishBoardHandler returns a handler for the /publish_board admin
// command. It posts a freshly built board for the given category into the
// current chat and records it as the live board message, replacing the
// previous one.
func NewPublishBoardHandler(deps HandlerDeps) bot.HandlerFunc {
	return publishBoardHandler{deps}.Handle
}

type publishBoardHandler struct {
	deps HandlerDeps
}

func (h publishBoardHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "publish_board")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	category := strings.ToLower(commandArgument(update.Message.Text))
	if category != database.CategoryGenshin && category != database.CategoryHSR {
		replyText(ctx, b, log, chatID, "Укажите категорию: /publish_board genshin или /publish_board hsr")
		return
	}

	text, err := h.buildBoard(ctx, category)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build board", "category", category, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}
	if text == "" {
		replyText(ctx, b, log, chatID, "В этой категории нет ролей.")
		return
	}

	sent, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to post board message", "category", category, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	if err := h.deps.Store.SaveRoleMessage(ctx, category, chatID, int64(sent.ID), text); err != nil {
		log.ErrorContext(ctx, "Failed to record board message", "category", category, "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}

	log.InfoContext(ctx, "Board published", "category", category, "chat_id", chatID, "message_id", sent.ID)
}

// buildBoard renders the full board body for a category: a heading, one
// region section per populated region, and one line per role with an
// occupancy mark.
func (h publishBoardHandler) buildBoard(ctx context.Context, category string) (string, error) {
	byRegion := make(map[database.Region][]database.Role)
	for _, region := range database.RegionsForCategory(category) {
		roles, err := h.deps.Store.GetRolesByRegion(ctx, region)
		if err != nil {
			return "", err
		}
		if len(roles) > 0 {
			byRegion[region] = roles
		}
	}
	if len(byRegion) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("СПИСОК РОЛЕЙ\n")
	for _, region := range database.RegionsForCategory(category) {
		roles, ok := byRegion[region]
		if !ok {
			continue
		}
		sb.WriteString("\nᵎ ")
		sb.WriteString(string(region))
		sb.WriteString("\n")
		for _, role := range roles {
			sb.WriteString(role.Name)
			if role.OccupiedBy.Valid {
				sb.WriteString(" ✅")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nЕсли персонажа нет в списке, напишите администратору.")
	return sb.String(), nil
}
