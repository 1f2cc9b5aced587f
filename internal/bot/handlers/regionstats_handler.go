package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRegionStatsHandler returns a handler for the /regionstats admin command:
// per-region totals of occupied and free roles.
func NewRegionStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return regionStatsHandler{deps}.Handle
}

type regionStatsHandler struct {
	deps HandlerDeps
}

func (h regionStatsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "regionstats")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.deps.Store.GetRegionStats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to get region stats", "error", err)
		h.deps.replyError(ctx, b, chatID)
		return
	}
	if len(stats) == 0 {
		replyText(ctx, b, log, chatID, "Список ролей пуст.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Роли по регионам:\n")
	for _, rs := range stats {
		sb.WriteString(fmt.Sprintf("%s: %d всего, %d занято, %d свободно\n",
			rs.Region, rs.Total, rs.Occupied, rs.Free))
	}

	replyText(ctx, b, log, chatID, strings.TrimRight(sb.String(), "\n"))
}
