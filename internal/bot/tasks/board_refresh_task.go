package tasks

import (
	"context"
	"time"

	"github.com/ellirien/rolekeeper/internal/database"
)

// newBoardRefreshTask creates the periodic board resync task. Boards are
// normally updated right after each role mutation; this task repairs any
// board whose edit was lost (Telegram hiccup, message edited by hand).
func newBoardRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "board_refresh")

	return func(ctx context.Context) error {
		start := time.Now()

		for _, category := range database.Categories() {
			synced, err := deps.Store.SyncRoleBoard(ctx, category, deps.Editor)
			if err != nil {
				log.ErrorContext(ctx, "Board refresh failed", "category", category, "error", err)
				return err
			}
			log.DebugContext(ctx, "Board refresh pass", "category", category, "synced", synced)
		}

		log.InfoContext(ctx, "Board refresh completed", "duration", time.Since(start))
		return nil
	}
}
