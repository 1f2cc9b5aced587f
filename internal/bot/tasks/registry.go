package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// comes from the scheduler and must be honored for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the task registry. Keys match the task names used
// in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		"board_refresh":   newBoardRefreshTask(deps),
		"sql_maintenance": newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
