package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath = "rolekeeper.db"

	DefaultRateLimitMaxMessages = 5
	DefaultRateLimitWindow      = 10 * time.Second

	// Cron schedules use the six-field form with a seconds column.
	DefaultBoardRefreshSchedule   = "0 */30 * * * *" // every 30 minutes
	DefaultSQLMaintenanceSchedule = "0 0 4 * * *"    // daily at 04:00
)

// DefaultMessages are the stock reply strings; communities override them
// through config.yaml.
var DefaultMessages = MessagesConfig{
	Welcome:         "Привет! Я слежу за ролями и активностью. Команды: /roles, /free, /myroles, /active.",
	NotAuthorized:   "У вас нет прав для этой команды.",
	GeneralError:    "Произошла ошибка. Попробуйте позже.",
	RoleUnavailable: "Эта роль недоступна или уже занята.",
	RoleAssigned:    "Роль «%s» закреплена за вами ✅",
	NoRoles:         "За вами не закреплено ни одной роли.",
	ClaimAccepted:   "Анкета принята, роль «%s» закреплена за пользователем.",
	ClaimRejected:   "Анкета отклонена.",
	RateLimited:     "Слишком много сообщений, подождите немного.",
	NotSubscribed:   "Для подачи анкеты подпишитесь на канал сообщества.",
}

// setDefaults registers default values for every optional key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.role_unavailable", DefaultMessages.RoleUnavailable)
	v.SetDefault("messages.role_assigned", DefaultMessages.RoleAssigned)
	v.SetDefault("messages.no_roles", DefaultMessages.NoRoles)
	v.SetDefault("messages.claim_accepted", DefaultMessages.ClaimAccepted)
	v.SetDefault("messages.claim_rejected", DefaultMessages.ClaimRejected)
	v.SetDefault("messages.rate_limited", DefaultMessages.RateLimited)
	v.SetDefault("messages.not_subscribed", DefaultMessages.NotSubscribed)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max_messages", DefaultRateLimitMaxMessages)
	v.SetDefault("rate_limit.window", DefaultRateLimitWindow)

	v.SetDefault("scheduler.tasks.board_refresh.enabled", true)
	v.SetDefault("scheduler.tasks.board_refresh.schedule", DefaultBoardRefreshSchedule)
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultSQLMaintenanceSchedule)
}
