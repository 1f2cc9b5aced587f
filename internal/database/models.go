package database

import (
	"database/sql"
	"time"
)

// UserStatus is the moderation status of a registered user.
type UserStatus string

const (
	StatusActive UserStatus = "active"
	StatusAdmin  UserStatus = "admin"
	StatusBanned UserStatus = "banned"
)

// Board categories. Each region maps to exactly one category, and each
// category has at most one live board message (see RoleMessage).
const (
	CategoryGenshin = "genshin"
	CategoryHSR     = "hsr"
)

// Categories lists every board category.
func Categories() []string {
	return []string{CategoryGenshin, CategoryHSR}
}

// Region is the lore region a role belongs to. The values are the display
// names shown on role boards and are stored verbatim in the roles table.
type Region string

// Genshin Impact regions.
const (
	RegionMondstadt    Region = "Мондштадт"
	RegionLiyue        Region = "Ли Юэ"
	RegionInazuma      Region = "Инадзума"
	RegionSumeru       Region = "Сумеру"
	RegionFontaine     Region = "Фонтейн"
	RegionNatlan       Region = "Натлан"
	RegionSnezhnaya    Region = "Снежная"
	RegionKhaenriah    Region = "Каэнри'ах"
	RegionGenshinOther Region = "Другие (Genshin Impact)"
)

// Honkai: Star Rail regions.
const (
	RegionHSRStar        Region = "Звездный экспресс"
	RegionHSRGerta       Region = "Космическая станция Герта"
	RegionHSRYarilo      Region = "Ярило-VI"
	RegionHSRLofu        Region = "Лофу Сяньчжоу"
	RegionHSRPenacony    Region = "Пенакония"
	RegionHSRAmphoreus   Region = "Амфореус"
	RegionHSRHunter      Region = "Охотники за Стеллар"
	RegionHSRKMM         Region = "КММ"
	RegionHSREons        Region = "Эоны"
	RegionHSRFireMansion Region = "Вечногорящий особняк"
	RegionHSRLords       Region = "Лорды Опустошители"
	RegionHSROther       Region = "Прочие (Honkai: Star Rail)"
	RegionHSRFate        Region = "Фейт"
)

// regionCategories stores the board category explicitly per region instead of
// deriving it from a naming convention, so renaming a region cannot silently
// move its roles to the wrong board.
var regionCategories = map[Region]string{
	RegionMondstadt:    CategoryGenshin,
	RegionLiyue:        CategoryGenshin,
	RegionInazuma:      CategoryGenshin,
	RegionSumeru:       CategoryGenshin,
	RegionFontaine:     CategoryGenshin,
	RegionNatlan:       CategoryGenshin,
	RegionSnezhnaya:    CategoryGenshin,
	RegionKhaenriah:    CategoryGenshin,
	RegionGenshinOther: CategoryGenshin,

	RegionHSRStar:        CategoryHSR,
	RegionHSRGerta:       CategoryHSR,
	RegionHSRYarilo:      CategoryHSR,
	RegionHSRLofu:        CategoryHSR,
	RegionHSRPenacony:    CategoryHSR,
	RegionHSRAmphoreus:   CategoryHSR,
	RegionHSRHunter:      CategoryHSR,
	RegionHSRKMM:         CategoryHSR,
	RegionHSREons:        CategoryHSR,
	RegionHSRFireMansion: CategoryHSR,
	RegionHSRLords:       CategoryHSR,
	RegionHSRFate:        CategoryHSR,
	RegionHSROther:       CategoryHSR,
}

// regionOrder fixes the display order of regions on boards and in stats.
var regionOrder = []Region{
	RegionMondstadt, RegionLiyue, RegionInazuma, RegionSumeru, RegionFontaine,
	RegionNatlan, RegionSnezhnaya, RegionKhaenriah, RegionGenshinOther,

	RegionHSRStar, RegionHSRGerta, RegionHSRYarilo, RegionHSRLofu,
	RegionHSRPenacony, RegionHSRAmphoreus, RegionHSRHunter, RegionHSRKMM,
	RegionHSREons, RegionHSRFireMansion, RegionHSRLords, RegionHSRFate,
	RegionHSROther,
}

// Category returns the board category a region belongs to. Unknown regions
// fall back to the Genshin board.
func (r Region) Category() string {
	if c, ok := regionCategories[r]; ok {
		return c
	}
	return CategoryGenshin
}

// ParseRegion matches s against known region display names.
func ParseRegion(s string) (Region, bool) {
	r := Region(s)
	_, ok := regionCategories[r]
	return r, ok
}

// RegionsForCategory returns the regions of a category in display order.
func RegionsForCategory(category string) []Region {
	var regions []Region
	for _, r := range regionOrder {
		if regionCategories[r] == category {
			regions = append(regions, r)
		}
	}
	return regions
}

// User represents a Telegram user known to the bot. The ID is the Telegram
// user ID, assigned externally and never generated here.
type User struct {
	ID        int64          `db:"id"`
	Username  sql.NullString `db:"username"`
	FullName  sql.NullString `db:"full_name"`
	Status    UserStatus     `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// UserMessage is an immutable log entry for a group message. Rows are never
// updated after insert and are removed only by cascade when the owning user
// is deleted.
type UserMessage struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"message_text"`
	CreatedAt time.Time `db:"created_at"`
}

// Role is a claimable character slot. Name is the natural key used by all
// lookups; OccupiedBy is null while the role is free.
type Role struct {
	ID         uint          `db:"id"`
	Name       string        `db:"name"`
	Region     Region        `db:"region"`
	OccupiedBy sql.NullInt64 `db:"occupied_by"`
}

// RoleSeed is a name/region pair used to seed the roles table at startup.
type RoleSeed struct {
	Name   string
	Region Region
}

// RoleMessage tracks the live board message for a category: which chat and
// message to edit, plus the last-known full text body. At most one row per
// category exists.
type RoleMessage struct {
	ID        uint   `db:"id"`
	Category  string `db:"category"`
	ChannelID int64  `db:"channel_id"`
	MessageID int64  `db:"message_id"`
	Text      string `db:"message_text"`
}

// TopicClaim links a support-forum topic to the user who opened it and the
// role they requested. Backing this with a table rather than process memory
// lets claims survive restarts.
type TopicClaim struct {
	Kind      string    `db:"kind"`
	TopicID   int64     `db:"topic_id"`
	UserID    int64     `db:"user_id"`
	RoleName  string    `db:"role_name"`
	CreatedAt time.Time `db:"created_at"`
}

// RoleStatus is one row of the role-status snapshot: the role name and the
// occupant's user ID, null while free.
type RoleStatus struct {
	Name       string        `db:"name"`
	OccupiedBy sql.NullInt64 `db:"occupied_by"`
}

// MessageStats holds message counts for a single user over the standard
// reporting windows. All four counts are taken against the same "now"
// snapshot, so Day <= Week <= Month <= Total.
type MessageStats struct {
	Day   int `db:"day_count"`
	Week  int `db:"week_count"`
	Month int `db:"month_count"`
	Total int `db:"total_count"`
}

// RegionStats holds per-region role occupancy counts.
type RegionStats struct {
	Region   Region `db:"region"`
	Total    int    `db:"total"`
	Occupied int    `db:"occupied"`
	Free     int    `db:"free"`
}
