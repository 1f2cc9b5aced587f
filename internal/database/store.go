package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access interface for users, message statistics,
// roles, role boards, and topic claims.
//
// Absent users/roles and occupancy conflicts are not errors: mutating role
// operations report them as a false result and update nothing. Returned
// errors always indicate infrastructure failures (lost connection, failed
// transaction), never precondition failures.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RegisterUser inserts a user record if none exists for id. Existing
	// records are left completely untouched, including status.
	RegisterUser(ctx context.Context, id int64, username, fullName string, isAdmin bool) error

	// SetAdmin toggles a user between admin and active status. No-op if the
	// user does not exist.
	SetAdmin(ctx context.Context, id int64, makeAdmin bool) error

	// BanUser sets a user's status to banned. No-op if the user does not exist.
	BanUser(ctx context.Context, id int64) error

	// UnbanUser returns a banned user to active status. No-op if the user
	// does not exist or is not currently banned, so admins are never demoted.
	UnbanUser(ctx context.Context, id int64) error

	// GetUser retrieves a user by ID. Returns nil, nil if not found.
	GetUser(ctx context.Context, id int64) (*User, error)

	// GetAllUsers retrieves all users ordered by ID, excluding banned users
	// unless includeBanned is set.
	GetAllUsers(ctx context.Context, includeBanned bool) ([]User, error)

	// GetUserIDs retrieves the ordered list of user IDs for broadcasts.
	GetUserIDs(ctx context.Context, opts UserIDOptions) ([]int64, error)

	// AddMessage records a group message for a user, creating the user as
	// active first if missing. A zero timestamp means "now"; non-UTC
	// timestamps are normalized to UTC.
	AddMessage(ctx context.Context, userID int64, text string, at time.Time) error

	// GetMessageStats returns day/week/month/all-time message counts for a
	// user, all measured against the same instant.
	GetMessageStats(ctx context.Context, userID int64) (MessageStats, error)

	// SeedRoles inserts any role whose name is not already present. Existing
	// roles and their occupancy are left untouched; safe on every startup.
	SeedRoles(ctx context.Context, seeds []RoleSeed) error

	// AssignRole sets userID as the occupant of the named role. Returns false
	// without mutating anything if the role is unknown or occupied, or the
	// user is unknown or banned. On success the matching category board is
	// resynchronized through editor when one is supplied.
	AssignRole(ctx context.Context, roleName string, userID int64, editor MessageEditor) (bool, error)

	// ReleaseRole vacates the named role. Returns false if the role is
	// unknown or already free.
	ReleaseRole(ctx context.Context, roleName string, editor MessageEditor) (bool, error)

	// ReleaseRolesByUser vacates every role occupied by userID and returns
	// the number released. If any were released, both category boards are
	// resynchronized, since the user could hold roles in either.
	ReleaseRolesByUser(ctx context.Context, userID int64, editor MessageEditor) (int, error)

	// GetRoleStatus returns the occupancy snapshot for every role, ordered
	// by name.
	GetRoleStatus(ctx context.Context) ([]RoleStatus, error)

	// GetRolesByUser returns the names of roles occupied by userID.
	GetRolesByUser(ctx context.Context, userID int64) ([]string, error)

	// GetAvailableRoles returns unoccupied roles ordered by name, optionally
	// filtered by region.
	GetAvailableRoles(ctx context.Context, region *Region) ([]Role, error)

	// GetOccupiedRoles returns occupied roles ordered by name, optionally
	// filtered by region.
	GetOccupiedRoles(ctx context.Context, region *Region) ([]Role, error)

	// GetRoleByName retrieves a role by its unique name. Returns nil, nil if
	// not found.
	GetRoleByName(ctx context.Context, name string) (*Role, error)

	// GetRolesByRegion returns every role in a region, ordered by name.
	GetRolesByRegion(ctx context.Context, region Region) ([]Role, error)

	// GetRegionStats returns total/occupied/free role counts per region.
	GetRegionStats(ctx context.Context) ([]RegionStats, error)

	// SaveRoleMessage records the live board message for a category,
	// replacing any previous record for that category.
	SaveRoleMessage(ctx context.Context, category string, channelID, messageID int64, text string) error

	// SyncRoleBoard rewrites the stored board text for a category against
	// current occupancy and pushes it through editor. Returns false if no
	// board is stored for the category or the push fails; push failures are
	// logged, never returned.
	SyncRoleBoard(ctx context.Context, category string, editor MessageEditor) (bool, error)

	// SaveTopicClaim records or replaces the claim for a support topic.
	SaveTopicClaim(ctx context.Context, claim *TopicClaim) error

	// GetTopicClaim retrieves the claim for a topic. Returns nil, nil if not found.
	GetTopicClaim(ctx context.Context, kind string, topicID int64) (*TopicClaim, error)

	// DeleteTopicClaim removes the claim for a topic once it is resolved.
	DeleteTopicClaim(ctx context.Context, kind string, topicID int64) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// UserIDOptions controls GetUserIDs filtering and ordering. The zero value
// excludes banned users, includes admins, and orders ascending.
type UserIDOptions struct {
	IncludeBanned bool
	ExcludeAdmins bool
	Descending    bool
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rollback is the shared deferred-rollback helper: it is a no-op once a
// transaction has been committed and the pointer set to nil.
func (s *sqlxStore) rollback(ctx context.Context, tx *sqlx.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.logger.WarnContext(ctx, "Error rolling back transaction", "error", err)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- Users ---

func (s *sqlxStore) RegisterUser(ctx context.Context, id int64, username, fullName string, isAdmin bool) error {
	status := StatusActive
	if isAdmin {
		status = StatusAdmin
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO users (id, username, full_name, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO NOTHING;
    `
	result, err := s.db.ExecContext(ctx, query, id, nullString(username), nullString(fullName), status, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error registering user", "user_id", id, "error", err)
		return fmt.Errorf("failed to register user %d: %w", id, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 1 {
		s.logger.DebugContext(ctx, "User registered", "user_id", id, "status", status)
	}
	return nil
}

func (s *sqlxStore) SetAdmin(ctx context.Context, id int64, makeAdmin bool) error {
	status := StatusActive
	if makeAdmin {
		status = StatusAdmin
	}

	query := `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		s.logger.ErrorContext(ctx, "Error updating admin status", "user_id", id, "error", err)
		return fmt.Errorf("failed to set admin status for user %d: %w", id, err)
	}
	return nil
}

func (s *sqlxStore) BanUser(ctx context.Context, id int64) error {
	query := `UPDATE users SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, StatusBanned, time.Now().UTC(), id); err != nil {
		s.logger.ErrorContext(ctx, "Error banning user", "user_id", id, "error", err)
		return fmt.Errorf("failed to ban user %d: %w", id, err)
	}
	return nil
}

func (s *sqlxStore) UnbanUser(ctx context.Context, id int64) error {
	// Guarded by current status so unbanning never touches admins or
	// already-active users.
	query := `UPDATE users SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	if _, err := s.db.ExecContext(ctx, query, StatusActive, time.Now().UTC(), id, StatusBanned); err != nil {
		s.logger.ErrorContext(ctx, "Error unbanning user", "user_id", id, "error", err)
		return fmt.Errorf("failed to unban user %d: %w", id, err)
	}
	return nil
}

func (s *sqlxStore) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `SELECT id, username, full_name, status, created_at, updated_at FROM users WHERE id = ?`

	err := s.db.GetContext(ctx, &user, query, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (s *sqlxStore) GetAllUsers(ctx context.Context, includeBanned bool) ([]User, error) {
	query := `SELECT id, username, full_name, status, created_at, updated_at FROM users`
	args := []any{}
	if !includeBanned {
		query += ` WHERE status != ?`
		args = append(args, StatusBanned)
	}
	query += ` ORDER BY id ASC`

	var users []User
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error getting all users", "error", err)
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

func (s *sqlxStore) GetUserIDs(ctx context.Context, opts UserIDOptions) ([]int64, error) {
	query := `SELECT id FROM users WHERE 1 = 1`
	args := []any{}
	if !opts.IncludeBanned {
		query += ` AND status != ?`
		args = append(args, StatusBanned)
	}
	if opts.ExcludeAdmins {
		query += ` AND status != ?`
		args = append(args, StatusAdmin)
	}
	if opts.Descending {
		query += ` ORDER BY id DESC`
	} else {
		query += ` ORDER BY id ASC`
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error getting user IDs", "error", err)
		return nil, fmt.Errorf("failed to get user IDs: %w", err)
	}
	return ids, nil
}

// --- Messages / statistics ---

func (s *sqlxStore) AddMessage(ctx context.Context, userID int64, text string, at time.Time) error {
	if at.IsZero() {
		at = time.Now().UTC()
	} else {
		at = at.UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving message", "user_id", userID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { s.rollback(ctx, tx) }()

	// The sender may not be registered yet; insert them inside the same
	// transaction so the foreign key always holds.
	now := time.Now().UTC()
	ensureUser := `
        INSERT INTO users (id, username, full_name, status, created_at, updated_at)
        VALUES (?, NULL, NULL, ?, ?, ?)
        ON CONFLICT (id) DO NOTHING;
    `
	if _, err := tx.ExecContext(ctx, ensureUser, userID, StatusActive, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error ensuring user before message insert", "user_id", userID, "error", err)
		return fmt.Errorf("failed to ensure user %d exists: %w", userID, err)
	}

	insert := `INSERT INTO user_messages (user_id, message_text, created_at) VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, userID, text, at); err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "user_id", userID, "error", err)
		return fmt.Errorf("failed to save message for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "user_id", userID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Message saved successfully", "user_id", userID, "created_at", at)
	return nil
}

func (s *sqlxStore) GetMessageStats(ctx context.Context, userID int64) (MessageStats, error) {
	now := time.Now().UTC()
	dayStart := StartOfDay(now)
	weekStart := StartOfWeek(now)
	monthStart := StartOfMonth(now)

	// One query against a single snapshot, so the window counts can never
	// disagree with each other.
	query := `
        SELECT
            COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS day_count,
            COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS week_count,
            COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS month_count,
            COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS total_count
        FROM user_messages
        WHERE user_id = ?;
    `

	var stats MessageStats
	err := s.db.GetContext(ctx, &stats, query, dayStart, weekStart, monthStart, epoch, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting message stats", "user_id", userID, "error", err)
		return MessageStats{}, fmt.Errorf("failed to get message stats for user %d: %w", userID, err)
	}
	return stats, nil
}

// --- Roles ---

func (s *sqlxStore) SeedRoles(ctx context.Context, seeds []RoleSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for role seeding", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { s.rollback(ctx, tx) }()

	query := `INSERT INTO roles (name, region) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`
	inserted := 0
	for _, seed := range seeds {
		result, err := tx.ExecContext(ctx, query, seed.Name, seed.Region)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error seeding role", "role", seed.Name, "error", err)
			return fmt.Errorf("failed to seed role %q: %w", seed.Name, err)
		}
		if affected, err := result.RowsAffected(); err == nil {
			inserted += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit role seeding transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Role seeding complete", "seeds", len(seeds), "inserted", inserted)
	return nil
}

func (s *sqlxStore) AssignRole(ctx context.Context, roleName string, userID int64, editor MessageEditor) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for role assignment", "role", roleName, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { s.rollback(ctx, tx) }()

	var role Role
	err = tx.GetContext(ctx, &role, `SELECT id, name, region, occupied_by FROM roles WHERE name = ?`, roleName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "Assignment refused: role not found", "role", roleName)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up role %q: %w", roleName, err)
	}
	if role.OccupiedBy.Valid {
		s.logger.DebugContext(ctx, "Assignment refused: role occupied",
			"role", roleName, "occupied_by", role.OccupiedBy.Int64)
		return false, nil
	}

	var status UserStatus
	err = tx.GetContext(ctx, &status, `SELECT status FROM users WHERE id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "Assignment refused: user not found", "role", roleName, "user_id", userID)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if status == StatusBanned {
		s.logger.DebugContext(ctx, "Assignment refused: user banned", "role", roleName, "user_id", userID)
		return false, nil
	}

	// The occupancy guard makes the check-then-set race-proof: even if two
	// transactions pass the check above, only one update can match.
	result, err := tx.ExecContext(ctx,
		`UPDATE roles SET occupied_by = ? WHERE id = ? AND occupied_by IS NULL`, userID, role.ID)
	if err != nil {
		return false, fmt.Errorf("failed to assign role %q: %w", roleName, err)
	}
	if affected, err := result.RowsAffected(); err != nil || affected != 1 {
		s.logger.DebugContext(ctx, "Assignment lost the race for role", "role", roleName, "user_id", userID)
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit role assignment: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Role assigned", "role", roleName, "user_id", userID)

	if editor != nil {
		if _, err := s.SyncRoleBoard(ctx, role.Region.Category(), editor); err != nil {
			s.logger.WarnContext(ctx, "Board resync after assignment failed",
				"role", roleName, "category", role.Region.Category(), "error", err)
		}
	}
	return true, nil
}

func (s *sqlxStore) ReleaseRole(ctx context.Context, roleName string, editor MessageEditor) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for role release", "role", roleName, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { s.rollback(ctx, tx) }()

	var role Role
	err = tx.GetContext(ctx, &role, `SELECT id, name, region, occupied_by FROM roles WHERE name = ?`, roleName)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up role %q: %w", roleName, err)
	}
	if !role.OccupiedBy.Valid {
		return false, nil
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE roles SET occupied_by = NULL WHERE id = ? AND occupied_by IS NOT NULL`, role.ID)
	if err != nil {
		return false, fmt.Errorf("failed to release role %q: %w", roleName, err)
	}
	if affected, err := result.RowsAffected(); err != nil || affected != 1 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit role release: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Role released", "role", roleName, "was_occupied_by", role.OccupiedBy.Int64)

	if editor != nil {
		if _, err := s.SyncRoleBoard(ctx, role.Region.Category(), editor); err != nil {
			s.logger.WarnContext(ctx, "Board resync after release failed",
				"role", roleName, "category", role.Region.Category(), "error", err)
		}
	}
	return true, nil
}

func (s *sqlxStore) ReleaseRolesByUser(ctx context.Context, userID int64, editor MessageEditor) (int, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE roles SET occupied_by = NULL WHERE occupied_by = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error releasing roles by user", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to release roles for user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count released roles for user %d: %w", userID, err)
	}
	if affected == 0 {
		return 0, nil
	}

	s.logger.InfoContext(ctx, "Released all roles held by user", "user_id", userID, "count", affected)

	// The user could have held roles in either game, so refresh both boards.
	if editor != nil {
		for _, category := range Categories() {
			if _, err := s.SyncRoleBoard(ctx, category, editor); err != nil {
				s.logger.WarnContext(ctx, "Board resync after bulk release failed",
					"user_id", userID, "category", category, "error", err)
			}
		}
	}
	return int(affected), nil
}

func (s *sqlxStore) GetRoleStatus(ctx context.Context) ([]RoleStatus, error) {
	var statuses []RoleStatus
	query := `SELECT name, occupied_by FROM roles ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &statuses, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting role status", "error", err)
		return nil, fmt.Errorf("failed to get role status: %w", err)
	}
	return statuses, nil
}

func (s *sqlxStore) GetRolesByUser(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	query := `SELECT name FROM roles WHERE occupied_by = ? ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &names, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting roles by user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get roles for user %d: %w", userID, err)
	}
	return names, nil
}

func (s *sqlxStore) selectRoles(ctx context.Context, where string, args ...any) ([]Role, error) {
	var roles []Role
	query := `SELECT id, name, region, occupied_by FROM roles WHERE ` + where + ` ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *sqlxStore) GetAvailableRoles(ctx context.Context, region *Region) ([]Role, error) {
	where := `occupied_by IS NULL`
	args := []any{}
	if region != nil {
		where += ` AND region = ?`
		args = append(args, *region)
	}

	roles, err := s.selectRoles(ctx, where, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting available roles", "error", err)
		return nil, fmt.Errorf("failed to get available roles: %w", err)
	}
	return roles, nil
}

func (s *sqlxStore) GetOccupiedRoles(ctx context.Context, region *Region) ([]Role, error) {
	where := `occupied_by IS NOT NULL`
	args := []any{}
	if region != nil {
		where += ` AND region = ?`
		args = append(args, *region)
	}

	roles, err := s.selectRoles(ctx, where, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting occupied roles", "error", err)
		return nil, fmt.Errorf("failed to get occupied roles: %w", err)
	}
	return roles, nil
}

func (s *sqlxStore) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	query := `SELECT id, name, region, occupied_by FROM roles WHERE name = ?`

	err := s.db.GetContext(ctx, &role, query, name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting role by name", "role", name, "error", err)
		return nil, fmt.Errorf("failed to get role %q: %w", name, err)
	}
	return &role, nil
}

func (s *sqlxStore) GetRolesByRegion(ctx context.Context, region Region) ([]Role, error) {
	roles, err := s.selectRoles(ctx, `region = ?`, region)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting roles by region", "region", region, "error", err)
		return nil, fmt.Errorf("failed to get roles for region %q: %w", region, err)
	}
	return roles, nil
}

func (s *sqlxStore) GetRegionStats(ctx context.Context) ([]RegionStats, error) {
	query := `
        SELECT
            region,
            COUNT(*) AS total,
            COALESCE(SUM(CASE WHEN occupied_by IS NOT NULL THEN 1 ELSE 0 END), 0) AS occupied,
            COALESCE(SUM(CASE WHEN occupied_by IS NULL THEN 1 ELSE 0 END), 0) AS free
        FROM roles
        GROUP BY region
        ORDER BY region ASC;
    `

	var stats []RegionStats
	if err := s.db.SelectContext(ctx, &stats, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting region stats", "error", err)
		return nil, fmt.Errorf("failed to get region stats: %w", err)
	}
	return stats, nil
}

// --- Role board messages ---

func (s *sqlxStore) SaveRoleMessage(ctx context.Context, category string, channelID, messageID int64, text string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for board record", "category", category, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { s.rollback(ctx, tx) }()

	// Old record is replaced wholesale whenever a board is re-published.
	if _, err := tx.ExecContext(ctx, `DELETE FROM role_messages WHERE category = ?`, category); err != nil {
		return fmt.Errorf("failed to delete previous board record for %q: %w", category, err)
	}

	insert := `INSERT INTO role_messages (category, channel_id, message_id, message_text) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insert, category, channelID, messageID, text); err != nil {
		return fmt.Errorf("failed to save board record for %q: %w", category, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit board record: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Board message recorded",
		"category", category, "channel_id", channelID, "message_id", messageID)
	return nil
}

// --- Topic claims ---

func (s *sqlxStore) SaveTopicClaim(ctx context.Context, claim *TopicClaim) error {
	if claim == nil {
		return fmt.Errorf("cannot save nil topic claim")
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO topic_claims (kind, topic_id, user_id, role_name, created_at)
        VALUES (:kind, :topic_id, :user_id, :role_name, :created_at)
        ON CONFLICT (kind, topic_id) DO UPDATE SET
            user_id = excluded.user_id,
            role_name = excluded.role_name,
            created_at = excluded.created_at;
    `
	if _, err := s.db.NamedExecContext(ctx, query, claim); err != nil {
		s.logger.ErrorContext(ctx, "Error saving topic claim",
			"kind", claim.Kind, "topic_id", claim.TopicID, "error", err)
		return fmt.Errorf("failed to save topic claim %s/%d: %w", claim.Kind, claim.TopicID, err)
	}
	return nil
}

func (s *sqlxStore) GetTopicClaim(ctx context.Context, kind string, topicID int64) (*TopicClaim, error) {
	var claim TopicClaim
	query := `SELECT kind, topic_id, user_id, role_name, created_at FROM topic_claims WHERE kind = ? AND topic_id = ?`

	err := s.db.GetContext(ctx, &claim, query, kind, topicID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting topic claim", "kind", kind, "topic_id", topicID, "error", err)
		return nil, fmt.Errorf("failed to get topic claim %s/%d: %w", kind, topicID, err)
	}
	return &claim, nil
}

func (s *sqlxStore) DeleteTopicClaim(ctx context.Context, kind string, topicID int64) error {
	query := `DELETE FROM topic_claims WHERE kind = ? AND topic_id = ?`
	if _, err := s.db.ExecContext(ctx, query, kind, topicID); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting topic claim", "kind", kind, "topic_id", topicID, "error", err)
		return fmt.Errorf("failed to delete topic claim %s/%d: %w", kind, topicID, err)
	}
	return nil
}

// --- Maintenance ---

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
// VACUUM must run outside a transaction in SQLite.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
