package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// MessageEditor edits an already-published chat message in place. The Store
// depends on this narrow interface rather than a bot client so board syncing
// stays testable without network access.
type MessageEditor interface {
	EditMessageText(ctx context.Context, chatID, messageID int64, text string) error
}

// Occupancy marker appended to a role line on the board.
const occupiedMark = "✅"

// boardHeaderMarkers identify board lines that are headings or instructions
// rather than role entries. Such lines pass through the rewrite untouched.
var boardHeaderMarkers = []string{"ᵎ", "СПИСОК", "Если персонажа"}

func isBoardHeaderLine(line string) bool {
	for _, marker := range boardHeaderMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// rewriteBoardText rebuilds a board body against current occupancy. Header
// and blank lines are preserved verbatim. Every other line is treated as a
// role entry: stale occupancy marks are stripped, and a fresh mark is
// appended when the named role is occupied. Lines naming unknown roles are
// kept as-is so a hand-edited board never loses entries.
func rewriteBoardText(text string, occupied map[string]bool) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" || isBoardHeaderLine(line) {
			out = append(out, line)
			continue
		}

		name := strings.TrimSpace(line)
		name = strings.TrimSuffix(name, occupiedMark)
		name = strings.TrimSuffix(name, "🕒")
		name = strings.TrimSpace(name)

		taken, known := occupied[name]
		switch {
		case !known:
			out = append(out, line)
		case taken:
			out = append(out, name+" "+occupiedMark)
		default:
			out = append(out, name)
		}
	}

	return strings.Join(out, "\n")
}

// SyncRoleBoard rewrites the stored board for category against current role
// occupancy, persists the new text, and pushes the edit through editor.
// Returns false when no board is recorded for the category. A failed push
// (deleted message, edit conflict) is logged and reported as false, not as
// an error: the next successful sync repairs the board.
func (s *sqlxStore) SyncRoleBoard(ctx context.Context, category string, editor MessageEditor) (bool, error) {
	var board RoleMessage
	query := `SELECT id, category, channel_id, message_id, message_text FROM role_messages WHERE category = ?`
	err := s.db.GetContext(ctx, &board, query, category)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No board recorded for category, nothing to sync", "category", category)
		return false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error loading board record", "category", category, "error", err)
		return false, fmt.Errorf("failed to load board for category %q: %w", category, err)
	}

	occupied, err := s.categoryOccupancy(ctx, category)
	if err != nil {
		return false, err
	}

	newText := rewriteBoardText(board.Text, occupied)
	if newText != board.Text {
		update := `UPDATE role_messages SET message_text = ? WHERE id = ?`
		if _, err := s.db.ExecContext(ctx, update, newText, board.ID); err != nil {
			s.logger.ErrorContext(ctx, "Error persisting rewritten board", "category", category, "error", err)
			return false, fmt.Errorf("failed to persist board text for category %q: %w", category, err)
		}
	}

	// Push even when the stored text is unchanged: the chat message may have
	// drifted from the record (lost edit, manual edit), and this is the only
	// path that repairs it.
	if editor == nil {
		return true, nil
	}
	if err := editor.EditMessageText(ctx, board.ChannelID, board.MessageID, newText); err != nil {
		s.logger.WarnContext(ctx, "Failed to push board edit to chat",
			"category", category, "channel_id", board.ChannelID, "message_id", board.MessageID, "error", err)
		return false, nil
	}

	s.logger.InfoContext(ctx, "Board synchronized", "category", category, "message_id", board.MessageID)
	return true, nil
}

// categoryOccupancy returns name -> occupied for every role whose region maps
// to the given category.
func (s *sqlxStore) categoryOccupancy(ctx context.Context, category string) (map[string]bool, error) {
	var roles []Role
	query := `SELECT id, name, region, occupied_by FROM roles`
	if err := s.db.SelectContext(ctx, &roles, query); err != nil {
		s.logger.ErrorContext(ctx, "Error loading roles for board sync", "category", category, "error", err)
		return nil, fmt.Errorf("failed to load roles for category %q: %w", category, err)
	}

	occupied := make(map[string]bool)
	for _, role := range roles {
		if role.Region.Category() != category {
			continue
		}
		occupied[role.Name] = role.OccupiedBy.Valid
	}
	return occupied, nil
}
