package database_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellirien/rolekeeper/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return database.NewStore(db, logger)
}

// recordingEditor captures board edits pushed by the store.
type recordingEditor struct {
	mu    sync.Mutex
	edits map[int64]string // messageID -> last pushed text
}

func newRecordingEditor() *recordingEditor {
	return &recordingEditor{edits: make(map[int64]string)}
}

func (e *recordingEditor) EditMessageText(_ context.Context, _, messageID int64, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edits[messageID] = text
	return nil
}

func (e *recordingEditor) text(messageID int64) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	text, ok := e.edits[messageID]
	return text, ok
}

// failingEditor simulates a deleted or uneditable board message.
type failingEditor struct{}

func (failingEditor) EditMessageText(context.Context, int64, int64, string) error {
	return fmt.Errorf("message to edit not found")
}

func TestNewDBRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", "   "} {
		_, err := database.NewDB(path)
		assert.Error(t, err)
	}
}

func TestRegisterUserIdempotent(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RegisterUser(ctx, 100, "alice", "Alice A.", false))
	// Second call with different data must leave the original record alone.
	require.NoError(t, store.RegisterUser(ctx, 100, "renamed", "Someone Else", true))

	user, err := store.GetUser(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username.String)
	assert.Equal(t, "Alice A.", user.FullName.String)
	assert.Equal(t, database.StatusActive, user.Status)
}

func TestRegisterUserAdmin(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RegisterUser(ctx, 200, "boss", "The Boss", true))

	user, err := store.GetUser(ctx, 200)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, database.StatusAdmin, user.Status)
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	user, err := store.GetUser(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestBanAndUnban(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	// Banning a user that does not exist is a silent no-op.
	require.NoError(t, store.BanUser(ctx, 999))

	require.NoError(t, store.RegisterUser(ctx, 300, "troll", "", false))
	require.NoError(t, store.BanUser(ctx, 300))

	user, err := store.GetUser(ctx, 300)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, database.StatusBanned, user.Status)

	require.NoError(t, store.UnbanUser(ctx, 300))
	user, err = store.GetUser(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, database.StatusActive, user.Status)
}

func TestUnbanNeverDemotesAdmin(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RegisterUser(ctx, 301, "boss", "", true))
	require.NoError(t, store.UnbanUser(ctx, 301))

	user, err := store.GetUser(ctx, 301)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, database.StatusAdmin, user.Status)
}

func TestSetAdmin(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RegisterUser(ctx, 302, "user", "", false))
	require.NoError(t, store.SetAdmin(ctx, 302, true))

	user, err := store.GetUser(ctx, 302)
	require.NoError(t, err)
	assert.Equal(t, database.StatusAdmin, user.Status)

	require.NoError(t, store.SetAdmin(ctx, 302, false))
	user, err = store.GetUser(ctx, 302)
	require.NoError(t, err)
	assert.Equal(t, database.StatusActive, user.Status)
}

func TestGetUserIDs(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RegisterUser(ctx, 3, "c", "", false))
	require.NoError(t, store.RegisterUser(ctx, 1, "a", "", true))
	require.NoError(t, store.RegisterUser(ctx, 2, "b", "", false))
	require.NoError(t, store.BanUser(ctx, 2))

	ids, err := store.GetUserIDs(ctx, database.UserIDOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)

	ids, err = store.GetUserIDs(ctx, database.UserIDOptions{IncludeBanned: true, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids)

	ids, err = store.GetUserIDs(ctx, database.UserIDOptions{ExcludeAdmins: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)
}

func TestAddMessageAutoCreatesUser(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddMessage(ctx, 500, "hello", time.Time{}))

	user, err := store.GetUser(ctx, 500)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, database.StatusActive, user.Status)
	assert.False(t, user.Username.Valid)

	stats, err := store.GetMessageStats(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestGetMessageStatsWindows(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RegisterUser(ctx, 600, "chatter", "", false))

	now := time.Now().UTC()
	// One fresh message, one far outside the month window, one ancient.
	require.NoError(t, store.AddMessage(ctx, 600, "today", now))
	require.NoError(t, store.AddMessage(ctx, 600, "two months back", now.AddDate(0, -2, 0)))
	require.NoError(t, store.AddMessage(ctx, 600, "last year", now.AddDate(-1, 0, 0)))

	stats, err := store.GetMessageStats(ctx, 600)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Day)
	assert.Equal(t, 3, stats.Total)
	assert.LessOrEqual(t, stats.Day, stats.Week)
	assert.LessOrEqual(t, stats.Week, stats.Month)
	assert.LessOrEqual(t, stats.Month, stats.Total)
}

func TestGetMessageStatsEmpty(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	stats, err := store.GetMessageStats(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, database.MessageStats{}, stats)
}

func TestSeedRolesIdempotent(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	seeds := []database.RoleSeed{
		{Name: "Альбедо", Region: database.RegionMondstadt},
		{Name: "Зеле", Region: database.RegionHSRYarilo},
	}
	require.NoError(t, store.SeedRoles(ctx, seeds))

	require.NoError(t, store.RegisterUser(ctx, 700, "player", "", false))
	ok, err := store.AssignRole(ctx, "Альбедо", 700, nil)
	require.NoError(t, err)
	require.True(t, ok)

	// Reseeding must not duplicate roles or disturb occupancy.
	require.NoError(t, store.SeedRoles(ctx, seeds))

	statuses, err := store.GetRoleStatus(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	role, err := store.GetRoleByName(ctx, "Альбедо")
	require.NoError(t, err)
	require.NotNil(t, role)
	require.True(t, role.OccupiedBy.Valid)
	assert.Equal(t, int64(700), role.OccupiedBy.Int64)
}

func TestAssignRoleLifecycle(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Альбедо", Region: database.RegionMondstadt},
	}))
	require.NoError(t, store.RegisterUser(ctx, 800, "first", "", false))
	require.NoError(t, store.RegisterUser(ctx, 801, "second", "", false))
	require.NoError(t, store.RegisterUser(ctx, 802, "banned", "", false))
	require.NoError(t, store.BanUser(ctx, 802))

	// Unknown role.
	ok, err := store.AssignRole(ctx, "Нет Такой", 800, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown user.
	ok, err = store.AssignRole(ctx, "Альбедо", 12345, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// Banned user.
	ok, err = store.AssignRole(ctx, "Альбедо", 802, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// First claim wins.
	ok, err = store.AssignRole(ctx, "Альбедо", 800, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// Occupied role cannot be claimed again, even by the same user.
	ok, err = store.AssignRole(ctx, "Альбедо", 801, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = store.AssignRole(ctx, "Альбедо", 800, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := store.GetRolesByUser(ctx, 800)
	require.NoError(t, err)
	assert.Equal(t, []string{"Альбедо"}, names)

	// Release frees the role for the next claimant.
	ok, err = store.ReleaseRole(ctx, "Альбедо", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ReleaseRole(ctx, "Альбедо", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.AssignRole(ctx, "Альбедо", 801, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAvailableAndOccupiedRoles(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Венти", Region: database.RegionMondstadt},
		{Name: "Альбедо", Region: database.RegionMondstadt},
		{Name: "Чжун Ли", Region: database.RegionLiyue},
	}))
	require.NoError(t, store.RegisterUser(ctx, 900, "player", "", false))

	ok, err := store.AssignRole(ctx, "Альбедо", 900, nil)
	require.NoError(t, err)
	require.True(t, ok)

	free, err := store.GetAvailableRoles(ctx, nil)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, "Венти", free[0].Name)
	assert.Equal(t, "Чжун Ли", free[1].Name)

	region := database.RegionMondstadt
	free, err = store.GetAvailableRoles(ctx, &region)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "Венти", free[0].Name)

	taken, err := store.GetOccupiedRoles(ctx, nil)
	require.NoError(t, err)
	require.Len(t, taken, 1)
	assert.Equal(t, "Альбедо", taken[0].Name)

	byRegion, err := store.GetRolesByRegion(ctx, database.RegionMondstadt)
	require.NoError(t, err)
	assert.Len(t, byRegion, 2)
}

func TestGetRegionStats(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Венти", Region: database.RegionMondstadt},
		{Name: "Альбедо", Region: database.RegionMondstadt},
		{Name: "Зеле", Region: database.RegionHSRYarilo},
	}))
	require.NoError(t, store.RegisterUser(ctx, 1000, "player", "", false))

	ok, err := store.AssignRole(ctx, "Венти", 1000, nil)
	require.NoError(t, err)
	require.True(t, ok)

	stats, err := store.GetRegionStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byRegion := make(map[database.Region]database.RegionStats, len(stats))
	for _, rs := range stats {
		byRegion[rs.Region] = rs
	}
	mond := byRegion[database.RegionMondstadt]
	assert.Equal(t, 2, mond.Total)
	assert.Equal(t, 1, mond.Occupied)
	assert.Equal(t, 1, mond.Free)
	yarilo := byRegion[database.RegionHSRYarilo]
	assert.Equal(t, 1, yarilo.Total)
	assert.Equal(t, 0, yarilo.Occupied)
}

func TestSyncRoleBoard(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Альбедо", Region: database.RegionMondstadt},
		{Name: "Венти", Region: database.RegionMondstadt},
	}))
	require.NoError(t, store.RegisterUser(ctx, 1100, "player", "", false))

	board := "СПИСОК РОЛЕЙ\nᵎ Мондштадт\nАльбедо\nВенти"
	require.NoError(t, store.SaveRoleMessage(ctx, database.CategoryGenshin, -100200, 42, board))

	editor := newRecordingEditor()
	ok, err := store.AssignRole(ctx, "Альбедо", 1100, editor)
	require.NoError(t, err)
	require.True(t, ok)

	text, edited := editor.text(42)
	require.True(t, edited)
	assert.Equal(t, "СПИСОК РОЛЕЙ\nᵎ Мондштадт\nАльбедо ✅\nВенти", text)

	ok, err = store.ReleaseRole(ctx, "Альбедо", editor)
	require.NoError(t, err)
	require.True(t, ok)

	text, _ = editor.text(42)
	assert.Equal(t, board, text)
}

func TestSyncRoleBoardWithoutRecord(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	ok, err := store.SyncRoleBoard(context.Background(), database.CategoryHSR, newRecordingEditor())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSyncRoleBoardEditorFailureIsNotAnError(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Альбедо", Region: database.RegionMondstadt},
	}))
	require.NoError(t, store.RegisterUser(ctx, 1200, "player", "", false))
	require.NoError(t, store.SaveRoleMessage(ctx, database.CategoryGenshin, -1, 7, "Альбедо"))

	ok, err := store.AssignRole(ctx, "Альбедо", 1200, failingEditor{})
	require.NoError(t, err)
	// The assignment itself must stand even though the board push failed.
	assert.True(t, ok)

	role, err := store.GetRoleByName(ctx, "Альбедо")
	require.NoError(t, err)
	require.True(t, role.OccupiedBy.Valid)

	synced, err := store.SyncRoleBoard(ctx, database.CategoryGenshin, failingEditor{})
	require.NoError(t, err)
	assert.False(t, synced)
}

func TestReleaseRolesByUserResyncsBothBoards(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Альбедо", Region: database.RegionMondstadt},
		{Name: "Зеле", Region: database.RegionHSRYarilo},
	}))
	require.NoError(t, store.RegisterUser(ctx, 1300, "player", "", false))

	require.NoError(t, store.SaveRoleMessage(ctx, database.CategoryGenshin, -1, 10, "Альбедо"))
	require.NoError(t, store.SaveRoleMessage(ctx, database.CategoryHSR, -1, 20, "Зеле"))

	editor := newRecordingEditor()
	ok, err := store.AssignRole(ctx, "Альбедо", 1300, editor)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = store.AssignRole(ctx, "Зеле", 1300, editor)
	require.NoError(t, err)
	require.True(t, ok)

	released, err := store.ReleaseRolesByUser(ctx, 1300, editor)
	require.NoError(t, err)
	assert.Equal(t, 2, released)

	genshin, _ := editor.text(10)
	assert.Equal(t, "Альбедо", genshin)
	hsr, _ := editor.text(20)
	assert.Equal(t, "Зеле", hsr)

	names, err := store.GetRolesByUser(ctx, 1300)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestReleaseRolesByUserWithNoRoles(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	released, err := store.ReleaseRolesByUser(context.Background(), 999999, newRecordingEditor())
	require.NoError(t, err)
	assert.Zero(t, released)
}

func TestSaveRoleMessageReplacesPrevious(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoleMessage(ctx, database.CategoryGenshin, -1, 1, "first"))
	require.NoError(t, store.SaveRoleMessage(ctx, database.CategoryGenshin, -2, 2, "second"))

	require.NoError(t, store.SeedRoles(ctx, []database.RoleSeed{
		{Name: "Альбедо", Region: database.RegionMondstadt},
	}))

	editor := newRecordingEditor()
	ok, err := store.SyncRoleBoard(ctx, database.CategoryGenshin, editor)
	require.NoError(t, err)
	assert.True(t, ok)

	// Only the latest record exists; message 1 must never be edited.
	_, stale := editor.text(1)
	assert.False(t, stale)
}

func TestTopicClaims(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	claim := &database.TopicClaim{Kind: "anketa", TopicID: 55, UserID: 1400, RoleName: "Альбедо"}
	require.NoError(t, store.SaveTopicClaim(ctx, claim))

	got, err := store.GetTopicClaim(ctx, "anketa", 55)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1400), got.UserID)
	assert.Equal(t, "Альбедо", got.RoleName)
	assert.False(t, got.CreatedAt.IsZero())

	// Saving again for the same topic replaces the claim.
	require.NoError(t, store.SaveTopicClaim(ctx, &database.TopicClaim{
		Kind: "anketa", TopicID: 55, UserID: 1401, RoleName: "Венти",
	}))
	got, err = store.GetTopicClaim(ctx, "anketa", 55)
	require.NoError(t, err)
	assert.Equal(t, int64(1401), got.UserID)

	require.NoError(t, store.DeleteTopicClaim(ctx, "anketa", 55))
	got, err = store.GetTopicClaim(ctx, "anketa", 55)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	require.NoError(t, store.RunSQLMaintenance(context.Background()))
}

func TestRegionCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, database.CategoryGenshin, database.RegionFontaine.Category())
	assert.Equal(t, database.CategoryHSR, database.RegionHSRPenacony.Category())
	assert.Equal(t, database.CategoryGenshin, database.Region("неизвестно").Category())
}
