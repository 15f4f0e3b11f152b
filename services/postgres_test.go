package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestStore backs the store with an in-memory sqlite database; the
// store methods only use portable gorm clauses.
func openTestStore(t *testing.T) *PostgresService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	svc := &PostgresService{db: db}
	require.NoError(t, svc.migrate())
	return svc
}

func TestUpsertFilterIdempotentOnTrigger(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.UpsertFilter("hello", "first reply"))
	require.NoError(t, store.UpsertFilter("hello", "second reply"))

	filters, err := store.ListFilters()
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "hello", filters[0].Trigger)
	assert.Equal(t, "second reply", filters[0].Reply)
}

func TestDeleteFilter(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.UpsertFilter("hello", "hi"))
	require.NoError(t, store.UpsertFilter("bye", "see you"))
	require.NoError(t, store.DeleteFilter("hello"))

	filters, err := store.ListFilters()
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "bye", filters[0].Trigger)

	// deleting an absent trigger is not an error
	assert.NoError(t, store.DeleteFilter("hello"))
}

func TestAddStickerIfAbsentIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.AddStickerIfAbsent(7, "sticker-a"))
	require.NoError(t, store.AddStickerIfAbsent(7, "sticker-a"))
	require.NoError(t, store.AddStickerIfAbsent(7, "sticker-b"))
	require.NoError(t, store.AddStickerIfAbsent(8, "sticker-a"))

	mine, err := store.ListStickers(7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sticker-a", "sticker-b"}, mine)

	theirs, err := store.ListStickers(8)
	require.NoError(t, err)
	assert.Equal(t, []string{"sticker-a"}, theirs)
}

func TestListRecentLogsNewestFirstCapped(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 12; i++ {
		require.NoError(t, store.AppendLog(100, fmt.Sprintf("action %d", i)))
	}

	entries, err := store.ListRecentLogs(10)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	// newest first: the last insert leads
	assert.Equal(t, "action 11", entries[0].Action)
	assert.Equal(t, "action 2", entries[9].Action)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}

func TestAppendLogAssignsUTCTimestamp(t *testing.T) {
	store := openTestStore(t)

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, store.AppendLog(5, "did a thing"))

	entries, err := store.ListRecentLogs(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5), entries[0].UserID)
	assert.True(t, entries[0].Timestamp.After(before))
}
