package task

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"
	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDao(t *testing.T) *dao.Dao {
	t.Helper()
	db, err := dao.NewDBEngine(dao.DatabaseConfig{
		Type:        "sqlite",
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	return dao.New(db)
}

func TestNoteRetentionTaskDisabledWithoutWindow(t *testing.T) {
	assert.Nil(t, NewNoteRetentionTask(testDao(t), Config{}, zap.NewNop()))
}

func TestNoteRetentionTaskPurgesExpiredTombstones(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	stale, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "stale", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	_, err = d.NoteSoftDelete(ctx, stale.ID, 1)
	require.NoError(t, err)
	live, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "live", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	tk := NewNoteRetentionTask(d, Config{SoftDeleteRetention: time.Millisecond}, zap.NewNop())
	require.NotNil(t, tk)
	assert.Equal(t, "NoteRetentionTask", tk.Name())
	assert.True(t, tk.IsStartupRun())
	require.NoError(t, tk.Run(ctx))

	_, err = d.NoteGet(ctx, stale.ID, 1)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
	_, err = d.NoteGet(ctx, live.ID, 1)
	assert.NoError(t, err)
}

func TestCachePurgeTaskSweepsExpired(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	require.NoError(t, d.CachePut(ctx, &domain.CachedResponse{
		QueryHash: "expired",
		Payload:   []byte(`[]`),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, d.CachePut(ctx, &domain.CachedResponse{
		QueryHash: "fresh",
		Payload:   []byte(`[]`),
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	tk := NewCachePurgeTask(d, Config{CachePurgeInterval: time.Minute}, zap.NewNop())
	require.NotNil(t, tk)
	require.NoError(t, tk.Run(ctx))

	_, err := d.CacheGet(ctx, "expired")
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
	_, err = d.CacheGet(ctx, "fresh")
	assert.NoError(t, err)
}

func TestQueueCleanupTaskDropsStaleEntries(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	_, err := d.SyncQueueAppend(ctx, &domain.SyncQueueEntry{
		TableName: domain.TableNote,
		RecordID:  "orphan",
		Operation: domain.OperationCreate,
		Payload:   []byte(`{}`),
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	tk := NewQueueCleanupTask(d, Config{QueueRetention: time.Millisecond}, zap.NewNop())
	require.NotNil(t, tk)
	require.NoError(t, tk.Run(ctx))

	count, err := d.SyncQueueCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
