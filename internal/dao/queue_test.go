package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendEntry(t *testing.T, d *Dao, table, recordID string, op domain.Operation, at time.Time) *domain.SyncQueueEntry {
	t.Helper()
	entry, err := d.SyncQueueAppend(context.Background(), &domain.SyncQueueEntry{
		TableName: table,
		RecordID:  recordID,
		Operation: op,
		Payload:   []byte(`{}`),
		CreatedAt: at,
	})
	require.NoError(t, err)
	return entry
}

func TestSyncQueueListAllOrder(t *testing.T) {
	d := testDao(t)
	base := time.Now().Add(-time.Minute)

	e1 := appendEntry(t, d, domain.TableNote, "n1", domain.OperationCreate, base)
	e2 := appendEntry(t, d, domain.TableNote, "n1", domain.OperationUpdate, base.Add(time.Second))
	e3 := appendEntry(t, d, domain.TableLabel, "l1", domain.OperationCreate, base.Add(2*time.Second))

	entries, err := d.SyncQueueListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, e1.ID, entries[0].ID)
	assert.Equal(t, e2.ID, entries[1].ID)
	assert.Equal(t, e3.ID, entries[2].ID)
}

func TestSyncQueueIncrRetries(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	entry := appendEntry(t, d, domain.TableNote, "n1", domain.OperationCreate, time.Now())
	assert.Equal(t, 0, entry.Retries)

	for want := 1; want <= 3; want++ {
		got, err := d.SyncQueueIncrRetries(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSyncQueueDelete(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	entry := appendEntry(t, d, domain.TableNote, "n1", domain.OperationCreate, time.Now())
	require.NoError(t, d.SyncQueueDelete(ctx, entry.ID))

	count, err := d.SyncQueueCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	err = d.SyncQueueDelete(ctx, entry.ID)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
}

func TestSyncQueueHasPendingFor(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	entry := appendEntry(t, d, domain.TableNote, "n1", domain.OperationUpdate, time.Now())

	has, err := d.SyncQueueHasPendingFor(ctx, domain.TableNote, "n1", 0)
	require.NoError(t, err)
	assert.True(t, has)

	// 条目自身被排除后不再算作待处理
	has, err = d.SyncQueueHasPendingFor(ctx, domain.TableNote, "n1", entry.ID)
	require.NoError(t, err)
	assert.False(t, has)

	later := appendEntry(t, d, domain.TableNote, "n1", domain.OperationDelete, time.Now())
	has, err = d.SyncQueueHasPendingFor(ctx, domain.TableNote, "n1", entry.ID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = d.SyncQueueHasPendingFor(ctx, domain.TableNote, "other", 0)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, d.SyncQueueDelete(ctx, entry.ID))
	require.NoError(t, d.SyncQueueDelete(ctx, later.ID))
	has, err = d.SyncQueueHasPendingFor(ctx, domain.TableNote, "n1", 0)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSyncQueueDeleteOlderThan(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	appendEntry(t, d, domain.TableNote, "stale", domain.OperationCreate, time.Now().Add(-48*time.Hour))
	fresh := appendEntry(t, d, domain.TableNote, "fresh", domain.OperationCreate, time.Now())

	removed, err := d.SyncQueueDeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	entries, err := d.SyncQueueListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fresh.ID, entries[0].ID)
}

func TestPreferenceUpsert(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	require.NoError(t, d.PreferenceUpsert(ctx, &domain.Preference{UID: 1, Key: "theme", Value: "dark"}))
	require.NoError(t, d.PreferenceUpsert(ctx, &domain.Preference{UID: 1, Key: "theme", Value: "light"}))

	got, err := d.PreferenceGet(ctx, 1, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got.Value)

	prefs, err := d.PreferenceList(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, prefs, 1)

	_, err = d.PreferenceGet(ctx, 1, "missing")
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
}

func TestCachePutGetPurge(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	require.NoError(t, d.CachePut(ctx, &domain.CachedResponse{
		QueryHash: "h1",
		Payload:   []byte(`{"hits":[]}`),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, d.CachePut(ctx, &domain.CachedResponse{
		QueryHash: "h2",
		Payload:   []byte(`{"hits":["a"]}`),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	got, err := d.CacheGet(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"hits":[]}`), got.Payload)

	purged, err := d.CachePurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = d.CacheGet(ctx, "h1")
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
	_, err = d.CacheGet(ctx, "h2")
	assert.NoError(t, err)
}

func TestLabelUniqueCaseInsensitive(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	_, err := d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "Work"})
	require.NoError(t, err)

	_, err = d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "work"})
	assert.True(t, xerrors.IsCode(err, code.ErrorValidation))

	// 不同用户下允许同名
	_, err = d.LabelCreate(ctx, &domain.Label{UID: 2, Name: "work"})
	assert.NoError(t, err)
}

func TestLabelRename(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	label, err := d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "old name"})
	require.NoError(t, err)
	_, err = d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "taken"})
	require.NoError(t, err)

	renamed, err := d.LabelRename(ctx, label.ID, 1, "new name")
	require.NoError(t, err)
	assert.Equal(t, "new name", renamed.Name)
	assert.Equal(t, domain.SyncStatusPending, renamed.SyncStatus)

	_, err = d.LabelRename(ctx, label.ID, 1, "TAKEN")
	assert.True(t, xerrors.IsCode(err, code.ErrorValidation))
}

func TestLabelDeleteCascades(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	note, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "n", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	label, err := d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "temp"})
	require.NoError(t, err)
	_, err = d.NoteLabelAttach(ctx, note.ID, label.ID)
	require.NoError(t, err)

	require.NoError(t, d.LabelDelete(ctx, label.ID, 1))

	links, err := d.NoteLabelListByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestNoteLabelAttachIdempotent(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	note, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "n", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	label, err := d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "dup"})
	require.NoError(t, err)

	first, err := d.NoteLabelAttach(ctx, note.ID, label.ID)
	require.NoError(t, err)
	second, err := d.NoteLabelAttach(ctx, note.ID, label.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	links, err := d.NoteLabelListByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestSnapshotExportImportRoundTrip(t *testing.T) {
	source := testDao(t)
	ctx := context.Background()

	note, err := source.NoteCreate(ctx, &domain.Note{UID: 7, Title: "exported", Content: "body", Type: domain.NoteTypeText, Color: domain.ColorBlue})
	require.NoError(t, err)
	label, err := source.LabelCreate(ctx, &domain.Label{UID: 7, Name: "travel"})
	require.NoError(t, err)
	_, err = source.NoteLabelAttach(ctx, note.ID, label.ID)
	require.NoError(t, err)
	require.NoError(t, source.PreferenceUpsert(ctx, &domain.Preference{UID: 7, Key: "lang", Value: "en"}))

	snapshot, err := source.SnapshotExport(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	assert.Len(t, snapshot.Notes, 1)
	assert.Len(t, snapshot.Labels, 1)
	assert.Len(t, snapshot.NoteLabels, 1)
	assert.Len(t, snapshot.Preferences, 1)

	target := testDao(t)
	require.NoError(t, target.SnapshotImport(ctx, 7, snapshot))

	got, err := target.NoteGet(ctx, note.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, "exported", got.Title)
	assert.Equal(t, "body", got.Content)

	labels, err := target.LabelList(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, labels, 1)

	pref, err := target.PreferenceGet(ctx, 7, "lang")
	require.NoError(t, err)
	assert.Equal(t, "en", pref.Value)
}
