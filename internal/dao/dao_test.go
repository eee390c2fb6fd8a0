package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDao(t *testing.T, options ...Option) *Dao {
	t.Helper()
	db, err := NewDBEngine(DatabaseConfig{
		Type:        "sqlite",
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	return New(db, options...)
}

func TestNoteCreateAndGet(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{
		UID:     1,
		Title:   "grocery",
		Content: "milk eggs bread",
		Type:    domain.NoteTypeText,
		Color:   domain.ColorYellow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.SyncStatusPending, created.SyncStatus)
	assert.False(t, created.UpdatedAt.IsZero())

	got, err := d.NoteGet(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "grocery", got.Title)
	assert.Equal(t, "milk eggs bread", got.Content)
	assert.Equal(t, domain.NoteTypeText, got.Type)
}

func TestNoteGetNotFound(t *testing.T) {
	d := testDao(t)

	_, err := d.NoteGet(context.Background(), "missing", 1)
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
}

func TestNoteGetWrongOwner(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "mine", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	_, err = d.NoteGet(ctx, created.ID, 2)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
}

func TestNotePatchAdvancesUpdatedAt(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "draft", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	title := "final"
	patched, err := d.NotePatch(ctx, created.ID, 1, domain.NotePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "final", patched.Title)
	assert.True(t, patched.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, domain.SyncStatusPending, patched.SyncStatus)
}

func TestNotePatchKeepsUnsetFields(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{
		UID: 1, Title: "keep", Content: "original", Type: domain.NoteTypeText, Color: domain.ColorGreen,
	})
	require.NoError(t, err)

	pinned := true
	patched, err := d.NotePatch(ctx, created.ID, 1, domain.NotePatch{Pinned: &pinned})
	require.NoError(t, err)
	assert.True(t, patched.Pinned)
	assert.Equal(t, "keep", patched.Title)
	assert.Equal(t, "original", patched.Content)
	assert.Equal(t, domain.ColorGreen, patched.Color)
}

func TestNoteContentLengthLimit(t *testing.T) {
	d := testDao(t, WithMaxContentLength(8))
	ctx := context.Background()

	_, err := d.NoteCreate(ctx, &domain.Note{
		UID: 1, Title: "big", Content: "this is way too long", Type: domain.NoteTypeText, Color: domain.ColorDefault,
	})
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorValidation))

	created, err := d.NoteCreate(ctx, &domain.Note{
		UID: 1, Title: "ok", Content: "short", Type: domain.NoteTypeText, Color: domain.ColorDefault,
	})
	require.NoError(t, err)

	long := "also far too long for the limit"
	_, err = d.NotePatch(ctx, created.ID, 1, domain.NotePatch{Content: &long})
	assert.True(t, xerrors.IsCode(err, code.ErrorValidation))
}

func TestNoteSoftDeleteAndRestore(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "trash me", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	deleted, err := d.NoteSoftDelete(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	require.NotNil(t, deleted.DeletedAt)

	notes, err := d.NoteList(ctx, 1, domain.NoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, notes)

	notes, err = d.NoteList(ctx, 1, domain.NoteFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	restored, err := d.NoteRestore(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)

	got, err := d.NoteGet(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.False(t, got.Deleted)
	assert.Nil(t, got.DeletedAt)
}

func TestNoteHardDeleteCascades(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	note, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "linked", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	label, err := d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "work"})
	require.NoError(t, err)
	_, err = d.NoteLabelAttach(ctx, note.ID, label.ID)
	require.NoError(t, err)

	require.NoError(t, d.NoteHardDelete(ctx, note.ID, 1))

	_, err = d.NoteGet(ctx, note.ID, 1)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))

	links, err := d.NoteLabelListByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestNoteListOrdering(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	old, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "old", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	pinnedNote, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "pinned", Pinned: true, Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	fresh, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "fresh", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	notes, err := d.NoteList(ctx, 1, domain.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, pinnedNote.ID, notes[0].ID)
	assert.Equal(t, fresh.ID, notes[1].ID)
	assert.Equal(t, old.ID, notes[2].ID)
}

func TestNoteListFilters(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	archived := true
	_, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "active note", Content: "search target", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	_, err = d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "archived note", Archived: true, Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	notes, err := d.NoteList(ctx, 1, domain.NoteFilter{Archived: &archived})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "archived note", notes[0].Title)

	notes, err = d.NoteList(ctx, 1, domain.NoteFilter{Keyword: "target"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "active note", notes[0].Title)
}

func TestNoteListByLabel(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	tagged, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "tagged", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	_, err = d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "plain", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	label, err := d.LabelCreate(ctx, &domain.Label{UID: 1, Name: "ideas"})
	require.NoError(t, err)
	_, err = d.NoteLabelAttach(ctx, tagged.ID, label.ID)
	require.NoError(t, err)

	notes, err := d.NoteList(ctx, 1, domain.NoteFilter{LabelID: label.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, tagged.ID, notes[0].ID)
}

func TestNoteMetadataRoundTrip(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{
		UID:   1,
		Title: "todo",
		Type:  domain.NoteTypeList,
		Color: domain.ColorDefault,
		Metadata: domain.NoteMetadata{
			Checklist: &domain.ChecklistPayload{
				Items: []domain.ChecklistItem{
					{Text: "pack bags", Checked: true},
					{Text: "book taxi"},
				},
			},
		},
	})
	require.NoError(t, err)

	got, err := d.NoteGet(ctx, created.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got.Metadata.Checklist)
	require.Len(t, got.Metadata.Checklist.Items, 2)
	assert.True(t, got.Metadata.Checklist.Items[0].Checked)
	assert.Equal(t, "book taxi", got.Metadata.Checklist.Items[1].Text)
}

func TestNoteContentCipherRoundTrip(t *testing.T) {
	cipher := util.NewContentCipher("local-test-key")
	d := testDao(t, WithContentCipher(cipher))
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{
		UID: 1, Title: "secret", Content: "the vault code is 4711", Type: domain.NoteTypeText, Color: domain.ColorDefault,
	})
	require.NoError(t, err)

	got, err := d.NoteGet(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "the vault code is 4711", got.Content)

	// 密文内容也要能按关键字查到
	notes, err := d.NoteList(ctx, 1, domain.NoteFilter{Keyword: "vault"})
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestNoteMarkSyncedKeepsUpdatedAt(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	created, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "pending", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	before, err := d.NoteGet(ctx, created.ID, 1)
	require.NoError(t, err)

	require.NoError(t, d.NoteMarkSynced(ctx, created.ID, 1))

	got, err := d.NoteGet(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, got.SyncStatus)
	assert.True(t, got.UpdatedAt.Equal(before.UpdatedAt))
}

func TestNotePurgeDeletedBefore(t *testing.T) {
	d := testDao(t)
	ctx := context.Background()

	stale, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "stale", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	_, err = d.NoteSoftDelete(ctx, stale.ID, 1)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)

	// 窗口内的墓碑和未删除的记录都要留下
	young, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "young tombstone", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	_, err = d.NoteSoftDelete(ctx, young.ID, 1)
	require.NoError(t, err)
	keep, err := d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "keep", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)

	purged, err := d.NotePurgeDeletedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = d.NoteGet(ctx, stale.ID, 1)
	assert.True(t, xerrors.IsCode(err, code.ErrorNotFound))
	_, err = d.NoteGet(ctx, young.ID, 1)
	assert.NoError(t, err)
	_, err = d.NoteGet(ctx, keep.ID, 1)
	assert.NoError(t, err)
}
