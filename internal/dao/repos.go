package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
)

// 仓储接口的薄适配层，上层依赖 domain 接口而非 Dao 具体类型

type noteRepo struct{ d *Dao }

// NoteRepo 返回笔记仓储
func (d *Dao) NoteRepo() domain.NoteRepository { return &noteRepo{d} }

func (r *noteRepo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	return r.d.NoteCreate(ctx, note)
}
func (r *noteRepo) Patch(ctx context.Context, id string, uid int64, patch domain.NotePatch) (*domain.Note, error) {
	return r.d.NotePatch(ctx, id, uid, patch)
}
func (r *noteRepo) Get(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	return r.d.NoteGet(ctx, id, uid)
}
func (r *noteRepo) List(ctx context.Context, uid int64, filter domain.NoteFilter) ([]*domain.Note, error) {
	return r.d.NoteList(ctx, uid, filter)
}
func (r *noteRepo) SoftDelete(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	return r.d.NoteSoftDelete(ctx, id, uid)
}
func (r *noteRepo) Restore(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	return r.d.NoteRestore(ctx, id, uid)
}
func (r *noteRepo) HardDelete(ctx context.Context, id string, uid int64) error {
	return r.d.NoteHardDelete(ctx, id, uid)
}
func (r *noteRepo) MarkSynced(ctx context.Context, id string, uid int64) error {
	return r.d.NoteMarkSynced(ctx, id, uid)
}
func (r *noteRepo) Mirror(ctx context.Context, note *domain.Note) error {
	return r.d.NoteMirror(ctx, note)
}
func (r *noteRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.d.NotePurgeDeletedBefore(ctx, cutoff)
}

type labelRepo struct{ d *Dao }

// LabelRepo 返回标签仓储
func (d *Dao) LabelRepo() domain.LabelRepository { return &labelRepo{d} }

func (r *labelRepo) Create(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	return r.d.LabelCreate(ctx, label)
}
func (r *labelRepo) Rename(ctx context.Context, id string, uid int64, name string) (*domain.Label, error) {
	return r.d.LabelRename(ctx, id, uid, name)
}
func (r *labelRepo) Get(ctx context.Context, id string, uid int64) (*domain.Label, error) {
	return r.d.LabelGet(ctx, id, uid)
}
func (r *labelRepo) GetByName(ctx context.Context, name string, uid int64) (*domain.Label, error) {
	return r.d.LabelGetByName(ctx, name, uid)
}
func (r *labelRepo) List(ctx context.Context, uid int64) ([]*domain.Label, error) {
	return r.d.LabelList(ctx, uid)
}
func (r *labelRepo) Delete(ctx context.Context, id string, uid int64) error {
	return r.d.LabelDelete(ctx, id, uid)
}
func (r *labelRepo) MarkSynced(ctx context.Context, id string, uid int64) error {
	return r.d.LabelMarkSynced(ctx, id, uid)
}
func (r *labelRepo) Mirror(ctx context.Context, label *domain.Label) error {
	return r.d.LabelMirror(ctx, label)
}

type noteLabelRepo struct{ d *Dao }

// NoteLabelRepo 返回笔记标签关联仓储
func (d *Dao) NoteLabelRepo() domain.NoteLabelRepository { return &noteLabelRepo{d} }

func (r *noteLabelRepo) Attach(ctx context.Context, noteID, labelID string) (*domain.NoteLabel, error) {
	return r.d.NoteLabelAttach(ctx, noteID, labelID)
}
func (r *noteLabelRepo) Detach(ctx context.Context, noteID, labelID string) error {
	return r.d.NoteLabelDetach(ctx, noteID, labelID)
}
func (r *noteLabelRepo) Get(ctx context.Context, id string) (*domain.NoteLabel, error) {
	return r.d.NoteLabelGet(ctx, id)
}
func (r *noteLabelRepo) ListByNote(ctx context.Context, noteID string) ([]*domain.NoteLabel, error) {
	return r.d.NoteLabelListByNote(ctx, noteID)
}
func (r *noteLabelRepo) ListByLabel(ctx context.Context, labelID string) ([]*domain.NoteLabel, error) {
	return r.d.NoteLabelListByLabel(ctx, labelID)
}
func (r *noteLabelRepo) Mirror(ctx context.Context, link *domain.NoteLabel) error {
	return r.d.NoteLabelMirror(ctx, link)
}

type syncQueueRepo struct{ d *Dao }

// SyncQueueRepo 返回同步队列仓储
func (d *Dao) SyncQueueRepo() domain.SyncQueueRepository { return &syncQueueRepo{d} }

func (r *syncQueueRepo) Append(ctx context.Context, entry *domain.SyncQueueEntry) (*domain.SyncQueueEntry, error) {
	return r.d.SyncQueueAppend(ctx, entry)
}
func (r *syncQueueRepo) ListAll(ctx context.Context) ([]*domain.SyncQueueEntry, error) {
	return r.d.SyncQueueListAll(ctx)
}
func (r *syncQueueRepo) Delete(ctx context.Context, id int64) error {
	return r.d.SyncQueueDelete(ctx, id)
}
func (r *syncQueueRepo) IncrRetries(ctx context.Context, id int64) (int, error) {
	return r.d.SyncQueueIncrRetries(ctx, id)
}
func (r *syncQueueRepo) Count(ctx context.Context) (int64, error) {
	return r.d.SyncQueueCount(ctx)
}
func (r *syncQueueRepo) HasPendingFor(ctx context.Context, table, recordID string, excludeID int64) (bool, error) {
	return r.d.SyncQueueHasPendingFor(ctx, table, recordID, excludeID)
}
func (r *syncQueueRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.d.SyncQueueDeleteOlderThan(ctx, cutoff)
}

type preferenceRepo struct{ d *Dao }

// PreferenceRepo 返回偏好仓储
func (d *Dao) PreferenceRepo() domain.PreferenceRepository { return &preferenceRepo{d} }

func (r *preferenceRepo) Upsert(ctx context.Context, pref *domain.Preference) error {
	return r.d.PreferenceUpsert(ctx, pref)
}
func (r *preferenceRepo) Get(ctx context.Context, uid int64, key string) (*domain.Preference, error) {
	return r.d.PreferenceGet(ctx, uid, key)
}
func (r *preferenceRepo) List(ctx context.Context, uid int64) ([]*domain.Preference, error) {
	return r.d.PreferenceList(ctx, uid)
}

type cacheRepo struct{ d *Dao }

// CacheRepo 返回响应缓存仓储
func (d *Dao) CacheRepo() domain.CacheRepository { return &cacheRepo{d} }

func (r *cacheRepo) Put(ctx context.Context, entry *domain.CachedResponse) error {
	return r.d.CachePut(ctx, entry)
}
func (r *cacheRepo) Get(ctx context.Context, queryHash string) (*domain.CachedResponse, error) {
	return r.d.CacheGet(ctx, queryHash)
}
func (r *cacheRepo) Delete(ctx context.Context, queryHash string) error {
	return r.d.CacheDelete(ctx, queryHash)
}
func (r *cacheRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.d.CachePurgeExpired(ctx, now)
}

type snapshotRepo struct{ d *Dao }

// SnapshotRepo 返回快照仓储
func (d *Dao) SnapshotRepo() domain.SnapshotRepository { return &snapshotRepo{d} }

func (r *snapshotRepo) Export(ctx context.Context, uid int64) (*domain.Snapshot, error) {
	return r.d.SnapshotExport(ctx, uid)
}
func (r *snapshotRepo) Import(ctx context.Context, uid int64, snapshot *domain.Snapshot) error {
	return r.d.SnapshotImport(ctx, uid, snapshot)
}
