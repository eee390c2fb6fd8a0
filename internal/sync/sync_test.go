package sync

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"
	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/remote"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore 记录调用顺序并按设定失败的远端桩
type fakeStore struct {
	mu       sync.Mutex
	calls    []string
	failWith error
	// failFor 只让指定记录失败
	failFor map[string]error
	onCall  func(call string)
}

func (s *fakeStore) record(call string, recordID string) error {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	onCall := s.onCall
	err := s.failWith
	if err == nil && s.failFor != nil {
		err = s.failFor[recordID]
	}
	s.mu.Unlock()
	if onCall != nil {
		onCall(call)
	}
	return err
}

func (s *fakeStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *fakeStore) Heartbeat(ctx context.Context) error { return nil }

func (s *fakeStore) CreateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if err := s.record("note.create:"+note.ID, note.ID); err != nil {
		return nil, err
	}
	authoritative := *note
	authoritative.SyncStatus = domain.SyncStatusSynced
	return &authoritative, nil
}

func (s *fakeStore) UpdateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if err := s.record("note.update:"+note.ID, note.ID); err != nil {
		return nil, err
	}
	authoritative := *note
	authoritative.SyncStatus = domain.SyncStatusSynced
	return &authoritative, nil
}

func (s *fakeStore) DeleteNote(ctx context.Context, id string, permanent bool) error {
	return s.record(fmt.Sprintf("note.delete:%s:%t", id, permanent), id)
}

func (s *fakeStore) RestoreNote(ctx context.Context, id string) (*domain.Note, error) {
	if err := s.record("note.restore:"+id, id); err != nil {
		return nil, err
	}
	return &domain.Note{ID: id}, nil
}

func (s *fakeStore) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	if err := s.record("note.get:"+id, id); err != nil {
		return nil, err
	}
	return &domain.Note{ID: id}, nil
}

func (s *fakeStore) ListNotes(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	if err := s.record("note.list", ""); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) SearchNotes(ctx context.Context, keyword string) ([]*domain.Note, error) {
	if err := s.record("note.search:"+keyword, ""); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) CreateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	if err := s.record("label.create:"+label.ID, label.ID); err != nil {
		return nil, err
	}
	authoritative := *label
	authoritative.SyncStatus = domain.SyncStatusSynced
	return &authoritative, nil
}

func (s *fakeStore) UpdateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error) {
	if err := s.record("label.update:"+label.ID, label.ID); err != nil {
		return nil, err
	}
	authoritative := *label
	return &authoritative, nil
}

func (s *fakeStore) DeleteLabel(ctx context.Context, id string) error {
	return s.record("label.delete:"+id, id)
}

func (s *fakeStore) ListLabels(ctx context.Context) ([]*domain.Label, error) {
	if err := s.record("label.list", ""); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *fakeStore) AttachLabel(ctx context.Context, link *domain.NoteLabel) (*domain.NoteLabel, error) {
	if err := s.record("link.attach:"+link.NoteID+":"+link.LabelID, link.ID); err != nil {
		return nil, err
	}
	out := *link
	return &out, nil
}

func (s *fakeStore) DetachLabel(ctx context.Context, noteID, labelID string) error {
	return s.record("link.detach:"+noteID+":"+labelID, "")
}

func (s *fakeStore) ListNoteLabels(ctx context.Context, noteID string) ([]*domain.NoteLabel, error) {
	if err := s.record("link.list:"+noteID, noteID); err != nil {
		return nil, err
	}
	return nil, nil
}

// alwaysOnlineMonitor 恒定在线的监视器
func alwaysOnlineMonitor(t *testing.T) *remote.Monitor {
	t.Helper()
	m := remote.NewMonitor(&fakeStore{}, remote.MonitorConfig{
		Interval:         time.Minute,
		FailureThreshold: 1,
	}, zap.NewNop())
	m.Probe(context.Background())
	require.True(t, m.IsOnline())
	return m
}

type harness struct {
	d            *dao.Dao
	store        *fakeStore
	queue        *Queue
	orchestrator *Orchestrator
}

func newHarness(t *testing.T, c Config) *harness {
	t.Helper()
	db, err := dao.NewDBEngine(dao.DatabaseConfig{
		Type:        "sqlite",
		Path:        ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	d := dao.New(db)

	store := &fakeStore{}
	queue := NewQueue(d.SyncQueueRepo(), zap.NewNop())
	applier := NewApplier(store, d.NoteRepo(), d.LabelRepo(), d.NoteLabelRepo(), queue)
	orchestrator := NewOrchestrator(queue, applier, alwaysOnlineMonitor(t), c, zap.NewNop())
	return &harness{d: d, store: store, queue: queue, orchestrator: orchestrator}
}

func (h *harness) enqueueNote(t *testing.T, note *domain.Note, op domain.Operation) {
	t.Helper()
	require.NoError(t, h.queue.Enqueue(context.Background(), domain.TableNote, note.ID, op, false, note))
}

func TestDrainAppliesInCreationOrder(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "v1", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, note, domain.OperationCreate)

	note.Title = "v2"
	h.enqueueNote(t, note, domain.OperationUpdate)

	result, err := h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, []string{"note.create:" + note.ID, "note.update:" + note.ID}, h.store.callLog())

	pending, err := h.queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}

func TestDrainMarksRecordSynced(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "pending", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, note, domain.OperationCreate)

	_, err = h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)

	got, err := h.d.NoteGet(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, got.SyncStatus)
}

func TestFailedEntryStaysQueued(t *testing.T) {
	h := newHarness(t, Config{RetryCap: 3})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "flaky", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, note, domain.OperationCreate)

	h.store.failWith = xerrors.NewAppError(code.ErrorRemoteUnavailable, fmt.Errorf("boom"))
	result, err := h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Dropped)

	entries, err := h.queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Retries)

	got, err := h.d.NoteGet(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusPending, got.SyncStatus)
}

func TestRetryCapDropsEntryWithoutFourthAttempt(t *testing.T) {
	h := newHarness(t, Config{RetryCap: 3})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "doomed", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, note, domain.OperationCreate)
	h.store.failWith = xerrors.NewAppError(code.ErrorRemoteUnavailable, fmt.Errorf("down"))

	var exhausted []*domain.SyncQueueEntry
	var exhaustedErrs []error
	h.orchestrator.OnExhausted(func(entry *domain.SyncQueueEntry, err error) {
		exhausted = append(exhausted, entry)
		exhaustedErrs = append(exhaustedErrs, err)
	})

	for i := 0; i < 3; i++ {
		_, err := h.orchestrator.Drain(ctx, TriggerManual)
		require.NoError(t, err)
	}

	// 第三次失败后条目被丢弃
	pending, err := h.queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
	require.Len(t, exhausted, 1)
	assert.Equal(t, note.ID, exhausted[0].RecordID)
	assert.True(t, xerrors.IsCode(exhaustedErrs[0], code.ErrorQueueExhausted))

	// 第四次同步不再尝试该条目
	attempts := len(h.store.callLog())
	result, err := h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, attempts, len(h.store.callLog()))
	assert.Equal(t, 3, attempts)
}

func TestFailureDoesNotBlockLaterEntries(t *testing.T) {
	h := newHarness(t, Config{RetryCap: 3})
	ctx := context.Background()

	bad, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "bad", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	good, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "good", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, bad, domain.OperationCreate)
	h.enqueueNote(t, good, domain.OperationCreate)

	h.store.failFor = map[string]error{
		bad.ID: xerrors.NewAppError(code.ErrorRemoteUnavailable, fmt.Errorf("reject")),
	}

	result, err := h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Failed)

	got, err := h.d.NoteGet(ctx, good.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, got.SyncStatus)
}

func TestDrainRejectedWhileRunning(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "slow", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, note, domain.OperationCreate)

	started := make(chan struct{})
	release := make(chan struct{})
	h.store.onCall = func(string) {
		close(started)
		<-release
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := h.orchestrator.Drain(ctx, TriggerManual)
		assert.NoError(t, err)
	}()

	<-started
	_, err = h.orchestrator.Drain(ctx, TriggerPeriodic)
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorSyncRunning))

	close(release)
	wg.Wait()
}

func TestDrainRejectedWhileOffline(t *testing.T) {
	h := newHarness(t, Config{})
	offline := remote.NewMonitor(&fakeStore{}, remote.MonitorConfig{}, zap.NewNop())
	h.orchestrator.monitor = offline

	_, err := h.orchestrator.Drain(context.Background(), TriggerManual)
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, code.ErrorRemoteUnavailable))
}

func TestStopBetweenEntries(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: fmt.Sprintf("n%d", i), Type: domain.NoteTypeText, Color: domain.ColorDefault})
		require.NoError(t, err)
		h.enqueueNote(t, note, domain.OperationCreate)
	}

	h.store.onCall = func(string) {
		h.orchestrator.RequestStop()
	}

	result, err := h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	assert.True(t, result.Stopped)
	assert.Equal(t, 1, result.Applied)

	pending, err := h.queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
}

func TestProgressReported(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: fmt.Sprintf("p%d", i), Type: domain.NoteTypeText, Color: domain.ColorDefault})
		require.NoError(t, err)
		h.enqueueNote(t, note, domain.OperationCreate)
	}

	var seen []Progress
	h.orchestrator.OnProgress(func(p Progress) {
		seen = append(seen, p)
	})

	_, err := h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, Progress{Current: 0, Total: 2}, seen[0])
	assert.Equal(t, Progress{Current: 1, Total: 2}, seen[1])
	assert.Equal(t, Progress{Current: 2, Total: 2}, seen[2])
}

// upsertStore 按 ID 去重的远端桩，用来观察重复重放
type upsertStore struct {
	*fakeStore
	notesMu sync.Mutex
	notes   map[string]*domain.Note
}

func newUpsertStore() *upsertStore {
	return &upsertStore{fakeStore: &fakeStore{}, notes: map[string]*domain.Note{}}
}

func (s *upsertStore) put(note *domain.Note) *domain.Note {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()
	stored := *note
	stored.SyncStatus = domain.SyncStatusSynced
	s.notes[note.ID] = &stored
	out := stored
	return &out
}

func (s *upsertStore) CreateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if err := s.record("note.create:"+note.ID, note.ID); err != nil {
		return nil, err
	}
	return s.put(note), nil
}

func (s *upsertStore) UpdateNote(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if err := s.record("note.update:"+note.ID, note.ID); err != nil {
		return nil, err
	}
	s.notesMu.Lock()
	_, exists := s.notes[note.ID]
	s.notesMu.Unlock()
	if !exists {
		return nil, xerrors.NewAppError(code.ErrorNotFound, fmt.Errorf("no such note"))
	}
	return s.put(note), nil
}

func (s *upsertStore) DeleteNote(ctx context.Context, id string, permanent bool) error {
	if err := s.record(fmt.Sprintf("note.delete:%s:%t", id, permanent), id); err != nil {
		return err
	}
	s.notesMu.Lock()
	defer s.notesMu.Unlock()
	if _, exists := s.notes[id]; !exists {
		return xerrors.NewAppError(code.ErrorNotFound, fmt.Errorf("no such note"))
	}
	if permanent {
		delete(s.notes, id)
	}
	return nil
}

func (s *upsertStore) count() int {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()
	return len(s.notes)
}

// 模拟应用成功后、出账前崩溃：同一条目重放两次

func TestReplaySameCreateEntryTwice(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "once", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	h.enqueueNote(t, note, domain.OperationCreate)

	store := newUpsertStore()
	applier := NewApplier(store, h.d.NoteRepo(), h.d.LabelRepo(), h.d.NoteLabelRepo(), h.queue)

	entries, err := h.queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, applier.Apply(ctx, entries[0]))
	require.NoError(t, applier.Apply(ctx, entries[0]))

	assert.Equal(t, 1, store.count())

	got, err := h.d.NoteGet(ctx, note.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusSynced, got.SyncStatus)
}

func TestReplaySameDeleteEntryTwice(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "twice gone", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	require.NoError(t, h.queue.Enqueue(ctx, domain.TableNote, note.ID, domain.OperationDelete, true, note))

	store := newUpsertStore()
	store.put(note)
	applier := NewApplier(store, h.d.NoteRepo(), h.d.LabelRepo(), h.d.NoteLabelRepo(), h.queue)

	entries, err := h.queue.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, applier.Apply(ctx, entries[0]))
	// 第二次远端已无记录，按幂等成功处理
	require.NoError(t, applier.Apply(ctx, entries[0]))
	assert.Equal(t, 0, store.count())
}

func TestDeleteEntryAppliesPermanentFlag(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	note, err := h.d.NoteCreate(ctx, &domain.Note{UID: 1, Title: "gone", Type: domain.NoteTypeText, Color: domain.ColorDefault})
	require.NoError(t, err)
	require.NoError(t, h.queue.Enqueue(ctx, domain.TableNote, note.ID, domain.OperationDelete, true, note))

	_, err = h.orchestrator.Drain(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, []string{fmt.Sprintf("note.delete:%s:true", note.ID)}, h.store.callLog())
}
