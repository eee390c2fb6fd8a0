package sync

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/remote"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"

	"github.com/bytedance/sonic"
)

// Applier 把账本条目翻译成远端调用
// 远端返回的权威记录回写本地，本地记录随之翻为已同步
type Applier struct {
	store  remote.Store
	notes  domain.NoteRepository
	labels domain.LabelRepository
	links  domain.NoteLabelRepository
	queue  *Queue
}

// NewApplier 创建条目应用器
func NewApplier(store remote.Store, notes domain.NoteRepository, labels domain.LabelRepository, links domain.NoteLabelRepository, queue *Queue) *Applier {
	return &Applier{
		store:  store,
		notes:  notes,
		labels: labels,
		links:  links,
		queue:  queue,
	}
}

// Apply 把单个条目应用到远端
// 后写覆盖先写，应用前不读远端版本做比较
func (a *Applier) Apply(ctx context.Context, entry *domain.SyncQueueEntry) error {
	switch entry.TableName {
	case domain.TableNote:
		return a.applyNote(ctx, entry)
	case domain.TableLabel:
		return a.applyLabel(ctx, entry)
	case domain.TableNoteLabel:
		return a.applyNoteLabel(ctx, entry)
	}
	return xerrors.NewAppError(code.ErrorValidation,
		fmt.Errorf("unknown queue table %q", entry.TableName))
}

func (a *Applier) applyNote(ctx context.Context, entry *domain.SyncQueueEntry) error {
	switch entry.Operation {
	case domain.OperationCreate, domain.OperationUpdate:
		var note domain.Note
		if err := sonic.Unmarshal(entry.Payload, &note); err != nil {
			return xerrors.NewAppError(code.ErrorValidation, err)
		}
		var authoritative *domain.Note
		var err error
		if entry.Operation == domain.OperationCreate {
			authoritative, err = a.store.CreateNote(ctx, &note)
		} else {
			authoritative, err = a.store.UpdateNote(ctx, &note)
		}
		if err != nil {
			// 更新一条远端已不存在的记录时按创建重放
			if entry.Operation == domain.OperationUpdate && xerrors.IsCode(err, code.ErrorNotFound) {
				authoritative, err = a.store.CreateNote(ctx, &note)
			}
			if err != nil {
				return err
			}
		}
		return a.settleNote(ctx, entry, authoritative)

	case domain.OperationDelete:
		err := a.store.DeleteNote(ctx, entry.RecordID, entry.Permanent)
		if err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
			return err
		}
		return a.settleNote(ctx, entry, nil)
	}
	return xerrors.NewAppError(code.ErrorValidation,
		fmt.Errorf("unknown queue operation %q", entry.Operation))
}

// settleNote 应用成功后的本地收尾
// 同一记录还有后续条目时不翻状态，留给最后一条
func (a *Applier) settleNote(ctx context.Context, entry *domain.SyncQueueEntry, authoritative *domain.Note) error {
	pending, err := a.queue.HasPendingFor(ctx, entry.TableName, entry.RecordID, entry.ID)
	if err != nil {
		return err
	}
	if pending {
		return nil
	}
	if authoritative != nil {
		return a.notes.Mirror(ctx, authoritative)
	}
	if entry.Operation == domain.OperationDelete && !entry.Permanent {
		var note domain.Note
		if err := sonic.Unmarshal(entry.Payload, &note); err == nil && note.UID > 0 {
			if err := a.notes.MarkSynced(ctx, entry.RecordID, note.UID); err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
				return err
			}
		}
	}
	return nil
}

func (a *Applier) applyLabel(ctx context.Context, entry *domain.SyncQueueEntry) error {
	switch entry.Operation {
	case domain.OperationCreate, domain.OperationUpdate:
		var label domain.Label
		if err := sonic.Unmarshal(entry.Payload, &label); err != nil {
			return xerrors.NewAppError(code.ErrorValidation, err)
		}
		var authoritative *domain.Label
		var err error
		if entry.Operation == domain.OperationCreate {
			authoritative, err = a.store.CreateLabel(ctx, &label)
		} else {
			authoritative, err = a.store.UpdateLabel(ctx, &label)
			if err != nil && xerrors.IsCode(err, code.ErrorNotFound) {
				authoritative, err = a.store.CreateLabel(ctx, &label)
			}
		}
		if err != nil {
			return err
		}
		pending, err := a.queue.HasPendingFor(ctx, entry.TableName, entry.RecordID, entry.ID)
		if err != nil {
			return err
		}
		if pending {
			return nil
		}
		return a.labels.Mirror(ctx, authoritative)

	case domain.OperationDelete:
		err := a.store.DeleteLabel(ctx, entry.RecordID)
		if err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
			return err
		}
		return nil
	}
	return xerrors.NewAppError(code.ErrorValidation,
		fmt.Errorf("unknown queue operation %q", entry.Operation))
}

func (a *Applier) applyNoteLabel(ctx context.Context, entry *domain.SyncQueueEntry) error {
	switch entry.Operation {
	case domain.OperationCreate:
		var link domain.NoteLabel
		if err := sonic.Unmarshal(entry.Payload, &link); err != nil {
			return xerrors.NewAppError(code.ErrorValidation, err)
		}
		authoritative, err := a.store.AttachLabel(ctx, &link)
		if err != nil {
			return err
		}
		pending, err := a.queue.HasPendingFor(ctx, entry.TableName, entry.RecordID, entry.ID)
		if err != nil {
			return err
		}
		if pending {
			return nil
		}
		return a.links.Mirror(ctx, authoritative)

	case domain.OperationDelete:
		var link domain.NoteLabel
		if err := sonic.Unmarshal(entry.Payload, &link); err != nil {
			return xerrors.NewAppError(code.ErrorValidation, err)
		}
		err := a.store.DetachLabel(ctx, link.NoteID, link.LabelID)
		if err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
			return err
		}
		return nil
	}
	return xerrors.NewAppError(code.ErrorValidation,
		fmt.Errorf("unknown queue operation %q", entry.Operation))
}
