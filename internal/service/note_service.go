package service

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/logger"

	"go.uber.org/zap"
)

// NoteCreateParams 创建笔记入参
type NoteCreateParams struct {
	Title    string              `json:"title" form:"title"`
	Content  string              `json:"content" form:"content"`
	Type     string              `json:"type" form:"type" binding:"required"`
	Color    string              `json:"color" form:"color"`
	Pinned   bool                `json:"pinned" form:"pinned"`
	Archived bool                `json:"archived" form:"archived"`
	Metadata domain.NoteMetadata `json:"metadata" form:"metadata"`
}

// NoteUpdateParams 更新笔记入参，nil 字段不变更
type NoteUpdateParams struct {
	Title    *string              `json:"title" form:"title"`
	Content  *string              `json:"content" form:"content"`
	Type     *string              `json:"type" form:"type"`
	Color    *string              `json:"color" form:"color"`
	Pinned   *bool                `json:"pinned" form:"pinned"`
	Archived *bool                `json:"archived" form:"archived"`
	Metadata *domain.NoteMetadata `json:"metadata" form:"metadata"`
}

func (p *NoteCreateParams) toNote(uid int64) (*domain.Note, error) {
	noteType := domain.NoteType(p.Type)
	if !noteType.IsValid() {
		return nil, xerrors.NewAppError(code.ErrorValidation,
			fmt.Errorf("invalid note type %q", p.Type))
	}
	color := domain.NoteColor(p.Color)
	if p.Color == "" {
		color = domain.ColorDefault
	}
	if !color.IsValid() {
		return nil, xerrors.NewAppError(code.ErrorValidation,
			fmt.Errorf("invalid note color %q", p.Color))
	}
	return &domain.Note{
		UID:      uid,
		Title:    p.Title,
		Content:  p.Content,
		Type:     noteType,
		Color:    color,
		Pinned:   p.Pinned,
		Archived: p.Archived,
		Metadata: p.Metadata,
	}, nil
}

func (p *NoteUpdateParams) toPatch() (domain.NotePatch, error) {
	patch := domain.NotePatch{
		Title:    p.Title,
		Content:  p.Content,
		Pinned:   p.Pinned,
		Archived: p.Archived,
		Metadata: p.Metadata,
	}
	if p.Type != nil {
		noteType := domain.NoteType(*p.Type)
		if !noteType.IsValid() {
			return patch, xerrors.NewAppError(code.ErrorValidation,
				fmt.Errorf("invalid note type %q", *p.Type))
		}
		patch.Type = &noteType
	}
	if p.Color != nil {
		color := domain.NoteColor(*p.Color)
		if !color.IsValid() {
			return patch, xerrors.NewAppError(code.ErrorValidation,
				fmt.Errorf("invalid note color %q", *p.Color))
		}
		patch.Color = &color
	}
	return patch, nil
}

// NoteCreate 创建笔记
// 在线时远端先行，成功后镜像本地，不入账
// 离线时写本地并追加账本条目，远端对账由同步负责
func (s *Service) NoteCreate(ctx context.Context, params *NoteCreateParams) (*domain.Note, error) {
	note, err := params.toNote(s.UID())
	if err != nil {
		return nil, err
	}

	if s.Online() {
		authoritative, err := s.store.CreateNote(ctx, note)
		if err != nil {
			return nil, err
		}
		if err := s.d.NoteMirror(ctx, authoritative); err != nil {
			s.logger.Error("note mirror failed",
				zap.String(logger.FieldNoteID, authoritative.ID), zap.Error(err))
		}
		return authoritative, nil
	}

	created, err := s.d.NoteCreate(ctx, note)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, domain.TableNote, created.ID, domain.OperationCreate, false, created); err != nil {
		s.logger.Error("note change not queued",
			zap.String(logger.FieldNoteID, created.ID), zap.Error(err))
	}
	return created, nil
}

// NoteUpdate 更新笔记字段
// 在线时远端先行，本地在成功前不落任何变更
func (s *Service) NoteUpdate(ctx context.Context, id string, params *NoteUpdateParams) (*domain.Note, error) {
	patch, err := params.toPatch()
	if err != nil {
		return nil, err
	}

	if s.Online() {
		current, err := s.d.NoteGet(ctx, id, s.UID())
		if err != nil {
			return nil, err
		}
		merged := *current
		patch.ApplyTo(&merged)
		merged.UpdatedAt = time.Now()
		authoritative, err := s.store.UpdateNote(ctx, &merged)
		if err != nil {
			if xerrors.IsCode(err, code.ErrorNotFound) {
				authoritative, err = s.store.CreateNote(ctx, &merged)
			}
			if err != nil {
				return nil, err
			}
		}
		if err := s.d.NoteMirror(ctx, authoritative); err != nil {
			s.logger.Error("note mirror failed",
				zap.String(logger.FieldNoteID, authoritative.ID), zap.Error(err))
		}
		return authoritative, nil
	}

	updated, err := s.d.NotePatch(ctx, id, s.UID(), patch)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, domain.TableNote, updated.ID, domain.OperationUpdate, false, updated); err != nil {
		s.logger.Error("note change not queued",
			zap.String(logger.FieldNoteID, updated.ID), zap.Error(err))
	}
	return updated, nil
}

// NoteDelete 删除笔记，permanent 为真时物理删除
func (s *Service) NoteDelete(ctx context.Context, id string, permanent bool) error {
	uid := s.UID()

	if permanent {
		note, err := s.d.NoteGet(ctx, id, uid)
		if err != nil {
			return err
		}
		if s.Online() {
			if err := s.store.DeleteNote(ctx, id, true); err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
				return err
			}
			return s.d.NoteHardDelete(ctx, id, uid)
		}
		if err := s.d.NoteHardDelete(ctx, id, uid); err != nil {
			return err
		}
		if err := s.queue.Enqueue(ctx, domain.TableNote, id, domain.OperationDelete, true, note); err != nil {
			s.logger.Error("note change not queued",
				zap.String(logger.FieldNoteID, id), zap.Error(err))
		}
		return nil
	}

	if s.Online() {
		if _, err := s.d.NoteGet(ctx, id, uid); err != nil {
			return err
		}
		if err := s.store.DeleteNote(ctx, id, false); err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
			return err
		}
		if _, err := s.d.NoteSoftDelete(ctx, id, uid); err != nil {
			return err
		}
		if err := s.d.NoteMarkSynced(ctx, id, uid); err != nil {
			s.logger.Error("note status flip failed",
				zap.String(logger.FieldNoteID, id), zap.Error(err))
		}
		return nil
	}

	deleted, err := s.d.NoteSoftDelete(ctx, id, uid)
	if err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, domain.TableNote, id, domain.OperationDelete, false, deleted); err != nil {
		s.logger.Error("note change not queued",
			zap.String(logger.FieldNoteID, id), zap.Error(err))
	}
	return nil
}

// NoteRestore 把笔记移出回收站
// 在线时远端先行，本地在成功前不落任何变更
func (s *Service) NoteRestore(ctx context.Context, id string) (*domain.Note, error) {
	uid := s.UID()

	if s.Online() {
		current, err := s.d.NoteGet(ctx, id, uid)
		if err != nil {
			return nil, err
		}
		authoritative, err := s.store.RestoreNote(ctx, id)
		if err != nil {
			if xerrors.IsCode(err, code.ErrorNotFound) {
				resurrected := *current
				resurrected.Deleted = false
				resurrected.DeletedAt = nil
				resurrected.UpdatedAt = time.Now()
				authoritative, err = s.store.CreateNote(ctx, &resurrected)
			}
			if err != nil {
				return nil, err
			}
		}
		if err := s.d.NoteMirror(ctx, authoritative); err != nil {
			s.logger.Error("note mirror failed",
				zap.String(logger.FieldNoteID, id), zap.Error(err))
		}
		return authoritative, nil
	}

	restored, err := s.d.NoteRestore(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, domain.TableNote, id, domain.OperationUpdate, false, restored); err != nil {
		s.logger.Error("note change not queued",
			zap.String(logger.FieldNoteID, id), zap.Error(err))
	}
	return restored, nil
}

// NoteGet 获取单条笔记
// 在线读远端并刷新本地镜像，离线读本地
func (s *Service) NoteGet(ctx context.Context, id string) (*domain.Note, error) {
	if s.Online() {
		note, err := s.store.GetNote(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.d.NoteMirror(ctx, note); err != nil {
			s.logger.Warn("note mirror failed",
				zap.String(logger.FieldNoteID, id), zap.Error(err))
		}
		return note, nil
	}
	return s.d.NoteGet(ctx, id, s.UID())
}

// NoteList 获取笔记列表，按置顶与更新时间排序
func (s *Service) NoteList(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	if s.Online() {
		notes, err := s.store.ListNotes(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, note := range notes {
			if err := s.d.NoteMirror(ctx, note); err != nil {
				s.logger.Warn("note mirror failed",
					zap.String(logger.FieldNoteID, note.ID), zap.Error(err))
			}
		}
		domain.SortNotes(notes)
		return notes, nil
	}
	return s.d.NoteList(ctx, s.UID(), filter)
}
