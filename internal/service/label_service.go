package service

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/logger"

	"go.uber.org/zap"
)

// LabelCreateParams 创建标签入参
type LabelCreateParams struct {
	Name string `json:"name" form:"name" binding:"required"`
}

// LabelRenameParams 重命名标签入参
type LabelRenameParams struct {
	Name string `json:"name" form:"name" binding:"required"`
}

// LabelCreate 创建标签
// 在线时远端先行，本地在成功前不落任何变更
func (s *Service) LabelCreate(ctx context.Context, params *LabelCreateParams) (*domain.Label, error) {
	label := &domain.Label{UID: s.UID(), Name: params.Name}

	if s.Online() {
		authoritative, err := s.store.CreateLabel(ctx, label)
		if err != nil {
			return nil, err
		}
		if err := s.d.LabelMirror(ctx, authoritative); err != nil {
			s.logger.Error("label mirror failed",
				zap.String(logger.FieldLabelID, authoritative.ID), zap.Error(err))
		}
		return authoritative, nil
	}

	created, err := s.d.LabelCreate(ctx, label)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, domain.TableLabel, created.ID, domain.OperationCreate, false, created); err != nil {
		s.logger.Error("label change not queued",
			zap.String(logger.FieldLabelID, created.ID), zap.Error(err))
	}
	return created, nil
}

// LabelRename 修改标签名称
// 在线时远端先行，本地在成功前不落任何变更
func (s *Service) LabelRename(ctx context.Context, id string, params *LabelRenameParams) (*domain.Label, error) {
	if s.Online() {
		current, err := s.d.LabelGet(ctx, id, s.UID())
		if err != nil {
			return nil, err
		}
		renamed := *current
		renamed.Name = params.Name
		renamed.UpdatedAt = time.Now()
		authoritative, err := s.store.UpdateLabel(ctx, &renamed)
		if err != nil {
			if xerrors.IsCode(err, code.ErrorNotFound) {
				authoritative, err = s.store.CreateLabel(ctx, &renamed)
			}
			if err != nil {
				return nil, err
			}
		}
		if err := s.d.LabelMirror(ctx, authoritative); err != nil {
			s.logger.Error("label mirror failed",
				zap.String(logger.FieldLabelID, id), zap.Error(err))
		}
		return authoritative, nil
	}

	renamed, err := s.d.LabelRename(ctx, id, s.UID(), params.Name)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, domain.TableLabel, id, domain.OperationUpdate, false, renamed); err != nil {
		s.logger.Error("label change not queued",
			zap.String(logger.FieldLabelID, id), zap.Error(err))
	}
	return renamed, nil
}

// LabelDelete 删除标签并级联解除其全部关联
// 在线时远端先行，本地在成功前不落任何变更
func (s *Service) LabelDelete(ctx context.Context, id string) error {
	if s.Online() {
		if _, err := s.d.LabelGet(ctx, id, s.UID()); err != nil {
			return err
		}
		if err := s.store.DeleteLabel(ctx, id); err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
			return err
		}
		return s.d.LabelDelete(ctx, id, s.UID())
	}

	if err := s.d.LabelDelete(ctx, id, s.UID()); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, domain.TableLabel, id, domain.OperationDelete, false, &domain.Label{ID: id, UID: s.UID()}); err != nil {
		s.logger.Error("label change not queued",
			zap.String(logger.FieldLabelID, id), zap.Error(err))
	}
	return nil
}

// LabelList 获取全部标签
func (s *Service) LabelList(ctx context.Context) ([]*domain.Label, error) {
	if s.Online() {
		labels, err := s.store.ListLabels(ctx)
		if err != nil {
			return nil, err
		}
		for _, label := range labels {
			label.UID = s.UID()
			if err := s.d.LabelMirror(ctx, label); err != nil {
				s.logger.Warn("label mirror failed",
					zap.String(logger.FieldLabelID, label.ID), zap.Error(err))
			}
		}
		return labels, nil
	}
	return s.d.LabelList(ctx, s.UID())
}

// LabelGet 获取单个标签
func (s *Service) LabelGet(ctx context.Context, id string) (*domain.Label, error) {
	return s.d.LabelGet(ctx, id, s.UID())
}

// NoteLabelAttach 为笔记附加标签
func (s *Service) NoteLabelAttach(ctx context.Context, noteID, labelID string) (*domain.NoteLabel, error) {
	// 两端都必须存在
	if _, err := s.d.NoteGet(ctx, noteID, s.UID()); err != nil {
		return nil, err
	}
	if _, err := s.d.LabelGet(ctx, labelID, s.UID()); err != nil {
		return nil, err
	}

	if s.Online() {
		authoritative, err := s.store.AttachLabel(ctx, &domain.NoteLabel{NoteID: noteID, LabelID: labelID})
		if err != nil {
			return nil, err
		}
		if err := s.d.NoteLabelMirror(ctx, authoritative); err != nil {
			s.logger.Error("note label mirror failed", zap.Error(err))
		}
		return authoritative, nil
	}

	link, err := s.d.NoteLabelAttach(ctx, noteID, labelID)
	if err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, domain.TableNoteLabel, link.ID, domain.OperationCreate, false, link); err != nil {
		s.logger.Error("note label change not queued", zap.Error(err))
	}
	return link, nil
}

// NoteLabelDetach 解除笔记与标签的关联
func (s *Service) NoteLabelDetach(ctx context.Context, noteID, labelID string) error {
	links, err := s.d.NoteLabelListByNote(ctx, noteID)
	if err != nil {
		return err
	}
	var link *domain.NoteLabel
	for _, l := range links {
		if l.LabelID == labelID {
			link = l
			break
		}
	}
	if link == nil {
		return xerrors.NewAppError(code.ErrorNotFound, nil)
	}

	if s.Online() {
		if err := s.store.DetachLabel(ctx, noteID, labelID); err != nil && !xerrors.IsCode(err, code.ErrorNotFound) {
			return err
		}
		return s.d.NoteLabelDetach(ctx, noteID, labelID)
	}

	if err := s.d.NoteLabelDetach(ctx, noteID, labelID); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, domain.TableNoteLabel, link.ID, domain.OperationDelete, false, link); err != nil {
		s.logger.Error("note label change not queued", zap.Error(err))
	}
	return nil
}

// NoteLabelList 获取笔记的标签列表
// 在线读远端关联并刷新本地镜像，离线读本地
func (s *Service) NoteLabelList(ctx context.Context, noteID string) ([]*domain.Label, error) {
	var links []*domain.NoteLabel
	var err error
	if s.Online() {
		links, err = s.store.ListNoteLabels(ctx, noteID)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			if err := s.d.NoteLabelMirror(ctx, link); err != nil {
				s.logger.Warn("note label mirror failed", zap.Error(err))
			}
		}
	} else {
		links, err = s.d.NoteLabelListByNote(ctx, noteID)
		if err != nil {
			return nil, err
		}
	}
	labels := make([]*domain.Label, 0, len(links))
	for _, link := range links {
		label, err := s.d.LabelGet(ctx, link.LabelID, s.UID())
		if err != nil {
			continue
		}
		labels = append(labels, label)
	}
	return labels, nil
}
