// Package remote 封装远端同步服务的访问
package remote

import (
	"context"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
)

// Store 远端存储访问接口
// 所有方法在远端不可达时返回 RemoteUnavailable，调用方不做降级猜测
type Store interface {
	// Heartbeat 探测远端可达性
	Heartbeat(ctx context.Context) error

	// CreateNote 在远端创建笔记，返回远端权威记录
	CreateNote(ctx context.Context, note *domain.Note) (*domain.Note, error)

	// UpdateNote 覆盖写入远端笔记，返回远端权威记录
	UpdateNote(ctx context.Context, note *domain.Note) (*domain.Note, error)

	// DeleteNote 删除远端笔记，permanent 控制软删或物理删除
	DeleteNote(ctx context.Context, id string, permanent bool) error

	// RestoreNote 恢复远端回收站内的笔记
	RestoreNote(ctx context.Context, id string) (*domain.Note, error)

	// GetNote 获取远端笔记
	GetNote(ctx context.Context, id string) (*domain.Note, error)

	// ListNotes 获取远端笔记列表
	ListNotes(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error)

	// SearchNotes 远端关键字检索
	SearchNotes(ctx context.Context, keyword string) ([]*domain.Note, error)

	// CreateLabel 在远端创建标签
	CreateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error)

	// UpdateLabel 覆盖写入远端标签
	UpdateLabel(ctx context.Context, label *domain.Label) (*domain.Label, error)

	// DeleteLabel 删除远端标签
	DeleteLabel(ctx context.Context, id string) error

	// ListLabels 获取远端标签列表
	ListLabels(ctx context.Context) ([]*domain.Label, error)

	// AttachLabel 在远端建立笔记与标签的关联
	AttachLabel(ctx context.Context, link *domain.NoteLabel) (*domain.NoteLabel, error)

	// DetachLabel 在远端解除关联
	DetachLabel(ctx context.Context, noteID, labelID string) error

	// ListNoteLabels 获取远端笔记的关联列表
	ListNoteLabels(ctx context.Context, noteID string) ([]*domain.NoteLabel, error)
}
