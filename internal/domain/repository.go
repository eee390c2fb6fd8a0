package domain

import (
	"context"
	"time"
)

// NotePatch 笔记补丁，nil 字段不参与合并
type NotePatch struct {
	Title    *string
	Content  *string
	Type     *NoteType
	Color    *NoteColor
	Pinned   *bool
	Archived *bool
	Metadata *NoteMetadata
}

// ApplyTo 把补丁中的非 nil 字段合并到目标记录
func (p NotePatch) ApplyTo(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	if p.Archived != nil {
		n.Archived = *p.Archived
	}
	if p.Metadata != nil {
		n.Metadata = *p.Metadata
	}
}

// NoteRepository 笔记仓储接口
// 本地存储对同步无感知，入队由上层门面负责
type NoteRepository interface {
	// Create 创建笔记，落库时标记 sync_status=pending 并盖 updated_at
	Create(ctx context.Context, note *Note) (*Note, error)

	// Patch 合并补丁字段到已有记录，标记 pending 并推进 updated_at
	Patch(ctx context.Context, id string, uid int64, patch NotePatch) (*Note, error)

	// Get 根据ID获取笔记
	Get(ctx context.Context, id string, uid int64) (*Note, error)

	// List 根据过滤条件获取笔记列表，按 updated_at 倒序
	List(ctx context.Context, uid int64, filter NoteFilter) ([]*Note, error)

	// SoftDelete 标记删除，置 deleted=true 与 deleted_at
	SoftDelete(ctx context.Context, id string, uid int64) (*Note, error)

	// Restore 恢复软删除的笔记，清除 deleted 与 deleted_at
	Restore(ctx context.Context, id string, uid int64) (*Note, error)

	// HardDelete 物理删除，不可恢复，级联删除关联
	HardDelete(ctx context.Context, id string, uid int64) error

	// MarkSynced 将记录标记为已同步，不推进 updated_at
	MarkSynced(ctx context.Context, id string, uid int64) error

	// Mirror 将远端返回的记录原样落库为已同步状态
	Mirror(ctx context.Context, note *Note) error

	// PurgeDeletedBefore 物理删除 deleted_at 早于 cutoff 的墓碑记录
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LabelRepository 标签仓储接口
type LabelRepository interface {
	// Create 创建标签，名称同用户下唯一（不区分大小写）
	Create(ctx context.Context, label *Label) (*Label, error)

	// Rename 修改标签名称
	Rename(ctx context.Context, id string, uid int64, name string) (*Label, error)

	// Get 根据ID获取标签
	Get(ctx context.Context, id string, uid int64) (*Label, error)

	// GetByName 根据名称获取标签（不区分大小写）
	GetByName(ctx context.Context, name string, uid int64) (*Label, error)

	// List 获取用户的全部标签
	List(ctx context.Context, uid int64) ([]*Label, error)

	// Delete 删除标签并级联删除其全部关联
	Delete(ctx context.Context, id string, uid int64) error

	// MarkSynced 将标签标记为已同步
	MarkSynced(ctx context.Context, id string, uid int64) error

	// Mirror 将远端返回的标签原样落库为已同步状态
	Mirror(ctx context.Context, label *Label) error
}

// NoteLabelRepository 笔记标签关联仓储接口
type NoteLabelRepository interface {
	// Attach 建立关联，同一 (note, label) 对幂等
	Attach(ctx context.Context, noteID, labelID string) (*NoteLabel, error)

	// Detach 解除关联
	Detach(ctx context.Context, noteID, labelID string) error

	// Get 根据ID获取关联
	Get(ctx context.Context, id string) (*NoteLabel, error)

	// ListByNote 获取笔记的全部关联
	ListByNote(ctx context.Context, noteID string) ([]*NoteLabel, error)

	// ListByLabel 获取标签的全部关联
	ListByLabel(ctx context.Context, labelID string) ([]*NoteLabel, error)

	// Mirror 将远端返回的关联原样落库
	Mirror(ctx context.Context, link *NoteLabel) error
}

// SyncQueueRepository 同步队列仓储接口
// 队列条目由 sync.Queue 组件独占读写
type SyncQueueRepository interface {
	// Append 追加条目，retries=0
	Append(ctx context.Context, entry *SyncQueueEntry) (*SyncQueueEntry, error)

	// ListAll 按 created_at 升序返回当前全部条目（调用时快照）
	ListAll(ctx context.Context) ([]*SyncQueueEntry, error)

	// Delete 删除条目
	Delete(ctx context.Context, id int64) error

	// IncrRetries 递增重试计数并返回新值
	IncrRetries(ctx context.Context, id int64) (int, error)

	// Count 返回条目总数
	Count(ctx context.Context) (int64, error)

	// HasPendingFor 判断指定记录是否还有其他未消费的条目
	// excludeID 为当前正在消费的条目，不计入
	HasPendingFor(ctx context.Context, table, recordID string, excludeID int64) (bool, error)

	// DeleteOlderThan 删除 created_at 早于 cutoff 的陈旧条目，返回删除数
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PreferenceRepository 用户偏好仓储接口
type PreferenceRepository interface {
	// Upsert 按 (uid, key) 覆盖写入
	Upsert(ctx context.Context, pref *Preference) error

	// Get 获取偏好，不存在返回 NotFound
	Get(ctx context.Context, uid int64, key string) (*Preference, error)

	// List 获取用户全部偏好
	List(ctx context.Context, uid int64) ([]*Preference, error)
}

// CacheRepository 响应缓存仓储接口
type CacheRepository interface {
	// Put 写入缓存条目
	Put(ctx context.Context, entry *CachedResponse) error

	// Get 按查询哈希获取缓存条目，含已过期条目
	Get(ctx context.Context, queryHash string) (*CachedResponse, error)

	// Delete 删除缓存条目
	Delete(ctx context.Context, queryHash string) error

	// PurgeExpired 删除 expires_at 不晚于 now 的条目，返回删除数
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Snapshot 单用户数据快照，用于导出与导入
type Snapshot struct {
	Version     int           `json:"version"`
	ExportedAt  time.Time     `json:"exportedAt"`
	UID         int64         `json:"uid"`
	Notes       []*Note       `json:"notes"`
	Labels      []*Label      `json:"labels"`
	NoteLabels  []*NoteLabel  `json:"noteLabels"`
	Preferences []*Preference `json:"preferences"`
}

// SnapshotRepository 快照仓储接口
type SnapshotRepository interface {
	// Export 导出用户的全部笔记、标签、关联与偏好
	Export(ctx context.Context, uid int64) (*Snapshot, error)

	// Import 在单个事务内批量写入快照，不支持部分导入
	Import(ctx context.Context, uid int64, snapshot *Snapshot) error
}
