package task

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"

	"go.uber.org/zap"
)

// QueueCleanupTask 清理超过保留期的陈旧账本条目
// 正常流程下账本条目在同步成功或达到失败上限后即被移除，
// 留到这里的是废弃设备或废弃用户残留的数据
type QueueCleanupTask struct {
	d         *dao.Dao
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

// NewQueueCleanupTask 创建账本清理任务
func NewQueueCleanupTask(d *dao.Dao, c Config, logger *zap.Logger) Task {
	if c.QueueRetention <= 0 {
		return nil
	}
	interval := c.QueueCleanupInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &QueueCleanupTask{
		d:         d,
		retention: c.QueueRetention,
		interval:  interval,
		logger:    logger,
	}
}

// Name 返回任务名称
func (t *QueueCleanupTask) Name() string {
	return "QueueCleanupTask"
}

// Run 执行账本清理
func (t *QueueCleanupTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.retention)
	purged, err := t.d.SyncQueueDeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.logger.Error(t.Name()+" failed: ", zap.Error(err))
		return err
	}
	if purged > 0 {
		t.logger.Warn(t.Name()+" dropped stale ledger entries", zap.Int64("purged", purged))
	}
	return nil
}

// LoopInterval 返回执行间隔
func (t *QueueCleanupTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *QueueCleanupTask) IsStartupRun() bool {
	return false
}
