package task

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"

	"go.uber.org/zap"
)

// NoteRetentionTask 清理超过保留期的软删除笔记
type NoteRetentionTask struct {
	d         *dao.Dao
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
	firstRun  bool
}

// NewNoteRetentionTask 创建墓碑清理任务
// 保留期未配置时返回 nil，任务不被调度
func NewNoteRetentionTask(d *dao.Dao, c Config, logger *zap.Logger) Task {
	if c.SoftDeleteRetention <= 0 {
		return nil
	}
	interval := c.RetentionInterval
	if interval <= 0 {
		interval = time.Hour
	}
	return &NoteRetentionTask{
		d:         d,
		retention: c.SoftDeleteRetention,
		interval:  interval,
		logger:    logger,
		firstRun:  true,
	}
}

// Name 返回任务名称
func (t *NoteRetentionTask) Name() string {
	return "NoteRetentionTask"
}

// Run 执行清理任务
func (t *NoteRetentionTask) Run(ctx context.Context) error {
	status := "scheduled"
	if t.firstRun {
		status = "first-run"
		t.firstRun = false
	}

	cutoff := time.Now().Add(-t.retention)
	purged, err := t.d.NotePurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		t.logger.Error(t.Name()+" failed ["+status+"]: ", zap.Error(err))
		return err
	}

	t.logger.Info(t.Name()+" completed successfully ["+status+"]",
		zap.Int64("purged", purged))
	return nil
}

// LoopInterval 返回执行间隔
func (t *NoteRetentionTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *NoteRetentionTask) IsStartupRun() bool {
	return true
}
