package task

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"

	"go.uber.org/zap"
)

// CachePurgeTask 清理过期的检索缓存
type CachePurgeTask struct {
	d        *dao.Dao
	interval time.Duration
	logger   *zap.Logger
}

// NewCachePurgeTask 创建缓存清扫任务
func NewCachePurgeTask(d *dao.Dao, c Config, logger *zap.Logger) Task {
	if c.CachePurgeInterval <= 0 {
		return nil
	}
	return &CachePurgeTask{
		d:        d,
		interval: c.CachePurgeInterval,
		logger:   logger,
	}
}

// Name 返回任务名称
func (t *CachePurgeTask) Name() string {
	return "CachePurgeTask"
}

// Run 执行缓存清扫
func (t *CachePurgeTask) Run(ctx context.Context) error {
	purged, err := t.d.CachePurgeExpired(ctx, time.Now())
	if err != nil {
		t.logger.Error(t.Name()+" failed: ", zap.Error(err))
		return err
	}
	if purged > 0 {
		t.logger.Info(t.Name()+" completed successfully", zap.Int64("purged", purged))
	}
	return nil
}

// LoopInterval 返回执行间隔
func (t *CachePurgeTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *CachePurgeTask) IsStartupRun() bool {
	return false
}
