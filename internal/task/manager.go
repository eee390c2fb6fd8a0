package task

import (
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"
	"github.com/haierkeys/fast-note-offline-client/pkg/safe_close"

	"go.uber.org/zap"
)

// Config 维护任务配置
type Config struct {
	// SoftDeleteRetention 软删除笔记保留时间，0 表示关闭墓碑清理
	SoftDeleteRetention time.Duration
	// RetentionInterval 墓碑清理周期
	RetentionInterval time.Duration
	// CachePurgeInterval 缓存清扫周期，0 表示关闭
	CachePurgeInterval time.Duration
	// QueueRetention 陈旧账本条目保留时长，0 表示关闭清理
	QueueRetention time.Duration
	// QueueCleanupInterval 陈旧账本清理周期
	QueueCleanupInterval time.Duration
}

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	d         *dao.Dao
	config    Config
	logger    *zap.Logger
}

// NewManager 创建任务管理器
func NewManager(d *dao.Dao, c Config, logger *zap.Logger, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		d:         d,
		config:    c,
		logger:    logger,
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() error {
	if t := NewNoteRetentionTask(m.d, m.config, m.logger); t != nil {
		m.scheduler.AddTask(t)
	} else {
		m.logger.Info("note retention task is disabled (retention time not configured)")
	}

	if t := NewCachePurgeTask(m.d, m.config, m.logger); t != nil {
		m.scheduler.AddTask(t)
	}

	if t := NewQueueCleanupTask(m.d, m.config, m.logger); t != nil {
		m.scheduler.AddTask(t)
	}

	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
