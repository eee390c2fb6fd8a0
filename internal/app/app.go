package app

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-note-offline-client/internal/ai"
	"github.com/haierkeys/fast-note-offline-client/internal/dao"
	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/identity"
	"github.com/haierkeys/fast-note-offline-client/internal/remote"
	"github.com/haierkeys/fast-note-offline-client/internal/service"
	syncpkg "github.com/haierkeys/fast-note-offline-client/internal/sync"
	"github.com/haierkeys/fast-note-offline-client/pkg/logger"
	"github.com/haierkeys/fast-note-offline-client/pkg/safe_close"
	"github.com/haierkeys/fast-note-offline-client/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 身份与远端
	Identity *identity.Provider
	Store    remote.Store
	Monitor  *remote.Monitor

	// 同步组件
	Queue        *syncpkg.Queue
	Applier      *syncpkg.Applier
	Orchestrator *syncpkg.Orchestrator

	// 语义检索
	Searcher *ai.Searcher

	// 门面层
	Service *service.Service

	// 后台协程生命周期
	SC *safe_close.SafeClose
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// lg: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, lg *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if lg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config: cfg,
		logger: lg,
		DB:     db,
		SC:     safe_close.NewSafeClose(),
	}

	// 身份：令牌解析出 UID，密钥为空时只解码不校验签名
	id, err := identity.New(cfg.Security.AuthToken, cfg.Security.AuthTokenSecret)
	if err != nil {
		return nil, err
	}
	a.Identity = id

	// DAO 层
	daoOptions := []dao.Option{
		dao.WithLogger(lg),
		dao.WithMaxContentLength(cfg.App.MaxContentLength),
	}
	if cfg.Security.ContentKey != "" {
		daoOptions = append(daoOptions, dao.WithContentCipher(util.NewContentCipher(cfg.Security.ContentKey)))
	}
	a.Dao = dao.New(db, daoOptions...)

	// 远端存储与状态监视
	a.Store = remote.NewHTTPStore(remote.HTTPStoreConfig{
		BaseURL:       cfg.Remote.BaseURL,
		Timeout:       cfg.GetRemoteTimeout(),
		RatePerSecond: cfg.Remote.RatePerSecond,
	}, id, lg)
	a.Monitor = remote.NewMonitor(a.Store, remote.MonitorConfig{
		Interval:         cfg.GetHeartbeatInterval(),
		ProbeTimeout:     cfg.GetProbeTimeout(),
		FailureThreshold: cfg.Remote.FailureThreshold,
	}, lg)

	// 同步组件
	a.Queue = syncpkg.NewQueue(a.Dao.SyncQueueRepo(), lg)
	a.Applier = syncpkg.NewApplier(a.Store, a.Dao.NoteRepo(), a.Dao.LabelRepo(), a.Dao.NoteLabelRepo(), a.Queue)
	a.Orchestrator = syncpkg.NewOrchestrator(a.Queue, a.Applier, a.Monitor, syncpkg.Config{
		RetryCap: cfg.Sync.RetryCap,
		Interval: cfg.GetSyncInterval(),
	}, lg)
	a.Orchestrator.OnExhausted(func(entry *domain.SyncQueueEntry, err error) {
		lg.Warn("queue entry dropped after retry cap",
			zap.String(logger.FieldTable, entry.TableName),
			zap.String(logger.FieldRecordID, entry.RecordID),
			zap.String(logger.FieldOperation, string(entry.Operation)),
			zap.Error(err))
	})

	// 语义检索，未启用时为空实现
	a.Searcher = ai.NewSearcher(ai.Config{
		Enable:   cfg.AI.Enable,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		Timeout:  cfg.GetAITimeout(),
		MaxNotes: cfg.AI.MaxNotes,
	}, lg)

	// 门面层
	a.Service = service.New(
		a.Dao,
		a.Queue,
		a.Store,
		a.Monitor,
		a.Orchestrator,
		a.Searcher,
		id,
		lg,
		service.WithSearchCacheTTL(cfg.GetSearchCacheTTL()),
	)

	lg.Info("App container initialized successfully",
		zap.Int64(logger.FieldUID, id.UID()),
		zap.String("remote", cfg.Remote.BaseURL),
		zap.Int("retryCap", cfg.Sync.RetryCap))

	return a, nil
}

// Start 启动后台协程：网络状态监视与同步编排
func (a *App) Start() {
	a.SC.Attach(a.Monitor.Run)
	a.SC.Attach(a.Orchestrator.Run)
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() string {
	return Version
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Shutdown 优雅关闭应用容器
// 停止当前同步，通知后台协程退出并等待，最后关闭数据库
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	a.Orchestrator.RequestStop()
	a.SC.SendCloseSignal(nil)

	done := make(chan struct{})
	go func() {
		_ = a.SC.WaitClosed()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
	}

	if err := a.Close(); err != nil {
		return err
	}
	a.logger.Info("App container shutdown completed successfully")
	return nil
}
