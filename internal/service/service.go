// Package service 实现面向上层的数据访问门面
// 唯一的读写路由点：在线走远端并镜像本地，离线走本地并入账
package service

import (
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/ai"
	"github.com/haierkeys/fast-note-offline-client/internal/dao"
	"github.com/haierkeys/fast-note-offline-client/internal/identity"
	"github.com/haierkeys/fast-note-offline-client/internal/remote"
	syncpkg "github.com/haierkeys/fast-note-offline-client/internal/sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service 数据访问门面
type Service struct {
	d            *dao.Dao
	queue        *syncpkg.Queue
	store        remote.Store
	monitor      *remote.Monitor
	orchestrator *syncpkg.Orchestrator
	searcher     *ai.Searcher
	identity     *identity.Provider
	logger       *zap.Logger

	searchGroup singleflight.Group
	// searchCacheTTL 检索结果缓存时长
	searchCacheTTL time.Duration
}

// Option Service 可选项
type Option func(*Service)

// WithSearchCacheTTL 设置检索缓存时长
func WithSearchCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.searchCacheTTL = ttl
	}
}

// New 创建数据访问门面
func New(
	d *dao.Dao,
	queue *syncpkg.Queue,
	store remote.Store,
	monitor *remote.Monitor,
	orchestrator *syncpkg.Orchestrator,
	searcher *ai.Searcher,
	id *identity.Provider,
	lg *zap.Logger,
	options ...Option,
) *Service {
	s := &Service{
		d:              d,
		queue:          queue,
		store:          store,
		monitor:        monitor,
		orchestrator:   orchestrator,
		searcher:       searcher,
		identity:       id,
		logger:         lg,
		searchCacheTTL: 5 * time.Minute,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// UID 当前用户
func (s *Service) UID() int64 {
	return s.identity.UID()
}

// Online 当前是否在线
func (s *Service) Online() bool {
	return s.monitor.IsOnline()
}

// Orchestrator 同步编排器
func (s *Service) Orchestrator() *syncpkg.Orchestrator {
	return s.orchestrator
}

// Monitor 网络状态监视器
func (s *Service) Monitor() *remote.Monitor {
	return s.monitor
}
