package service

import (
	"context"

	syncpkg "github.com/haierkeys/fast-note-offline-client/internal/sync"
)

// SyncStatus 同步状态汇总
type SyncStatus struct {
	Online     bool             `json:"online"`
	Running    bool             `json:"running"`
	QueueDepth int64            `json:"queueDepth"`
	Progress   syncpkg.Progress `json:"progress"`
	LastResult *syncpkg.Result  `json:"lastResult,omitempty"`
}

// SyncTrigger 手动触发一次同步
func (s *Service) SyncTrigger(ctx context.Context) (*syncpkg.Result, error) {
	return s.orchestrator.Drain(ctx, syncpkg.TriggerManual)
}

// SyncStop 请求停止当前同步
func (s *Service) SyncStop() {
	s.orchestrator.RequestStop()
}

// SyncStatusNow 当前同步状态
func (s *Service) SyncStatusNow(ctx context.Context) (*SyncStatus, error) {
	depth, err := s.queue.Pending(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncStatus{
		Online:     s.Online(),
		Running:    s.orchestrator.IsRunning(),
		QueueDepth: depth,
		Progress:   s.orchestrator.Progress(),
		LastResult: s.orchestrator.LastResult(),
	}, nil
}
