package sync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/remote"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Trigger 同步的触发来源
type Trigger string

const (
	// TriggerTransition 网络从离线转为在线
	TriggerTransition Trigger = "transition"
	// TriggerPeriodic 周期触发
	TriggerPeriodic Trigger = "periodic"
	// TriggerManual 用户手动触发
	TriggerManual Trigger = "manual"
)

// Progress 单次同步的进度
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Result 单次同步的汇总
type Result struct {
	Trigger    Trigger   `json:"trigger"`
	Total      int       `json:"total"`
	Applied    int       `json:"applied"`
	Failed     int       `json:"failed"`
	Dropped    int       `json:"dropped"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Stopped    bool      `json:"stopped"`
}

// Config 编排器配置
type Config struct {
	// RetryCap 单条目失败上限，达到后条目被丢弃
	RetryCap int
	// Interval 周期触发间隔，0 表示关闭周期触发
	Interval time.Duration
}

// ProgressFunc 进度回调
type ProgressFunc func(p Progress)

// ExhaustedFunc 条目达到失败上限被丢弃时的通知回调
type ExhaustedFunc func(entry *domain.SyncQueueEntry, err error)

// Orchestrator 同步编排器
// 同一时刻至多一次同步在执行，并发触发直接拒绝
type Orchestrator struct {
	queue   *Queue
	applier *Applier
	monitor *remote.Monitor
	config  Config
	logger  *zap.Logger

	running atomic.Bool
	stop    atomic.Bool

	mu           sync.Mutex
	progressFns  []ProgressFunc
	exhaustedFns []ExhaustedFunc
	progress     Progress
	lastResult   *Result
}

// NewOrchestrator 创建同步编排器
func NewOrchestrator(queue *Queue, applier *Applier, monitor *remote.Monitor, c Config, lg *zap.Logger) *Orchestrator {
	if c.RetryCap <= 0 {
		c.RetryCap = DefaultRetryCap
	}
	return &Orchestrator{
		queue:   queue,
		applier: applier,
		monitor: monitor,
		config:  c,
		logger:  lg,
	}
}

// OnProgress 注册进度回调
func (o *Orchestrator) OnProgress(fn ProgressFunc) {
	o.mu.Lock()
	o.progressFns = append(o.progressFns, fn)
	o.mu.Unlock()
}

// OnExhausted 注册条目丢弃通知回调
func (o *Orchestrator) OnExhausted(fn ExhaustedFunc) {
	o.mu.Lock()
	o.exhaustedFns = append(o.exhaustedFns, fn)
	o.mu.Unlock()
}

// IsRunning 是否有同步正在执行
func (o *Orchestrator) IsRunning() bool {
	return o.running.Load()
}

// Progress 当前进度，未在执行时返回上次完成的进度
func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// LastResult 上次完成的同步汇总，从未执行过返回 nil
func (o *Orchestrator) LastResult() *Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastResult
}

// RequestStop 请求停止当前同步，在条目边界生效
func (o *Orchestrator) RequestStop() {
	o.stop.Store(true)
}

func (o *Orchestrator) setProgress(p Progress) {
	o.mu.Lock()
	o.progress = p
	fns := make([]ProgressFunc, len(o.progressFns))
	copy(fns, o.progressFns)
	o.mu.Unlock()
	for _, fn := range fns {
		fn(p)
	}
}

func (o *Orchestrator) notifyExhausted(entry *domain.SyncQueueEntry, cause error) {
	err := xerrors.NewAppError(code.ErrorQueueExhausted, cause).
		WithDetails(fmt.Sprintf("%s/%s %s", entry.TableName, entry.RecordID, entry.Operation))
	o.mu.Lock()
	fns := make([]ExhaustedFunc, len(o.exhaustedFns))
	copy(fns, o.exhaustedFns)
	o.mu.Unlock()
	for _, fn := range fns {
		fn(entry, err)
	}
}

// Drain 执行一次同步
// 离线时拒绝，已有同步执行中时拒绝，其余情况顺序应用快照内条目
func (o *Orchestrator) Drain(ctx context.Context, trigger Trigger) (*Result, error) {
	if !o.monitor.IsOnline() {
		return nil, xerrors.NewAppError(code.ErrorRemoteUnavailable,
			fmt.Errorf("network is offline"))
	}
	if !o.running.CompareAndSwap(false, true) {
		return nil, xerrors.NewAppError(code.ErrorSyncRunning,
			fmt.Errorf("a sync pass is already running"))
	}
	defer o.running.Store(false)
	o.stop.Store(false)

	metricDrainTotal.WithLabelValues(string(trigger)).Inc()

	entries, err := o.queue.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Trigger:   trigger,
		Total:     len(entries),
		StartedAt: time.Now(),
	}
	o.setProgress(Progress{Current: 0, Total: result.Total})
	o.logger.Info("sync pass started",
		zap.String(logger.FieldTrigger, string(trigger)),
		zap.Int("entries", result.Total))

	for i, entry := range entries {
		if o.stop.Load() {
			result.Stopped = true
			o.logger.Info("sync pass stopped on request",
				zap.Int("applied", result.Applied))
			break
		}

		if err := o.applier.Apply(ctx, entry); err != nil {
			result.Failed++
			metricEntriesFailed.Inc()
			o.logger.Warn("queue entry apply failed",
				zap.Int64(logger.FieldEntryID, entry.ID),
				zap.String(logger.FieldTable, entry.TableName),
				zap.String(logger.FieldRecordID, entry.RecordID),
				zap.Error(err))

			dropped, _, failErr := o.queue.MarkFailed(ctx, entry, o.config.RetryCap)
			if failErr != nil {
				o.logger.Error("retry bookkeeping failed",
					zap.Int64(logger.FieldEntryID, entry.ID),
					zap.Error(failErr))
			}
			if dropped {
				result.Dropped++
				metricEntriesDropped.Inc()
				o.notifyExhausted(entry, err)
			}
		} else {
			if err := o.queue.MarkDone(ctx, entry); err != nil {
				o.logger.Error("queue entry removal failed",
					zap.Int64(logger.FieldEntryID, entry.ID),
					zap.Error(err))
			} else {
				result.Applied++
				metricEntriesApplied.Inc()
			}
		}
		o.setProgress(Progress{Current: i + 1, Total: result.Total})
	}

	result.FinishedAt = time.Now()
	metricDrainDuration.Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
	if depth, err := o.queue.Pending(ctx); err == nil {
		metricQueueDepth.Set(float64(depth))
	}
	o.mu.Lock()
	o.lastResult = result
	o.mu.Unlock()

	o.logger.Info("sync pass finished",
		zap.String(logger.FieldTrigger, string(trigger)),
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed),
		zap.Int("dropped", result.Dropped),
		zap.Duration(logger.FieldDuration, result.FinishedAt.Sub(result.StartedAt)))
	return result, nil
}

// Run 监听网络状态迁移与周期触发，收到关闭信号后退出
// 与 safe_close.Attach 配合使用
func (o *Orchestrator) Run(done func(), closeSignal <-chan struct{}) {
	defer done()

	transitions := o.monitor.Subscribe()

	var c *cron.Cron
	if o.config.Interval > 0 {
		c = cron.New()
		_, err := c.AddFunc(fmt.Sprintf("@every %s", o.config.Interval), func() {
			o.drainLogged(TriggerPeriodic)
		})
		if err != nil {
			o.logger.Error("periodic sync schedule failed", zap.Error(err))
		} else {
			c.Start()
		}
	}

	for {
		select {
		case <-closeSignal:
			if c != nil {
				ctx := c.Stop()
				<-ctx.Done()
			}
			return
		case event := <-transitions:
			if event.From == remote.StateOffline && event.To == remote.StateOnline {
				o.drainLogged(TriggerTransition)
			}
		}
	}
}

func (o *Orchestrator) drainLogged(trigger Trigger) {
	_, err := o.Drain(context.Background(), trigger)
	if err != nil {
		if xerrors.IsCode(err, code.ErrorSyncRunning) || xerrors.IsCode(err, code.ErrorRemoteUnavailable) {
			o.logger.Debug("sync trigger skipped",
				zap.String(logger.FieldTrigger, string(trigger)),
				zap.Error(err))
			return
		}
		o.logger.Error("sync pass failed",
			zap.String(logger.FieldTrigger, string(trigger)),
			zap.Error(err))
	}
}
