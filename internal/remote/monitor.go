package remote

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// State 网络可达状态
type State string

const (
	StateOnline  State = "online"
	StateOffline State = "offline"
)

// Transition 状态迁移事件
type Transition struct {
	From State
	To   State
	At   time.Time
}

// MonitorConfig 可达性探测配置
type MonitorConfig struct {
	// Interval 探测周期
	Interval time.Duration
	// ProbeTimeout 单次探测超时
	ProbeTimeout time.Duration
	// FailureThreshold 连续失败多少次后判定离线，防止抖动
	FailureThreshold int
}

// Monitor 周期性探测远端心跳并广播状态迁移
type Monitor struct {
	store  Store
	config MonitorConfig
	logger *zap.Logger

	online atomic.Bool

	mu          sync.Mutex
	failures    int
	subscribers []chan Transition
}

// NewMonitor 创建可达性监视器，初始状态为离线
func NewMonitor(store Store, c MonitorConfig, lg *zap.Logger) *Monitor {
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 2
	}
	return &Monitor{
		store:  store,
		config: c,
		logger: lg,
	}
}

// State 当前网络状态
func (m *Monitor) State() State {
	if m.online.Load() {
		return StateOnline
	}
	return StateOffline
}

// IsOnline 当前是否在线
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Subscribe 订阅状态迁移事件
// 通道带缓冲，订阅方消费过慢时丢弃最早未读事件
func (m *Monitor) Subscribe() <-chan Transition {
	ch := make(chan Transition, 8)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()
	return ch
}

func (m *Monitor) publish(from, to State) {
	event := Transition{From: from, To: to, At: time.Now()}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}

func (m *Monitor) setOnline(online bool) {
	was := m.online.Swap(online)
	if was == online {
		return
	}
	from, to := StateOffline, StateOnline
	if !online {
		from, to = StateOnline, StateOffline
	}
	m.logger.Info("network state changed",
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	m.publish(from, to)
}

// Probe 执行一次探测并更新状态
func (m *Monitor) Probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.config.ProbeTimeout)
	defer cancel()

	if err := m.store.Heartbeat(probeCtx); err != nil {
		m.mu.Lock()
		m.failures++
		tripped := m.failures >= m.config.FailureThreshold
		m.mu.Unlock()
		if tripped {
			m.setOnline(false)
		}
		return
	}
	m.mu.Lock()
	m.failures = 0
	m.mu.Unlock()
	m.setOnline(true)
}

// Run 周期性探测，收到关闭信号后停止
// 与 safe_close.Attach 配合使用
func (m *Monitor) Run(done func(), closeSignal <-chan struct{}) {
	defer done()

	ctx := context.Background()
	m.Probe(ctx)

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-closeSignal:
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}
