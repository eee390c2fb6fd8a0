package remote

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyStore 可控心跳结果的测试桩
type flakyStore struct {
	Store
	mu      sync.Mutex
	healthy bool
}

func (s *flakyStore) setHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

func (s *flakyStore) Heartbeat(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.healthy {
		return nil
	}
	return fmt.Errorf("probe failed")
}

func newTestMonitor(store Store, threshold int) *Monitor {
	return NewMonitor(store, MonitorConfig{
		Interval:         time.Minute,
		ProbeTimeout:     time.Second,
		FailureThreshold: threshold,
	}, zap.NewNop())
}

func TestMonitorStartsOffline(t *testing.T) {
	m := newTestMonitor(&flakyStore{}, 1)
	assert.Equal(t, StateOffline, m.State())
	assert.False(t, m.IsOnline())
}

func TestMonitorGoesOnlineAfterProbe(t *testing.T) {
	store := &flakyStore{healthy: true}
	m := newTestMonitor(store, 1)

	m.Probe(context.Background())
	assert.Equal(t, StateOnline, m.State())
}

func TestMonitorDebouncesFailures(t *testing.T) {
	store := &flakyStore{healthy: true}
	m := newTestMonitor(store, 2)
	m.Probe(context.Background())
	require.True(t, m.IsOnline())

	store.setHealthy(false)
	m.Probe(context.Background())
	assert.True(t, m.IsOnline(), "one failure should not flip the state")

	m.Probe(context.Background())
	assert.False(t, m.IsOnline())
}

func TestMonitorPublishesTransition(t *testing.T) {
	store := &flakyStore{}
	m := newTestMonitor(store, 1)
	events := m.Subscribe()

	store.setHealthy(true)
	m.Probe(context.Background())

	select {
	case event := <-events:
		assert.Equal(t, StateOffline, event.From)
		assert.Equal(t, StateOnline, event.To)
	case <-time.After(time.Second):
		t.Fatal("expected a transition event")
	}
}

func TestMonitorConcurrentProbes(t *testing.T) {
	store := &flakyStore{}
	m := newTestMonitor(store, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				m.Probe(context.Background())
			}
		}()
	}
	wg.Wait()
	require.False(t, m.IsOnline())

	store.setHealthy(true)
	m.Probe(context.Background())
	assert.True(t, m.IsOnline())
}

func TestMonitorNoEventWithoutChange(t *testing.T) {
	store := &flakyStore{healthy: true}
	m := newTestMonitor(store, 1)
	events := m.Subscribe()

	m.Probe(context.Background())
	<-events

	m.Probe(context.Background())
	select {
	case <-events:
		t.Fatal("no event expected when state is unchanged")
	default:
	}
}
