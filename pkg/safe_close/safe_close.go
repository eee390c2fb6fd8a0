// Package safe_close 提供带关闭信号的协程生命周期管理
package safe_close

import (
	"sync"
)

// SafeClose 管理一组后台协程的安全关闭
// 所有通过 Attach 挂载的协程会收到同一个关闭信号，
// WaitClosed 阻塞直到全部协程调用 done
type SafeClose struct {
	wg sync.WaitGroup

	closeOnce   sync.Once
	closeSignal chan struct{}

	mu       sync.Mutex
	closeErr error
}

// NewSafeClose 创建 SafeClose 实例
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 挂载一个后台协程
// f 必须在退出前调用 done，并监听 closeSignal
func (sc *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	sc.wg.Add(1)
	done := func() {
		sc.wg.Done()
	}
	go f(done, sc.closeSignal)
}

// SendCloseSignal 发送关闭信号，幂等
// err 为关闭原因，可以为 nil
func (sc *SafeClose) SendCloseSignal(err error) {
	sc.closeOnce.Do(func() {
		sc.mu.Lock()
		sc.closeErr = err
		sc.mu.Unlock()
		close(sc.closeSignal)
	})
}

// ReceiveCloseSignal 返回关闭信号通道
func (sc *SafeClose) ReceiveCloseSignal() <-chan struct{} {
	return sc.closeSignal
}

// WaitClosed 阻塞直到所有协程退出，返回关闭原因
func (sc *SafeClose) WaitClosed() error {
	sc.wg.Wait()
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.closeErr
}
