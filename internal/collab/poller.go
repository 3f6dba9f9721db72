package collab

import (
	"context"
	"sync"
	"time"
)

// tickerFunc 建立一個週期性計時器，回傳 tick 通道與停止函式
type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func newRealTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// poller 綁定單次進入房間的生命週期；每次進房建立一個，離房時停止一次
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// startPoller 立即執行一次 fetch，之後每個 interval 執行一次，直到 stop 被呼叫。
// fetch 收到的 context 會在 stop 時取消。
func startPoller(interval time.Duration, newTicker tickerFunc, fetch func(ctx context.Context)) *poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	ticks, stopTicker := newTicker(interval)
	go func() {
		defer close(p.done)
		defer stopTicker()

		fetch(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				// 上一輪的結果不影響排程
				if ctx.Err() != nil {
					return
				}
				fetch(ctx)
			}
		}
	}()

	return p
}

// stop 取消計時器與進行中的請求，並等待 goroutine 結束。
// 可重複呼叫；不可在 fetch 內部呼叫。
func (p *poller) stop() {
	p.once.Do(func() {
		p.cancel()
		<-p.done
	})
}
