package collab

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeBackend 是記憶體內的 Backend，記錄每個方法的呼叫次數
type fakeBackend struct {
	mu       sync.Mutex
	nextID   string
	rooms    map[string]string
	messages map[string][]Message
	calls    map[string]int

	createErr error
	getErr    error
	fetchErr  error
	addErr    error

	// gate 不為 nil 時 GetMessages 會等待 gate 關閉或 ctx 取消
	gate    chan struct{}
	started chan string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   "r1",
		rooms:    make(map[string]string),
		messages: make(map[string][]Message),
		calls:    make(map[string]int),
	}
}

func (f *fakeBackend) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) setMessages(roomID string, messages ...Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[roomID] = messages
}

func (f *fakeBackend) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakeBackend) CreateRoom(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["CreateRoom"]++
	if f.createErr != nil {
		return "", f.createErr
	}
	id := f.nextID
	f.rooms[id] = name
	return id, nil
}

func (f *fakeBackend) GetRoom(_ context.Context, id string) (*Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetRoom"]++
	if f.getErr != nil {
		return nil, f.getErr
	}
	name, ok := f.rooms[id]
	if !ok {
		return nil, &NotFoundError{RoomID: id}
	}
	return &Room{ID: id, Name: name}, nil
}

func (f *fakeBackend) GetMessages(ctx context.Context, roomID string) ([]Message, error) {
	f.mu.Lock()
	f.calls["GetMessages"]++
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- roomID
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]Message(nil), f.messages[roomID]...), nil
}

func (f *fakeBackend) AddMessage(_ context.Context, roomID, content, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["AddMessage"]++
	if f.addErr != nil {
		return f.addErr
	}
	if _, ok := f.rooms[roomID]; !ok {
		return &NotFoundError{RoomID: roomID}
	}
	f.messages[roomID] = append(f.messages[roomID], Message{User: user, Content: content})
	return nil
}

// manualClock 交出手動控制的 ticker，每個 poller 一個
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

type manualTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *manualClock) newTicker(time.Duration) (<-chan time.Time, func()) {
	t := &manualTicker{c: make(chan time.Time)}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
	return t.c, func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()
	}
}

func (m *manualClock) ticker(i int) *manualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= len(m.tickers) {
		return nil
	}
	return m.tickers[i]
}

func (m *manualClock) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// tick 送出一次 tick；poller 已停止時回傳 false
func (t *manualTicker) tick() bool {
	select {
	case t.c <- time.Now():
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func (t *manualTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// recorder 收集 observer 收到的快照
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) last() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

var errBoom = errors.New("boom")
