package collab

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultInterval 是輪詢訊息列表的間隔
	DefaultInterval = 3 * time.Second
	// DefaultAuthor 是未設定名稱時的作者顯示名稱
	DefaultAuthor = "Researcher"
)

// ErrClosed 在 Session 被 Close 之後嘗試進入房間時回傳
var ErrClosed = errors.New("collab: session closed")

// State 表示 Session 是否在房間內
type State int

const (
	NotInRoom State = iota
	InRoom
)

func (s State) String() string {
	switch s {
	case InRoom:
		return "in_room"
	default:
		return "not_in_room"
	}
}

// Snapshot 是 Session 某一時刻的唯讀副本
type Snapshot struct {
	State    State
	Room     Room
	Author   string
	Messages []Message

	seq uint64
}

// Seq 是快照的產生順序，較新的快照數值較大
func (s Snapshot) Seq() uint64 {
	return s.seq
}

// Option 設定 Session
type Option func(*Session)

// WithInterval 設定輪詢間隔
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger 設定 logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuthor 設定初始作者名稱
func WithAuthor(name string) Option {
	return func(s *Session) {
		if name = strings.TrimSpace(name); name != "" {
			s.author = name
		}
	}
}

// WithObserver 註冊狀態變更的回呼。回呼依序收到快照，過期的快照會被丟棄；
// 回呼不可同步呼叫 Session 的方法。
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

func withTicker(fn tickerFunc) Option {
	return func(s *Session) {
		s.newTicker = fn
	}
}

// Session 是協作房間的客戶端狀態：所在房間、作者與訊息快取
type Session struct {
	backend   Backend
	interval  time.Duration
	newTicker tickerFunc
	logger    *slog.Logger
	observer  func(Snapshot)

	mu         sync.Mutex
	state      State
	room       Room
	author     string
	messages   []Message
	entry      uint64 // 每次進入或離開房間遞增
	fetchSeq   uint64
	appliedSeq uint64
	seq        uint64
	poller     *poller
	closed     bool

	notifyMu     sync.Mutex
	lastNotified uint64
}

// NewSession 建立一個不在任何房間內的 Session
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend:   backend,
		interval:  DefaultInterval,
		newTicker: newRealTicker,
		logger:    slog.Default(),
		author:    DefaultAuthor,
		state:     NotInRoom,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "collab")
	return s
}

// CreateRoom 建立新房間並進入
func (s *Session) CreateRoom(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "room name", Message: "must not be empty"}
	}
	if s.isClosed() {
		return ErrClosed
	}

	id, err := s.backend.CreateRoom(ctx, name)
	if err != nil {
		s.logger.Error("create room failed", "name", name, "error", err)
		return err
	}

	s.logger.Info("room created", "room_id", id, "name", name)
	return s.enter(Room{ID: id, Name: name})
}

// JoinRoom 以房間 ID 加入既有房間。失敗時 Session 維持原狀。
func (s *Session) JoinRoom(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &ValidationError{Field: "room id", Message: "must not be empty"}
	}
	if s.isClosed() {
		return ErrClosed
	}

	room, err := s.backend.GetRoom(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Warn("room not found", "room_id", id)
		} else {
			s.logger.Error("join room failed", "room_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("room joined", "room_id", id, "name", room.Name)
	return s.enter(Room{ID: id, Name: room.Name})
}

// LeaveRoom 離開目前房間，停止輪詢並丟棄訊息快取
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	p := s.poller
	s.poller = nil
	wasInRoom := s.state == InRoom
	roomID := s.room.ID
	s.state = NotInRoom
	s.room = Room{}
	s.messages = nil
	s.entry++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if p != nil {
		p.stop()
	}
	if wasInRoom {
		s.logger.Info("room left", "room_id", roomID)
		s.notify(snap)
	}
}

// Close 釋放 Session 持有的資源。之後無法再進入房間。
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.LeaveRoom()
}

// Send 以目前作者原樣送出訊息，成功後立即重新拉取訊息列表。
// 只含空白的訊息不做任何事。
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.state != InRoom {
		s.mu.Unlock()
		return &ValidationError{Field: "room", Message: "not in a room"}
	}
	roomID, author, entry := s.room.ID, s.author, s.entry
	s.mu.Unlock()

	if err := s.backend.AddMessage(ctx, roomID, text, author); err != nil {
		s.logger.Error("send message failed", "room_id", roomID, "error", err)
		return err
	}

	s.fetch(ctx, roomID, entry)
	return nil
}

// Refresh 在排程之外立即拉取一次目前房間的訊息
func (s *Session) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.state != InRoom {
		s.mu.Unlock()
		return
	}
	roomID, entry := s.room.ID, s.entry
	s.mu.Unlock()

	s.fetch(ctx, roomID, entry)
}

// SetAuthor 變更作者顯示名稱，空白名稱會被忽略
func (s *Session) SetAuthor(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	if s.author == name {
		s.mu.Unlock()
		return
	}
	s.author = name
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Snapshot 回傳目前狀態的副本
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) enter(room Room) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	previous := s.poller
	s.entry++
	entry := s.entry
	s.state = InRoom
	s.room = room
	s.messages = nil
	s.poller = startPoller(s.interval, s.newTicker, func(ctx context.Context) {
		s.fetch(ctx, room.ID, entry)
	})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	// 切換房間時舊的 poller 必須停止
	if previous != nil {
		previous.stop()
	}
	s.notify(snap)
	return nil
}

// fetch 拉取訊息並整批取代快取。結果只套用在發出請求時的同一次進房，
// 且不會覆蓋較晚發出的請求已套用的結果。
func (s *Session) fetch(ctx context.Context, roomID string, entry uint64) {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	messages, err := s.backend.GetMessages(ctx, roomID)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("fetch messages failed", "room_id", roomID, "error", err)
		}
		return
	}

	s.mu.Lock()
	if s.state != InRoom || s.entry != entry || seq <= s.appliedSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale messages", "room_id", roomID)
		return
	}
	s.appliedSeq = seq
	s.messages = append([]Message(nil), messages...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) snapshotLocked() Snapshot {
	s.seq++
	snap := Snapshot{
		State:  s.state,
		Room:   s.room,
		Author: s.author,
		seq:    s.seq,
	}
	if len(s.messages) > 0 {
		snap.Messages = append([]Message(nil), s.messages...)
	}
	return snap
}

func (s *Session) notify(snap Snapshot) {
	if s.observer == nil {
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if snap.seq <= s.lastNotified {
		return
	}
	s.lastNotified = snap.seq
	s.observer(snap)
}
