package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collab_web/internal/collab"
)

// fakeController 以記憶體模擬 Session
type fakeController struct {
	mu      sync.Mutex
	snap    collab.Snapshot
	joinErr error
	sendErr error
	sent    []string
	left    int
}

func newFakeController() *fakeController {
	return &fakeController{snap: collab.Snapshot{Author: "Researcher"}}
}

func (f *fakeController) CreateRoom(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "" {
		return &collab.ValidationError{Field: "room name", Message: "must not be empty"}
	}
	f.snap.State = collab.InRoom
	f.snap.Room = collab.Room{ID: "r1", Name: name}
	f.snap.Messages = nil
	return nil
}

func (f *fakeController) JoinRoom(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joinErr != nil {
		return f.joinErr
	}
	f.snap.State = collab.InRoom
	f.snap.Room = collab.Room{ID: id, Name: "Joined"}
	return nil
}

func (f *fakeController) LeaveRoom() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left++
	f.snap.State = collab.NotInRoom
	f.snap.Room = collab.Room{}
	f.snap.Messages = nil
}

func (f *fakeController) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return f.sendErr
}

func (f *fakeController) SetAuthor(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != "" {
		f.snap.Author = name
	}
}

func (f *fakeController) Snapshot() collab.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

// press 送出按鍵；enter 產生的操作指令會同步執行並回饋結果
func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	m = next.(Model)
	if cmd == nil || key != tea.KeyEnter {
		return m
	}
	msg := cmd()
	switch msg.(type) {
	case createdMsg, joinedMsg, sentMsg:
		next, _ = m.Update(msg)
		return next.(Model)
	}
	return m
}

func TestModel_CreateRoom(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, time.Second)

	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)

	require.Equal(t, collab.InRoom, m.snap.State)
	view := m.View()
	assert.Contains(t, view, "Alpity")
	assert.Contains(t, view, "ID: r1")
	assert.Contains(t, view, emptyRoomText)
}

func TestModel_CreateRoomBlankShowsStatus(t *testing.T) {
	m := New(newFakeController(), time.Second)

	m = press(t, m, tea.KeyEnter)

	assert.Equal(t, collab.NotInRoom, m.snap.State)
	assert.Contains(t, m.View(), "Please fill in the room name")
}

func TestModel_JoinNotFoundShowsAlert(t *testing.T) {
	ctrl := newFakeController()
	ctrl.joinErr = &collab.NotFoundError{RoomID: "nope"}
	m := New(ctrl, time.Second)

	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "nope")
	m = press(t, m, tea.KeyEnter)

	assert.Contains(t, m.View(), "Room not found")

	// 提示框擋住其他輸入，直到確認
	m = typeText(t, m, "x")
	assert.Contains(t, m.View(), "Room not found")
	m = press(t, m, tea.KeyEnter)
	assert.NotContains(t, m.View(), "Room not found")
	assert.Equal(t, collab.NotInRoom, m.snap.State)
}

func TestModel_SendClearsOnlyOnSuccess(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, time.Second)
	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, collab.InRoom, m.snap.State)

	ctrl.sendErr = &collab.NetworkError{Op: "add message", Err: context.DeadlineExceeded}
	m = typeText(t, m, "hello")
	m = press(t, m, tea.KeyEnter)
	assert.Equal(t, "hello", m.messageInput.Value(), "draft must survive a failed send")
	assert.Contains(t, m.View(), "Network error")

	ctrl.sendErr = nil
	m = press(t, m, tea.KeyEnter)
	assert.Empty(t, m.messageInput.Value())
	assert.Equal(t, []string{"hello", "hello"}, ctrl.sent)
}

func TestModel_SnapshotRendersMessages(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, time.Second)
	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)

	next, _ := m.Update(SnapshotMsg(collab.Snapshot{
		State:    collab.InRoom,
		Room:     collab.Room{ID: "r1", Name: "Alpity"},
		Author:   "Researcher",
		Messages: []collab.Message{{User: "Bob", Content: "hi"}},
	}))
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "Bob")
	assert.Contains(t, view, "hi")
	assert.NotContains(t, view, emptyRoomText)
}

func TestModel_EscLeavesRoom(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, time.Second)
	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyEsc)

	assert.Equal(t, 1, ctrl.left)
	assert.Equal(t, collab.NotInRoom, m.snap.State)
	assert.Contains(t, m.View(), "Collaboration Space")
}

func TestModel_EditAuthor(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, time.Second)
	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "!")

	assert.Equal(t, "Researcher!", ctrl.Snapshot().Author)
}

func TestRenderMessages(t *testing.T) {
	assert.Contains(t, renderMessages(nil, "Bob", 40), emptyRoomText)

	out := renderMessages([]collab.Message{
		{User: "Ann", Content: "first"},
		{User: "Bob", Content: "second"},
	}, "Bob", 40)
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestNotifier_KeepsLatest(t *testing.T) {
	n := NewNotifier()

	n.Observe(collab.Snapshot{Author: "one"})
	n.Observe(collab.Snapshot{Author: "two"})

	got := <-n.ch
	assert.Equal(t, "two", got.Author)
	select {
	case <-n.ch:
		t.Fatal("only the latest snapshot should be buffered")
	default:
	}
}

// roomBackend 是只有一個房間的記憶體 collab.Backend
type roomBackend struct {
	mu       sync.Mutex
	messages []collab.Message
}

func (b *roomBackend) CreateRoom(context.Context, string) (string, error) {
	return "r1", nil
}

func (b *roomBackend) GetRoom(_ context.Context, id string) (*collab.Room, error) {
	if id != "r1" {
		return nil, &collab.NotFoundError{RoomID: id}
	}
	return &collab.Room{ID: "r1", Name: "Alpity"}, nil
}

func (b *roomBackend) GetMessages(context.Context, string) ([]collab.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]collab.Message(nil), b.messages...), nil
}

func (b *roomBackend) AddMessage(_ context.Context, _, content, user string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, collab.Message{User: user, Content: content})
	return nil
}

func TestModel_DelayedSnapshotAfterLeaveIsIgnored(t *testing.T) {
	backend := &roomBackend{messages: []collab.Message{{User: "Bob", Content: "hi"}}}
	n := NewNotifier()
	session := collab.NewSession(backend,
		collab.WithInterval(time.Hour),
		collab.WithObserver(n.Observe),
	)
	t.Cleanup(session.Close)

	m := New(session, time.Second)
	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, collab.InRoom, m.snap.State)

	// 取出已送進通道、但尚未交給畫面的快照
	var inFlight collab.Snapshot
	require.Eventually(t, func() bool {
		select {
		case inFlight = <-n.ch:
		default:
		}
		return len(inFlight.Messages) == 1
	}, time.Second, time.Millisecond)

	m = press(t, m, tea.KeyEsc)
	require.Equal(t, collab.NotInRoom, m.snap.State)

	next, _ := m.Update(SnapshotMsg(inFlight))
	m = next.(Model)

	assert.Equal(t, collab.NotInRoom, m.snap.State)
	assert.Empty(t, m.snap.Messages)
	assert.Contains(t, m.View(), "Collaboration Space")
	assert.Equal(t, collab.NotInRoom, session.Snapshot().State)
}

func TestModel_ForwardsBlinkToFocusedInput(t *testing.T) {
	m := New(newFakeController(), time.Second)

	_, cmd := m.Update(textinput.Blink())

	assert.NotNil(t, cmd, "focused input must schedule the next blink")
}

func TestModel_BlankAuthorIsRestored(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, time.Second)
	m = typeText(t, m, "Alpity")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyTab)
	for i := 0; i < len("Researcher"); i++ {
		m = press(t, m, tea.KeyBackspace)
	}
	require.Empty(t, m.authorInput.Value())
	// 名稱隨輸入即時更新，清空時保留最後一個非空白的名稱
	assert.Equal(t, "R", ctrl.Snapshot().Author)

	m = press(t, m, tea.KeyTab)

	assert.Equal(t, "R", m.authorInput.Value())
}
