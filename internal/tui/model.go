// Package tui 是協作房間的終端機介面。
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"collab_web/internal/collab"
)

// Controller 是介面所需的 Session 操作
type Controller interface {
	CreateRoom(ctx context.Context, name string) error
	JoinRoom(ctx context.Context, id string) error
	LeaveRoom()
	Send(ctx context.Context, text string) error
	SetAuthor(name string)
	Snapshot() collab.Snapshot
}

var _ Controller = (*collab.Session)(nil)

// SnapshotMsg 攜帶 Session 的最新狀態
type SnapshotMsg collab.Snapshot

type createdMsg struct{ err error }

type joinedMsg struct{ err error }

type sentMsg struct {
	text string
	err  error
}

const (
	focusCreate = iota
	focusJoin
)

const (
	focusMessage = iota
	focusAuthor
)

// Model 是 bubbletea 的根模型
type Model struct {
	session Controller
	timeout time.Duration
	snap    collab.Snapshot

	// lobby
	nameInput  textinput.Model
	joinInput  textinput.Model
	lobbyFocus int

	// room
	authorInput  textinput.Model
	messageInput textinput.Model
	roomFocus    int
	viewport     viewport.Model

	alert  string // 需確認才會關閉的提示
	status string
	busy   bool
	width  int
	height int
}

// New 建立介面模型；timeout 為每個操作的逾時
func New(session Controller, timeout time.Duration) Model {
	snap := session.Snapshot()

	nameInput := textinput.New()
	nameInput.Placeholder = "Room Name"
	nameInput.Focus()

	joinInput := textinput.New()
	joinInput.Placeholder = "Enter Room ID"

	authorInput := textinput.New()
	authorInput.Placeholder = "Your Name"
	authorInput.CharLimit = 100
	authorInput.SetValue(snap.Author)

	messageInput := textinput.New()
	messageInput.Placeholder = "Type a message..."

	return Model{
		session:      session,
		timeout:      timeout,
		snap:         snap,
		nameInput:    nameInput,
		joinInput:    joinInput,
		authorInput:  authorInput,
		messageInput: messageInput,
		viewport:     viewport.New(80, 15),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-9, 3)
		m.refreshViewport()
		return m, nil

	case SnapshotMsg:
		return m.applySnapshot(collab.Snapshot(msg)), nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case createdMsg:
		m.busy = false
		if msg.err != nil {
			m.status = describe(msg.err)
			return m, nil
		}
		m.status = ""
		return m.applySnapshot(m.session.Snapshot()), nil

	case joinedMsg:
		m.busy = false
		var notFound *collab.NotFoundError
		switch {
		case errors.As(msg.err, &notFound):
			m.alert = "Room not found"
			return m, nil
		case msg.err != nil:
			m.status = describe(msg.err)
			return m, nil
		}
		m.status = ""
		m.joinInput.Reset()
		return m.applySnapshot(m.session.Snapshot()), nil

	case sentMsg:
		if msg.err != nil {
			// 保留輸入內容以便重送
			m.status = describe(msg.err)
			return m, nil
		}
		m.status = ""
		if m.messageInput.Value() == msg.text {
			m.messageInput.Reset()
		}
		return m, nil
	}

	// 其餘訊息（例如游標閃爍）交給目前聚焦的輸入框
	return m.updateFocused(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.alert != "" {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.alert = ""
		}
		return m, nil
	}
	if m.snap.State == collab.InRoom {
		return m.updateRoom(msg)
	}
	return m.updateLobby(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.snap.State == collab.InRoom && m.roomFocus == focusAuthor:
		m.authorInput, cmd = m.authorInput.Update(msg)
	case m.snap.State == collab.InRoom:
		m.messageInput, cmd = m.messageInput.Update(msg)
	case m.lobbyFocus == focusCreate:
		m.nameInput, cmd = m.nameInput.Update(msg)
	default:
		m.joinInput, cmd = m.joinInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateLobby(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if m.lobbyFocus == focusCreate {
			m.lobbyFocus = focusJoin
			m.nameInput.Blur()
			return m, m.joinInput.Focus()
		}
		m.lobbyFocus = focusCreate
		m.joinInput.Blur()
		return m, m.nameInput.Focus()

	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		m.busy = true
		if m.lobbyFocus == focusCreate {
			return m, m.createRoom(m.nameInput.Value())
		}
		return m, m.joinRoom(m.joinInput.Value())
	}

	var cmd tea.Cmd
	if m.lobbyFocus == focusCreate {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.joinInput, cmd = m.joinInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateRoom(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.session.LeaveRoom()
		m.status = ""
		return m.applySnapshot(m.session.Snapshot()), nil

	case tea.KeyTab, tea.KeyShiftTab:
		if m.roomFocus == focusMessage {
			m.roomFocus = focusAuthor
			m.messageInput.Blur()
			return m, m.authorInput.Focus()
		}
		m.roomFocus = focusMessage
		m.authorInput.Blur()
		m.restoreAuthor()
		return m, m.messageInput.Focus()

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		if m.roomFocus == focusMessage {
			return m, m.send(m.messageInput.Value())
		}
		m.roomFocus = focusMessage
		m.authorInput.Blur()
		m.restoreAuthor()
		return m, m.messageInput.Focus()
	}

	var cmd tea.Cmd
	if m.roomFocus == focusAuthor {
		m.authorInput, cmd = m.authorInput.Update(msg)
		m.session.SetAuthor(m.authorInput.Value())
	} else {
		m.messageInput, cmd = m.messageInput.Update(msg)
	}
	return m, cmd
}

// applySnapshot 套用快照；比目前顯示的還舊的快照會被丟棄
func (m Model) applySnapshot(snap collab.Snapshot) Model {
	if snap.Seq() < m.snap.Seq() {
		return m
	}
	entered := m.snap.State != collab.InRoom && snap.State == collab.InRoom
	switched := snap.State == collab.InRoom && snap.Room.ID != m.snap.Room.ID
	m.snap = snap

	if entered || switched {
		m.roomFocus = focusMessage
		m.nameInput.Blur()
		m.joinInput.Blur()
		m.authorInput.Blur()
		m.restoreAuthor()
		m.messageInput.Focus()
	}
	if snap.State != collab.InRoom && m.lobbyFocus == focusCreate {
		m.nameInput.Focus()
	} else if snap.State != collab.InRoom {
		m.joinInput.Focus()
	}

	m.refreshViewport()
	return m
}

// restoreAuthor 在名稱欄為空白時顯示 Session 實際使用的作者名稱
func (m *Model) restoreAuthor() {
	if strings.TrimSpace(m.authorInput.Value()) == "" {
		m.authorInput.SetValue(m.session.Snapshot().Author)
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(renderMessages(m.snap.Messages, m.snap.Author, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) createRoom(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return createdMsg{err: m.session.CreateRoom(ctx, name)}
	}
}

func (m Model) joinRoom(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return joinedMsg{err: m.session.JoinRoom(ctx, id)}
	}
}

func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return sentMsg{text: text, err: m.session.Send(ctx, text)}
	}
}

func describe(err error) string {
	var validation *collab.ValidationError
	var network *collab.NetworkError
	switch {
	case errors.As(err, &validation):
		return "Please fill in the " + validation.Field
	case errors.As(err, &network):
		return "Network error: " + network.Error()
	default:
		return err.Error()
	}
}
