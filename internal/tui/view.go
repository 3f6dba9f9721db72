package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"collab_web/internal/collab"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	authorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	ownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	alertStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 3)
)

const emptyRoomText = "No messages yet. Start the discussion!"

func (m Model) View() string {
	if m.alert != "" {
		return alertStyle.Render(m.alert+"\n\n"+dimStyle.Render("press enter to dismiss")) + "\n"
	}
	if m.snap.State == collab.InRoom {
		return m.roomView()
	}
	return m.lobbyView()
}

func (m Model) lobbyView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Collaboration Space"))
	b.WriteString("\n\n")
	b.WriteString("Create New Room\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString("Join Existing Room\n")
	b.WriteString(m.joinInput.View())
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(dimStyle.Render("working..."))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("tab switch · enter create/join · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) roomView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.snap.Room.Name))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("ID: " + m.snap.Room.ID))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(m.authorInput.View())
	b.WriteString("\n")
	b.WriteString(m.messageInput.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter send · tab name/message · pgup/pgdn scroll · esc leave · ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

// renderMessages 依伺服器順序排版訊息，自己的訊息靠右並上色
func renderMessages(messages []collab.Message, author string, width int) string {
	if len(messages) == 0 {
		return dimStyle.Render(emptyRoomText)
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		own := msg.User == author
		content := msg.Content
		if own {
			content = ownStyle.Render(content)
		}
		block := authorStyle.Render(msg.User) + "\n" + content
		if own && width > 0 {
			block = lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(block)
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}
