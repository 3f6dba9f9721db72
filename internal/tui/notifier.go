package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"collab_web/internal/collab"
)

// Notifier 把 Session 的快照轉交給 bubbletea 程式，只保留最新一份
type Notifier struct {
	ch chan collab.Snapshot
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan collab.Snapshot, 1)}
}

// Observe 可作為 collab.WithObserver 的回呼，永不阻塞
func (n *Notifier) Observe(s collab.Snapshot) {
	select {
	case n.ch <- s:
		return
	default:
	}
	// 通道已滿：丟掉舊的快照
	select {
	case <-n.ch:
	default:
	}
	select {
	case n.ch <- s:
	default:
	}
}

// Forward 持續把快照送進程式，直到 ctx 結束
func (n *Notifier) Forward(ctx context.Context, p *tea.Program) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-n.ch:
			p.Send(SnapshotMsg(s))
		}
	}
}
