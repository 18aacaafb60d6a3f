package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"dreamlog/internal/display"
)

type sender interface {
	Send(msg tea.Msg)
}

// Bridge delivers engine output to a running program as messages. It is
// created before the program so the engine can be wired first; output sent
// before Attach is dropped.
type Bridge struct {
	mu sync.RWMutex
	to sender
}

func NewBridge() *Bridge { return &Bridge{} }

func (b *Bridge) Attach(s sender) {
	b.mu.Lock()
	b.to = s
	b.mu.Unlock()
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	s := b.to
	b.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

func (b *Bridge) Present(v display.View) { b.send(viewMsg{view: v}) }

func (b *Bridge) ShowLoading() { b.send(loadingMsg{}) }

func (b *Bridge) Notify(_ context.Context, n display.Notice) { b.send(noticeMsg{notice: n}) }
