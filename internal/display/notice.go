package display

import (
	"context"
	"time"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is user-visible feedback. UIs show it transiently and mirror it to
// their accessibility channel.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Duration is how long the notice stays visible.
func (n Notice) Duration() time.Duration {
	switch n.Kind {
	case NoticeSuccess:
		return 3 * time.Second
	case NoticeInfo:
		return 4 * time.Second
	default:
		return 6 * time.Second
	}
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type Presenter interface {
	Present(v View)
	ShowLoading()
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notice) {}

type NopPresenter struct{}

func (NopPresenter) Present(View) {}
func (NopPresenter) ShowLoading() {}
