// Package action routes UI events to handlers. A control declares what it
// does through a data-action attribute; the router finds the nearest such
// control above the event target and calls the handler registered for it.
package action

import (
	"context"
	"errors"
	"fmt"

	"dreamlog/internal/logging"
)

var ErrUnknownAction = errors.New("unknown action")

type EventType string

const (
	Click  EventType = "click"
	Change EventType = "change"
)

// Viewport describes scroll position in whatever unit the UI uses
// (pixels on the web, rows in the terminal).
type Viewport struct {
	ScrollTop     int
	Height        int
	ContentHeight int
}

type Event struct {
	Type     EventType
	Target   Element
	Values   map[string]string
	Viewport Viewport
}

type HandlerFunc func(ctx context.Context, actx Context) error

type Route struct {
	Handle HandlerFunc
	// WantsEvent attaches the raw event to the context before Handle runs.
	WantsEvent bool
}

type Registry map[Kind]Route

// Missing lists kinds from Kinds() that have no handler.
func (r Registry) Missing() []Kind {
	var missing []Kind
	for _, k := range Kinds() {
		if route, ok := r[k]; !ok || route.Handle == nil {
			missing = append(missing, k)
		}
	}
	return missing
}

type Router struct {
	routes   Registry
	log      logging.Logger
	maxDepth int
}

func NewRouter(routes Registry, log logging.Logger, maxDepth int) *Router {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Router{routes: routes, log: log, maxDepth: maxDepth}
}

// Dispatch resolves ev to an action and routes it. Events without an
// actionable ancestor are ignored. Clicks on select elements are ignored
// so that selects only act on change.
func (r *Router) Dispatch(ctx context.Context, ev Event) error {
	if ev.Target == nil {
		return nil
	}
	actx, ok := Extract(ev.Target, r.maxDepth)
	if !ok {
		return nil
	}
	if ev.Type == Click && actx.Element.Tag() == "select" {
		return nil
	}
	actx.Values = ev.Values
	return r.Route(ctx, actx, &ev)
}

// Route runs the handler for actx.Kind. Unknown kinds, handler errors and
// handler panics are logged and returned as errors; nothing propagates as a
// panic.
func (r *Router) Route(ctx context.Context, actx Context, ev *Event) (err error) {
	route, ok := r.routes[actx.Kind]
	if !ok || route.Handle == nil {
		r.log.Error(ctx, "no handler for action", "action", actx.Kind)
		return fmt.Errorf("%w: %q", ErrUnknownAction, actx.Kind)
	}
	if route.WantsEvent {
		actx.Event = ev
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error(ctx, "action handler panicked", "action", actx.Kind, "panic", rec)
			err = fmt.Errorf("action %s: panic: %v", actx.Kind, rec)
		}
	}()

	if err := route.Handle(ctx, actx); err != nil {
		r.log.Error(ctx, "action handler failed", "action", actx.Kind, "dream_id", actx.DreamID, "err", err)
		return fmt.Errorf("action %s: %w", actx.Kind, err)
	}
	return nil
}
