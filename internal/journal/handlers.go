package journal

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"dreamlog/internal/action"
	"dreamlog/internal/display"
	"dreamlog/internal/dream"
)

// Value keys read from action contexts.
const (
	KeyTitle      = "title"
	KeyContent    = "content"
	KeyEmotions   = "emotions"
	KeyTags       = "tags"
	KeyDreamSigns = "dreamSigns"
	KeyIsLucid    = "isLucid"

	KeySearch = "search"
	KeyFilter = "filter"
	KeySort   = "sort"
	KeyLimit  = "limit"
	KeyStart  = "start"
	KeyEnd    = "end"
)

type HandlerOptions struct {
	// Debounce delays search and filter refreshes. Request/response
	// surfaces turn it off so the refresh lands before the reply.
	Debounce bool
}

// Handlers returns a registry with a route for every action kind.
func Handlers(svc *Service, eng *display.Engine, controls *display.ControlState, opts HandlerOptions) action.Registry {
	view := func(fn func(ctx context.Context, actx action.Context) (display.View, error)) action.Route {
		return action.Route{Handle: func(ctx context.Context, actx action.Context) error {
			_, err := fn(ctx, actx)
			return err
		}}
	}
	requery := func(debounced func(context.Context)) action.Route {
		return action.Route{Handle: func(ctx context.Context, actx action.Context) error {
			ApplyQuery(controls, actx.Values, eng.Settings().DefaultPageSize)
			if opts.Debounce {
				debounced(ctx)
				return nil
			}
			_, err := eng.ResetAndRefresh(ctx)
			return err
		}}
	}

	return action.Registry{
		action.SaveDream: {Handle: func(ctx context.Context, actx action.Context) error {
			_, err := svc.Save(ctx, DraftFromValues(actx.Values))
			return userError(err)
		}},
		action.SaveEdit: {Handle: func(ctx context.Context, actx action.Context) error {
			_, err := svc.SaveEdit(ctx, actx.DreamID, DraftFromValues(actx.Values))
			return userError(err)
		}},
		action.EditDream: view(func(ctx context.Context, actx action.Context) (display.View, error) {
			return eng.StartEdit(ctx, actx.DreamID)
		}),
		action.CancelEdit: view(func(ctx context.Context, actx action.Context) (display.View, error) {
			return eng.CancelEdit(ctx, actx.DreamID)
		}),
		action.DeleteDream: view(func(ctx context.Context, actx action.Context) (display.View, error) {
			return eng.RequestDelete(ctx, actx.DreamID)
		}),
		action.CancelDelete: view(func(ctx context.Context, actx action.Context) (display.View, error) {
			return eng.CancelDelete(ctx, actx.DreamID)
		}),
		action.ConfirmDelete: {Handle: func(ctx context.Context, actx action.Context) error {
			err := eng.ConfirmDelete(ctx, actx.DreamID)
			if errors.Is(err, display.ErrNotPending) {
				svc.notifier.Notify(ctx, display.Notice{Kind: display.NoticeInfo, Text: "Delete request expired. Press delete again to remove the dream."})
				_, err = eng.Refresh(ctx)
			}
			return err
		}},
		action.PrevPage: view(func(ctx context.Context, _ action.Context) (display.View, error) {
			return eng.PrevPage(ctx)
		}),
		action.NextPage: view(func(ctx context.Context, _ action.Context) (display.View, error) {
			return eng.NextPage(ctx)
		}),
		action.GoToPage: view(func(ctx context.Context, actx action.Context) (display.View, error) {
			return eng.GoToPage(ctx, actx.Page)
		}),
		action.Search: requery(eng.DebouncedSearch),
		action.Filter: requery(eng.DebouncedFilter),
		action.ClearFilters: view(func(ctx context.Context, _ action.Context) (display.View, error) {
			controls.Update(func(q *display.Query) {
				limit := q.Limit
				*q = display.Query{Filter: display.FilterAll, Sort: display.SortNewest, Limit: limit}
			})
			return eng.ResetAndRefresh(ctx)
		}),
		action.LoadMore: {Handle: func(ctx context.Context, _ action.Context) error {
			_, err := eng.LoadMore(ctx)
			return err
		}},
		action.Scroll: {WantsEvent: true, Handle: func(_ context.Context, actx action.Context) error {
			// Only scroll reports carry a measured viewport.
			if actx.Event == nil || actx.Event.Viewport.ContentHeight <= 0 {
				return nil
			}
			vp := actx.Event.Viewport
			eng.ScrollBus().Publish(display.ScrollMetrics{
				ScrollTop:     vp.ScrollTop,
				Viewport:      vp.Height,
				ContentHeight: vp.ContentHeight,
			})
			return nil
		}},
	}
}

// userError hides validation failures from the router; the user has already
// been told.
func userError(err error) error {
	if errors.Is(err, dream.ErrEmptyContent) {
		return nil
	}
	return err
}

// DraftFromValues reads the dream form fields.
func DraftFromValues(values map[string]string) dream.Draft {
	return dream.Draft{
		Title:      values[KeyTitle],
		Content:    values[KeyContent],
		Emotions:   values[KeyEmotions],
		Tags:       values[KeyTags],
		DreamSigns: values[KeyDreamSigns],
		IsLucid:    parseBool(values[KeyIsLucid]),
	}
}

// ApplyQuery copies the query controls present in values into controls.
// Absent keys leave the current setting alone.
func ApplyQuery(controls *display.ControlState, values map[string]string, defaultPageSize int) {
	if len(values) == 0 {
		return
	}
	controls.Update(func(q *display.Query) {
		if v, ok := values[KeySearch]; ok {
			q.Search = v
		}
		if v, ok := values[KeyFilter]; ok {
			q.Filter = display.ParseFilterType(v)
		}
		if v, ok := values[KeySort]; ok {
			q.Sort = display.ParseSortKey(v)
		}
		if v, ok := values[KeyLimit]; ok {
			q.Limit = display.ParseLimit(v, defaultPageSize)
		}
		if v, ok := values[KeyStart]; ok {
			q.Start = display.ParseDate(v)
		}
		if v, ok := values[KeyEnd]; ok {
			q.End = display.ParseDate(v)
		}
	})
}

func parseBool(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "on" || v == "yes" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
