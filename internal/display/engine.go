// Package display turns the stored dreams into what the user sees: it
// filters, sorts and paginates them, tracks the endless scroll window,
// edit and delete state, and hands each resulting View to a Presenter.
package display

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
	"dreamlog/internal/syncx"
)

// Lock keys shared with other packages.
const (
	KeyDisplay = "displayDreams"
	KeyDelete  = "deleteOperations"
)

// DreamSource is the storage the engine reads and deletes from.
type DreamSource interface {
	Load(ctx context.Context) ([]dream.Dream, error)
	Delete(ctx context.Context, id string) error
}

type Settings struct {
	DefaultPageSize  int
	MaxVisiblePages  int
	EndlessIncrement int
	ScrollThreshold  int
	ScrollThrottle   time.Duration
	SearchDebounce   time.Duration
	FilterDebounce   time.Duration
	DeleteTimeout    time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		DefaultPageSize:  DefaultPageSize,
		MaxVisiblePages:  7,
		EndlessIncrement: 10,
		ScrollThreshold:  200,
		ScrollThrottle:   150 * time.Millisecond,
		SearchDebounce:   300 * time.Millisecond,
		FilterDebounce:   150 * time.Millisecond,
		DeleteTimeout:    10 * time.Second,
	}
}

// Deps are the engine's collaborators. Only Source and Controls are
// required.
type Deps struct {
	Source    DreamSource
	Controls  Controls
	Presenter Presenter
	Notifier  Notifier
	Log       logging.Logger
	Locks     *syncx.KeyedMutex
	Scroll    *ScrollBus
	Now       func() time.Time
}

type Item struct {
	Dream   dream.Dream
	Pending bool
	Editing bool
}

type View struct {
	Items    []Item
	Window   Window
	Strip    []PageItem
	Total    int
	Filtered int
	Query    Query
	HasMore  bool
	// Degraded is set when the store could not be read.
	Degraded bool
	Revision uint64
}

type Engine struct {
	source    DreamSource
	controls  Controls
	presenter Presenter
	notifier  Notifier
	log       logging.Logger
	locks     *syncx.KeyedMutex
	bus       *ScrollBus
	now       func() time.Time
	settings  Settings

	search    *Debouncer
	filter    *Debouncer
	deletions *Deletions

	mu           sync.Mutex
	page         int
	endless      EndlessState
	unsubscribe  func()
	editing      map[string]bool
	filtered     int
	lastCriteria *Criteria
	last         View
	revision     uint64
}

func NewEngine(d Deps, s Settings) *Engine {
	def := DefaultSettings()
	if s.DefaultPageSize <= 0 {
		s.DefaultPageSize = def.DefaultPageSize
	}
	if s.MaxVisiblePages <= 0 {
		s.MaxVisiblePages = def.MaxVisiblePages
	}
	if s.EndlessIncrement <= 0 {
		s.EndlessIncrement = def.EndlessIncrement
	}
	if s.ScrollThreshold < 0 {
		s.ScrollThreshold = def.ScrollThreshold
	}
	if s.DeleteTimeout <= 0 {
		s.DeleteTimeout = def.DeleteTimeout
	}

	e := &Engine{
		source:    d.Source,
		controls:  d.Controls,
		presenter: d.Presenter,
		notifier:  d.Notifier,
		log:       d.Log,
		locks:     d.Locks,
		bus:       d.Scroll,
		now:       d.Now,
		settings:  s,
		search:    NewDebouncer(s.SearchDebounce),
		filter:    NewDebouncer(s.FilterDebounce),
		page:      1,
		editing:   make(map[string]bool),
	}
	if e.presenter == nil {
		e.presenter = NopPresenter{}
	}
	if e.notifier == nil {
		e.notifier = NopNotifier{}
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	if e.locks == nil {
		e.locks = syncx.NewKeyedMutex()
	}
	if e.bus == nil {
		e.bus = NewScrollBus()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.deletions = NewDeletions(s.DeleteTimeout, e.revertDelete)
	return e
}

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) Locks() *syncx.KeyedMutex { return e.locks }

func (e *Engine) ScrollBus() *ScrollBus { return e.bus }

// Refresh reloads the dreams and rebuilds the view. Refreshes never overlap.
// A failing store yields an empty, degraded view and a notice rather than
// an error; the returned error is only set when ctx ends while waiting.
func (e *Engine) Refresh(ctx context.Context) (View, error) {
	var v View
	err := e.locks.With(ctx, KeyDisplay, func(ctx context.Context) error {
		v = e.refreshLocked(ctx)
		return nil
	})
	return v, err
}

func (e *Engine) refreshLocked(ctx context.Context) View {
	q := e.controls.Query()
	degraded := false
	all, err := e.source.Load(ctx)
	if err != nil {
		e.log.Error(ctx, "loading dreams failed", "err", err)
		e.notifier.Notify(ctx, Notice{Kind: NoticeError, Text: "Could not load your dreams."})
		all = nil
		degraded = true
	}
	filtered := FilterDreams(ctx, e.log, all, q.Criteria())
	sorted := SortDreams(filtered, q.Sort)
	if q.Limit.Mode == LimitFixed && q.Limit.PerPage <= 0 {
		q.Limit.PerPage = e.settings.DefaultPageSize
	}

	e.mu.Lock()
	crit := q.Criteria()
	if e.lastCriteria != nil && !sameCriteria(*e.lastCriteria, crit) {
		e.resetPositionLocked()
	}
	e.lastCriteria = &crit
	e.syncEndlessLocked(q.Limit.Mode)
	if e.endless.Enabled && e.endless.Loaded > len(sorted) {
		e.endless.Loaded = len(sorted)
	}

	win := Paginate(len(sorted), q.Limit, e.page, e.endless.Loaded)
	e.page = win.Page
	e.filtered = len(sorted)

	items := make([]Item, 0, win.End-win.Start)
	for _, d := range sorted[win.Start:win.End] {
		items = append(items, Item{
			Dream:   d,
			Pending: e.deletions.IsPending(d.ID),
			Editing: e.editing[d.ID],
		})
	}
	var strip []PageItem
	if win.Mode == LimitFixed {
		strip = PageStrip(win.Page, win.TotalPages, e.settings.MaxVisiblePages)
	}
	e.revision++
	v := View{
		Items:    items,
		Window:   win,
		Strip:    strip,
		Total:    len(all),
		Filtered: len(sorted),
		Query:    q,
		HasMore:  win.Mode == LimitEndless && win.End < len(sorted),
		Degraded: degraded,
		Revision: e.revision,
	}
	e.last = v
	e.mu.Unlock()

	e.presenter.Present(v)
	return v
}

// syncEndlessLocked registers the scroll listener on entering endless mode
// and removes it on leaving.
func (e *Engine) syncEndlessLocked(mode LimitMode) {
	switch {
	case mode == LimitEndless && !e.endless.Enabled:
		e.endless = EndlessState{Enabled: true, Loaded: e.settings.EndlessIncrement}
		e.unsubscribe = e.bus.Subscribe(e.handleScroll)
	case mode != LimitEndless && e.endless.Enabled:
		if e.unsubscribe != nil {
			e.unsubscribe()
			e.unsubscribe = nil
		}
		e.endless = EndlessState{}
	}
	if mode == LimitAll {
		e.page = 1
	}
}

func (e *Engine) resetPositionLocked() {
	e.page = 1
	if e.endless.Enabled {
		e.endless.Loaded = e.settings.EndlessIncrement
	}
}

// Last returns the most recent view.
func (e *Engine) Last() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Engine) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

func (e *Engine) Endless() EndlessState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endless
}

func (e *Engine) GoToPage(ctx context.Context, page int) (View, error) {
	e.mu.Lock()
	e.page = page
	e.mu.Unlock()
	return e.Refresh(ctx)
}

func (e *Engine) NextPage(ctx context.Context) (View, error) {
	e.mu.Lock()
	e.page++
	e.mu.Unlock()
	return e.Refresh(ctx)
}

func (e *Engine) PrevPage(ctx context.Context) (View, error) {
	e.mu.Lock()
	if e.page > 1 {
		e.page--
	}
	e.mu.Unlock()
	return e.Refresh(ctx)
}

// ResetAndRefresh goes back to the first page (or the first endless batch)
// and refreshes.
func (e *Engine) ResetAndRefresh(ctx context.Context) (View, error) {
	e.mu.Lock()
	e.resetPositionLocked()
	e.mu.Unlock()
	return e.Refresh(ctx)
}

// DebouncedSearch shows the loading state now and resets and refreshes
// once typing pauses.
func (e *Engine) DebouncedSearch(ctx context.Context) {
	e.presenter.ShowLoading()
	bg := context.WithoutCancel(ctx)
	e.search.Trigger(func() {
		if _, err := e.ResetAndRefresh(bg); err != nil {
			e.log.Warn(bg, "debounced search refresh failed", "err", err)
		}
	})
}

func (e *Engine) DebouncedFilter(ctx context.Context) {
	e.presenter.ShowLoading()
	bg := context.WithoutCancel(ctx)
	e.filter.Trigger(func() {
		if _, err := e.ResetAndRefresh(bg); err != nil {
			e.log.Warn(bg, "debounced filter refresh failed", "err", err)
		}
	})
}

func (e *Engine) handleScroll(m ScrollMetrics) {
	ctx := context.Background()
	if _, err := e.OnScroll(ctx, m); err != nil {
		e.log.Warn(ctx, "scroll load failed", "err", err)
	}
}

// OnScroll grows the endless window when the viewport is near the bottom.
// Reports within the throttle interval of the previous one, and reports
// while a load is running, are ignored.
func (e *Engine) OnScroll(ctx context.Context, m ScrollMetrics) (bool, error) {
	e.mu.Lock()
	if !e.endless.Enabled || e.endless.Loading {
		e.mu.Unlock()
		return false, nil
	}
	now := e.now()
	if !e.endless.LastScroll.IsZero() && now.Sub(e.endless.LastScroll) < e.settings.ScrollThrottle {
		e.mu.Unlock()
		return false, nil
	}
	e.endless.LastScroll = now
	if !m.NearBottom(e.settings.ScrollThreshold) {
		e.mu.Unlock()
		return false, nil
	}
	e.mu.Unlock()
	return e.LoadMore(ctx)
}

// LoadMore adds one increment to the endless window.
func (e *Engine) LoadMore(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if !e.endless.Enabled || e.endless.Loading || e.endless.Loaded >= e.filtered {
		e.mu.Unlock()
		return false, nil
	}
	e.endless.Loading = true
	e.endless.Loaded += e.settings.EndlessIncrement
	if e.endless.Loaded > e.filtered {
		e.endless.Loaded = e.filtered
	}
	e.mu.Unlock()

	_, err := e.Refresh(ctx)

	e.mu.Lock()
	e.endless.Loading = false
	e.mu.Unlock()
	return true, err
}

func (e *Engine) StartEdit(ctx context.Context, id string) (View, error) {
	e.mu.Lock()
	e.editing[id] = true
	e.mu.Unlock()
	return e.Refresh(ctx)
}

func (e *Engine) CancelEdit(ctx context.Context, id string) (View, error) {
	e.StopEditing(id)
	return e.Refresh(ctx)
}

// StopEditing clears the edit state without refreshing.
func (e *Engine) StopEditing(id string) {
	e.mu.Lock()
	delete(e.editing, id)
	e.mu.Unlock()
}

func (e *Engine) IsEditing(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing[id]
}

func (e *Engine) DeleteState(id string) DeleteState {
	return e.deletions.State(id)
}

// RequestDelete puts id into the pending state and refreshes so the UI
// shows the confirm control.
func (e *Engine) RequestDelete(ctx context.Context, id string) (View, error) {
	e.deletions.Request(id)
	return e.Refresh(ctx)
}

func (e *Engine) CancelDelete(ctx context.Context, id string) (View, error) {
	e.deletions.Cancel(id)
	return e.Refresh(ctx)
}

// ConfirmDelete removes a pending dream. Deletes never run concurrently.
func (e *Engine) ConfirmDelete(ctx context.Context, id string) error {
	return e.locks.With(ctx, KeyDelete, func(ctx context.Context) error {
		if !e.deletions.take(id) {
			return fmt.Errorf("%w: %s", ErrNotPending, id)
		}
		if err := e.source.Delete(ctx, id); err != nil {
			e.log.Error(ctx, "deleting dream failed", "id", id, "err", err)
			e.notifier.Notify(ctx, Notice{Kind: NoticeError, Text: "Could not delete the dream."})
			return err
		}
		e.mu.Lock()
		e.page = 1
		delete(e.editing, id)
		e.mu.Unlock()
		e.notifier.Notify(ctx, Notice{Kind: NoticeSuccess, Text: "Dream deleted."})
		_, err := e.Refresh(ctx)
		return err
	})
}

func (e *Engine) revertDelete(id string) {
	ctx := context.Background()
	e.log.Debug(ctx, "pending delete expired", "id", id)
	if _, err := e.Refresh(ctx); err != nil {
		e.log.Warn(ctx, "refresh after delete revert failed", "err", err)
	}
}

// Close stops timers and the scroll listener.
func (e *Engine) Close() {
	e.search.Stop()
	e.filter.Stop()
	e.deletions.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

func sameCriteria(a, b Criteria) bool {
	return a.Search == b.Search && a.Filter == b.Filter && a.Start.Equal(b.Start) && a.End.Equal(b.End)
}
