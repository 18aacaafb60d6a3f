package journal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamlog/internal/action"
	"dreamlog/internal/autocomplete"
	"dreamlog/internal/display"
	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
	"dreamlog/internal/storage"
)

type notices struct {
	mu  sync.Mutex
	got []display.Notice
}

func (n *notices) Notify(_ context.Context, no display.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, no)
}

func (n *notices) last() display.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.got) == 0 {
		return display.Notice{}
	}
	return n.got[len(n.got)-1]
}

type harness struct {
	mem      *storage.MemStore
	repo     *storage.Repository
	learner  *autocomplete.Learner
	engine   *display.Engine
	controls *display.ControlState
	svc      *Service
	router   *action.Router
	notices  *notices
}

func newHarness(t *testing.T, opts HandlerOptions, seed ...dream.Dream) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{mem: storage.NewMemStore(), notices: &notices{}}
	require.NoError(t, h.mem.SaveDreams(ctx, seed))

	log := logging.Discard()
	h.repo = storage.NewRepository(h.mem, log)
	h.learner = autocomplete.NewLearner(h.mem)
	h.controls = display.NewControlState(display.Query{})
	s := display.DefaultSettings()
	s.SearchDebounce = 10 * time.Millisecond
	s.FilterDebounce = 10 * time.Millisecond
	h.engine = display.NewEngine(display.Deps{Source: h.repo, Controls: h.controls, Notifier: h.notices, Log: log}, s)
	t.Cleanup(h.engine.Close)

	h.svc = NewService(h.repo, h.learner, h.engine, h.notices, log)
	h.svc.Now = func() time.Time { return time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC) }
	h.router = action.NewRouter(Handlers(h.svc, h.engine, h.controls, opts), log, 0)
	return h
}

func click(kind action.Kind, attrs map[string]string, values map[string]string) action.Event {
	all := map[string]string{action.AttrAction: string(kind)}
	for k, v := range attrs {
		all[k] = v
	}
	parent := action.NewNode("form", nil)
	btn := parent.Append(action.NewNode("button", all))
	return action.Event{Type: action.Click, Target: btn, Values: values}
}

func entry(id string, lucid bool) dream.Dream {
	return dream.Dream{
		ID:         id,
		Title:      "Dream " + id,
		Content:    "content " + id,
		Tags:       []string{},
		DreamSigns: []string{},
		IsLucid:    lucid,
		Timestamp:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
	}
}

func TestRegistryCoversEveryKind(t *testing.T) {
	h := newHarness(t, HandlerOptions{})
	reg := Handlers(h.svc, h.engine, h.controls, HandlerOptions{})
	assert.Empty(t, reg.Missing())
	assert.True(t, reg[action.Scroll].WantsEvent)
}

func TestSaveDedupesTags(t *testing.T) {
	h := newHarness(t, HandlerOptions{})
	ctx := context.Background()

	err := h.router.Dispatch(ctx, click(action.SaveDream, nil, map[string]string{
		KeyContent: "I flew over a city",
		KeyTags:    "flying, city, flying",
		KeyIsLucid: "on",
	}))
	require.NoError(t, err)

	stored, err := h.mem.LoadDreams(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"flying", "city"}, stored[0].Tags)
	assert.Equal(t, dream.DefaultTitle, stored[0].Title)
	assert.True(t, stored[0].IsLucid)
	assert.Equal(t, display.NoticeSuccess, h.notices.last().Kind)

	learned, err := h.mem.LoadSuggestions(ctx, autocomplete.CategoryTags)
	require.NoError(t, err)
	assert.Equal(t, []string{"flying", "city"}, learned)

	v := h.engine.Last()
	require.Len(t, v.Items, 1)
}

func TestSaveRejectsEmptyContent(t *testing.T) {
	h := newHarness(t, HandlerOptions{})
	ctx := context.Background()

	err := h.router.Dispatch(ctx, click(action.SaveDream, nil, map[string]string{KeyTitle: "only a title"}))
	require.NoError(t, err)
	assert.Equal(t, display.NoticeWarning, h.notices.last().Kind)

	_, err = h.svc.Save(ctx, dream.Draft{Content: " "})
	require.ErrorIs(t, err, dream.ErrEmptyContent)

	stored, _ := h.mem.LoadDreams(ctx)
	assert.Empty(t, stored)
}

func TestDeleteThenConfirmRemovesOnlyTarget(t *testing.T) {
	h := newHarness(t, HandlerOptions{}, entry("41", false), entry("42", false), entry("43", false))
	ctx := context.Background()
	_, err := h.engine.Refresh(ctx)
	require.NoError(t, err)

	target := map[string]string{action.AttrDreamID: "42"}
	require.NoError(t, h.router.Dispatch(ctx, click(action.DeleteDream, target, nil)))
	assert.Equal(t, display.StatePendingDelete, h.engine.DeleteState("42"))

	require.NoError(t, h.router.Dispatch(ctx, click(action.ConfirmDelete, target, nil)))

	stored, err := h.mem.LoadDreams(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"41", "43"}, idsOf(stored))
	assert.ElementsMatch(t, []string{"41", "43"}, idsOf(h.repo.Cached()))
}

func TestConfirmWithoutRequestIsHarmless(t *testing.T) {
	h := newHarness(t, HandlerOptions{}, entry("1", false))
	ctx := context.Background()

	require.NoError(t, h.router.Dispatch(ctx, click(action.ConfirmDelete, map[string]string{action.AttrDreamID: "1"}, nil)))
	stored, _ := h.mem.LoadDreams(ctx)
	assert.Len(t, stored, 1)
	assert.Equal(t, display.NoticeInfo, h.notices.last().Kind)
}

func TestEditFlow(t *testing.T) {
	h := newHarness(t, HandlerOptions{}, entry("7", false))
	ctx := context.Background()
	target := map[string]string{action.AttrDreamID: "7"}

	require.NoError(t, h.router.Dispatch(ctx, click(action.EditDream, target, nil)))
	assert.True(t, h.engine.IsEditing("7"))

	require.NoError(t, h.router.Dispatch(ctx, click(action.SaveEdit, target, map[string]string{
		KeyTitle:      "Renamed",
		KeyContent:    "new words",
		KeyDreamSigns: "Teeth, teeth",
	})))
	assert.False(t, h.engine.IsEditing("7"))

	got, err := h.repo.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, []string{"Teeth"}, got.DreamSigns)
	assert.NotEmpty(t, got.LastModified)
	assert.Equal(t, entry("7", false).Timestamp, got.Timestamp)

	_, err = h.svc.SaveEdit(ctx, "missing", dream.Draft{Content: "x"})
	require.ErrorIs(t, err, dream.ErrNotFound)
}

func TestFilterAndClear(t *testing.T) {
	h := newHarness(t, HandlerOptions{}, entry("1", true), entry("2", false), entry("3", false))
	ctx := context.Background()

	require.NoError(t, h.router.Dispatch(ctx, click(action.Filter, nil, map[string]string{KeyFilter: "lucid", KeyLimit: "endless"})))
	v := h.engine.Last()
	assert.Equal(t, []string{"1"}, idsOf(itemDreams(v)))
	assert.Equal(t, display.LimitEndless, h.controls.Query().Limit.Mode)

	require.NoError(t, h.router.Dispatch(ctx, click(action.ClearFilters, nil, nil)))
	q := h.controls.Query()
	assert.Equal(t, display.FilterAll, q.Filter)
	assert.Equal(t, display.LimitEndless, q.Limit.Mode, "clearing keeps the display limit")
	assert.Len(t, h.engine.Last().Items, 3)
}

func TestDebouncedSearch(t *testing.T) {
	h := newHarness(t, HandlerOptions{Debounce: true}, entry("1", false), entry("2", false))
	ctx := context.Background()

	require.NoError(t, h.router.Dispatch(ctx, click(action.Search, nil, map[string]string{KeySearch: "content 2"})))
	require.Eventually(t, func() bool {
		v := h.engine.Last()
		return len(v.Items) == 1 && v.Items[0].Dream.ID == "2"
	}, time.Second, 5*time.Millisecond)
}

func TestPagingActions(t *testing.T) {
	var seed []dream.Dream
	for i := 0; i < 25; i++ {
		seed = append(seed, entry(string(rune('a'+i)), false))
	}
	h := newHarness(t, HandlerOptions{}, seed...)
	ctx := context.Background()

	require.NoError(t, h.router.Dispatch(ctx, click(action.GoToPage, map[string]string{action.AttrPage: "9"}, nil)))
	assert.Equal(t, 3, h.engine.Page())
	require.NoError(t, h.router.Dispatch(ctx, click(action.PrevPage, nil, nil)))
	assert.Equal(t, 2, h.engine.Page())
	require.NoError(t, h.router.Dispatch(ctx, click(action.NextPage, nil, nil)))
	assert.Equal(t, 3, h.engine.Page())
}

func TestScrollLoadsMoreInEndlessMode(t *testing.T) {
	var seed []dream.Dream
	for i := 0; i < 25; i++ {
		seed = append(seed, entry(string(rune('a'+i)), false))
	}
	h := newHarness(t, HandlerOptions{}, seed...)
	ctx := context.Background()
	require.NoError(t, h.router.Dispatch(ctx, click(action.Filter, nil, map[string]string{KeyLimit: "endless"})))
	require.Equal(t, 10, h.engine.Endless().Loaded)

	ev := click(action.Scroll, nil, nil)
	ev.Type = action.Change
	ev.Viewport = action.Viewport{ScrollTop: 90, Height: 10, ContentHeight: 100}
	require.NoError(t, h.router.Dispatch(ctx, ev))
	assert.Equal(t, 20, h.engine.Endless().Loaded)

	require.NoError(t, h.router.Dispatch(ctx, click(action.LoadMore, nil, nil)))
	assert.Equal(t, 25, h.engine.Endless().Loaded)
}

func TestDraftFromValues(t *testing.T) {
	d := DraftFromValues(map[string]string{KeyTitle: "t", KeyContent: "c", KeyIsLucid: "true"})
	assert.Equal(t, dream.Draft{Title: "t", Content: "c", IsLucid: true}, d)
	assert.False(t, DraftFromValues(map[string]string{KeyIsLucid: "nope"}).IsLucid)
}

func idsOf(ds []dream.Dream) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}

func itemDreams(v display.View) []dream.Dream {
	out := make([]dream.Dream, 0, len(v.Items))
	for _, it := range v.Items {
		out = append(out, it.Dream)
	}
	return out
}
