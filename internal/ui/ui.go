package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"dreamlog/internal/action"
	"dreamlog/internal/autocomplete"
	"dreamlog/internal/config"
	"dreamlog/internal/display"
	"dreamlog/internal/journal"
	"dreamlog/internal/logging"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
)

const (
	// entryRows approximates the height of one collapsed entry.
	entryRows = 4
	// rowPixels converts terminal rows into the units the scroll threshold
	// is configured in.
	rowPixels      = 20
	chromeRows     = 8
	maxSuggestions = 5
)

type Suggester interface {
	Suggest(ctx context.Context, category, prefix string, limit int) ([]string, error)
}

type Deps struct {
	Router    *action.Router
	Engine    *display.Engine
	Controls  *display.ControlState
	Suggester Suggester
	Bridge    *Bridge
	Keys      config.Keymap
	Log       logging.Logger
}

type (
	viewMsg        struct{ view display.View }
	loadingMsg     struct{}
	noticeMsg      struct{ notice display.Notice }
	clearNoticeMsg struct{ seq int }
	errMsg         struct{ err error }
	suggestionsMsg struct {
		field int
		items []string
	}
)

type Model struct {
	ctx       context.Context
	router    *action.Router
	engine    *display.Engine
	controls  *display.ControlState
	suggester Suggester
	keys      config.Keymap
	log       logging.Logger

	view    display.View
	tree    *action.Node
	cursor  int
	mode    mode
	input   textinput.Model
	area    textarea.Model
	search  textinput.Model
	form    *formState
	status  string
	notice  *display.Notice
	seq     int
	loading bool
	width   int
	height  int
}

func New(ctx context.Context, d Deps) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	ti.ShowSuggestions = true
	ti.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("ctrl+y"))

	ta := textarea.New()
	ta.Placeholder = "Describe your dream..."
	ta.SetWidth(60)
	ta.SetHeight(6)

	si := textinput.New()
	si.Placeholder = "search dreams"
	si.Prompt = "/ "
	si.Width = 40

	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	return Model{
		ctx:       ctx,
		router:    d.Router,
		engine:    d.Engine,
		controls:  d.Controls,
		suggester: d.Suggester,
		keys:      d.Keys,
		log:       log,
		tree:      buildTree(display.View{}),
		input:     ti,
		area:      ta,
		search:    si,
		mode:      modeList,
		status:    fmt.Sprintf("Press '%s' to record a dream, '%s' to search.", d.Keys.Add, d.Keys.Search),
	}
}

// Run starts the terminal UI and blocks until it exits.
func Run(ctx context.Context, d Deps) error {
	m := New(ctx, d)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if d.Bridge != nil {
		d.Bridge.Attach(program)
	}
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	eng := m.engine
	ctx := m.ctx
	return func() tea.Msg {
		if _, err := eng.Refresh(ctx); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg)
		case modeSearch:
			return m.updateSearchMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 10
		m.search.Width = msg.Width - 10
		m.area.SetWidth(msg.Width - 6)
	case viewMsg:
		if msg.view.Revision < m.view.Revision {
			return m, nil
		}
		m.view = msg.view
		m.tree = buildTree(msg.view)
		m.loading = false
		m.cursor = clampCursor(m.cursor, len(m.view.Items))
	case loadingMsg:
		m.loading = true
	case noticeMsg:
		n := msg.notice
		m.notice = &n
		m.seq++
		seq := m.seq
		return m, tea.Tick(n.Duration(), func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
	case clearNoticeMsg:
		if msg.seq == m.seq {
			m.notice = nil
		}
	case errMsg:
		m.status = msg.err.Error()
	case suggestionsMsg:
		if m.mode == modeForm && m.form != nil && m.form.index == msg.field {
			m.input.SetSuggestions(msg.items)
		}
	default:
		// Cursor blinks and similar bubble messages.
		var cmd tea.Cmd
		switch {
		case m.mode == modeSearch:
			m.search, cmd = m.search.Update(msg)
		case m.mode == modeForm && m.form != nil && m.form.index == fieldContent:
			m.area, cmd = m.area.Update(msg)
		case m.mode == modeForm:
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// dispatch delivers ev to the router outside the update loop.
func (m Model) dispatch(ev action.Event) tea.Cmd {
	if ev.Target == nil {
		return nil
	}
	router, ctx := m.router, m.ctx
	return func() tea.Msg {
		if err := router.Dispatch(ctx, ev); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) click(match func(*action.Node) bool, values map[string]string) tea.Cmd {
	n := m.tree.Find(match)
	if n == nil {
		return nil
	}
	return m.dispatch(action.Event{Type: action.Click, Target: n, Values: values})
}

func (m Model) change(id string, values map[string]string) tea.Cmd {
	n := m.tree.Find(byID(id))
	if n == nil {
		return nil
	}
	return m.dispatch(action.Event{Type: action.Change, Target: n, Values: values})
}

func (m Model) selected() (display.Item, bool) {
	if len(m.view.Items) == 0 {
		return display.Item{}, false
	}
	return m.view.Items[clampCursor(m.cursor, len(m.view.Items))], true
}

func (m Model) updateListMode(k string) (tea.Model, tea.Cmd) {
	keys := m.keys
	it, hasItem := m.selected()

	switch k {
	case "ctrl+c", keys.Quit:
		return m, tea.Quit
	case keys.Down, "down":
		if !hasItem {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.view.Items))
		return m, m.reportScroll()
	case keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.view.Items))
		}
	case keys.Add:
		return m.openForm(newForm())
	case keys.Edit:
		if !hasItem {
			m.status = "No dreams to edit"
			return m, nil
		}
		next, focus := m.openForm(editForm(it.Dream))
		return next, tea.Batch(focus, m.click(action.ByAction(action.EditDream, it.Dream.ID), nil))
	case keys.Delete:
		if !hasItem {
			return m, nil
		}
		m.status = fmt.Sprintf("Delete %q? %s to confirm, n to cancel", it.Dream.Title, keys.Confirm)
		return m, m.click(action.ByAction(action.DeleteDream, it.Dream.ID), nil)
	case keys.Confirm:
		if !hasItem || !it.Pending {
			return m, nil
		}
		m.status = ""
		return m, m.click(action.ByAction(action.ConfirmDelete, it.Dream.ID), nil)
	case keys.Cancel, "n":
		if !hasItem || !it.Pending {
			return m, nil
		}
		m.status = "Delete cancelled"
		return m, m.click(action.ByAction(action.CancelDelete, it.Dream.ID), nil)
	case keys.Search:
		m.mode = modeSearch
		m.search.SetValue(m.controls.Query().Search)
		m.search.CursorEnd()
		m.search.Focus()
		return m, textinput.Blink
	case keys.NextPage, "right":
		m.cursor = 0
		return m, m.click(action.ByAction(action.NextPage, ""), nil)
	case keys.PrevPage, "left":
		m.cursor = 0
		return m, m.click(action.ByAction(action.PrevPage, ""), nil)
	case keys.CycleFilter:
		q := m.controls.Query()
		return m, m.change(idFilterSelect, map[string]string{journal.KeyFilter: string(nextFilter(q.Filter))})
	case keys.CycleSort:
		q := m.controls.Query()
		return m, m.change(idSortSelect, map[string]string{journal.KeySort: string(nextSort(q.Sort))})
	case keys.CycleLimit:
		q := m.controls.Query()
		m.cursor = 0
		return m, m.change(idLimitSelect, map[string]string{journal.KeyLimit: nextLimit(q.Limit, m.engine.Settings().DefaultPageSize)})
	case keys.ClearFilters:
		m.cursor = 0
		return m, m.click(action.ByAction(action.ClearFilters, ""), nil)
	case keys.LoadMore:
		return m, m.click(action.ByAction(action.LoadMore, ""), nil)
	default:
		if p, err := strconv.Atoi(k); err == nil && p > 0 {
			m.cursor = 0
			return m, m.click(byPage(p), nil)
		}
	}
	return m, nil
}

// reportScroll publishes the cursor position as a scroll report when
// endless mode is on.
func (m Model) reportScroll() tea.Cmd {
	if m.view.Window.Mode != display.LimitEndless || len(m.view.Items) == 0 {
		return nil
	}
	viewport := max(m.height-chromeRows, entryRows) * rowPixels
	content := len(m.view.Items) * entryRows * rowPixels
	top := max((m.cursor+1)*entryRows*rowPixels-viewport, 0)
	n := m.tree.Find(byID(idEntries))
	if n == nil {
		return nil
	}
	return m.dispatch(action.Event{
		Type:     action.Change,
		Target:   n,
		Viewport: action.Viewport{ScrollTop: top, Height: viewport, ContentHeight: content},
	})
}

func (m Model) openForm(f *formState) (tea.Model, tea.Cmd) {
	m.form = f
	m.mode = modeForm
	m.status = "Tab to move between fields, " + m.keys.Save + " to save, esc to cancel"
	return m.focusField()
}

func (m Model) focusField() (tea.Model, tea.Cmd) {
	f := m.form
	if f.index == fieldContent {
		m.input.Blur()
		m.area.SetValue(f.currentValue())
		return m, m.area.Focus()
	}
	m.area.Blur()
	m.input.SetValue(f.currentValue())
	m.input.Placeholder = f.currentLabel()
	m.input.SetSuggestions(nil)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) storeField() {
	if m.form.index == fieldContent {
		m.form.setCurrentValue(m.area.Value())
		return
	}
	m.form.setCurrentValue(m.input.Value())
}

func (m Model) closeForm(status string) Model {
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.area.Blur()
	m.input.SetValue("")
	m.area.SetValue("")
	m.status = status
	return m
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case m.keys.Cancel, "esc":
		id := m.form.dreamID
		m = m.closeForm("Edit cancelled")
		if id != "" {
			return m, m.click(action.ByAction(action.CancelEdit, id), nil)
		}
		return m, nil
	case m.keys.NextField, "shift+tab":
		m.storeField()
		step := 1
		if k == "shift+tab" {
			step = -1
		}
		m.form.index = wrapIndex(m.form.index+step, fieldCount)
		return m.focusField()
	case m.keys.Save:
		m.storeField()
		return m.submitForm()
	case "enter":
		if m.form.index == fieldContent {
			break
		}
		m.storeField()
		if m.form.index >= fieldCount-1 {
			return m.submitForm()
		}
		m.form.index++
		return m.focusField()
	}

	var cmd tea.Cmd
	if m.form.index == fieldContent {
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	switch m.form.index {
	case fieldTags:
		return m, tea.Batch(cmd, m.suggest(fieldTags, autocomplete.CategoryTags, m.input.Value()))
	case fieldDreamSigns:
		return m, tea.Batch(cmd, m.suggest(fieldDreamSigns, autocomplete.CategoryDreamSigns, m.input.Value()))
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := *m.form
	values := f.fieldValues()
	if !f.hasContent() {
		// Let the save flow report the validation notice, keep the form.
		return m, m.click(action.ByAction(action.SaveDream, ""), values)
	}
	if f.dreamID == "" {
		m = m.closeForm("")
		m.cursor = 0
		return m, m.click(action.ByAction(action.SaveDream, ""), values)
	}
	m = m.closeForm("")
	target := m.tree.Find(action.ByAction(action.SaveEdit, f.dreamID))
	if target == nil {
		// The edit view has not arrived yet; address the entry directly.
		article := action.NewNode("article", attrs(action.AttrDreamID, f.dreamID))
		target = article.Append(action.NewNode("button", attrs(action.AttrAction, string(action.SaveEdit), action.AttrDreamID, f.dreamID)))
	}
	return m, m.dispatch(action.Event{Type: action.Click, Target: target, Values: values})
}

func (m Model) suggest(field int, category, value string) tea.Cmd {
	if m.suggester == nil {
		return nil
	}
	head, fragment := splitList(value)
	if fragment == "" {
		return nil
	}
	s, ctx, log := m.suggester, m.ctx, m.log
	return func() tea.Msg {
		items, err := s.Suggest(ctx, category, fragment, maxSuggestions)
		if err != nil {
			log.Warn(ctx, "suggestions failed", "category", category, "err", err)
			return nil
		}
		full := make([]string, 0, len(items))
		for _, it := range items {
			full = append(full, head+it)
		}
		return suggestionsMsg{field: field, items: full}
	}
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", m.keys.Cancel:
		m.mode = modeList
		m.search.Blur()
		m.cursor = 0
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.change(idSearchBox, map[string]string{journal.KeySearch: m.search.Value()}))
}

func nextFilter(f display.FilterType) display.FilterType {
	order := []display.FilterType{display.FilterAll, display.FilterLucid, display.FilterNonLucid}
	return order[wrapIndex(indexOf(order, f)+1, len(order))]
}

func nextSort(s display.SortKey) display.SortKey {
	order := []display.SortKey{display.SortNewest, display.SortOldest, display.SortLucidFirst, display.SortLongest}
	return order[wrapIndex(indexOf(order, s)+1, len(order))]
}

// nextLimit cycles the page size through the default, "endless" and "all".
func nextLimit(l display.Limit, pageSize int) string {
	switch l.Mode {
	case display.LimitFixed:
		return string(display.LimitEndless)
	case display.LimitEndless:
		return string(display.LimitAll)
	default:
		return strconv.Itoa(pageSize)
	}
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Dream Journal"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(querySummary(m.view.Query)))
	b.WriteString("\n")
	if m.mode == modeSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteString("\n")
	}
	b.WriteString(m.renderEntries())
	b.WriteString("\n")
	b.WriteString(m.renderPagination())
	b.WriteString("\n---\n")

	if m.mode == modeForm && m.form != nil {
		b.WriteString(formBox.Render(m.renderForm()))
		b.WriteString("\n")
	}

	if m.notice != nil {
		style, ok := noticeStyles[m.notice.Kind]
		if !ok {
			style = dimStyle
		}
		b.WriteString(style.Render(m.notice.Text))
		b.WriteString("\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.keys)))
	return b.String()
}

func querySummary(q display.Query) string {
	parts := []string{
		"filter:" + string(q.Filter),
		"sort:" + string(q.Sort),
		"limit:" + q.Limit.String(),
	}
	if q.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", q.Search))
	}
	if !q.Start.IsZero() || !q.End.IsZero() {
		parts = append(parts, "dates:"+formatDay(q.Start)+".."+formatDay(q.End))
	}
	return strings.Join(parts, " • ")
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s delete • %s search • %s/%s page • %s filter • %s sort • %s limit • %s clear • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Search, k.PrevPage, k.NextPage, k.CycleFilter, k.CycleSort, k.CycleLimit, k.ClearFilters, k.Quit)
}

func (m Model) contentWidth() int {
	if m.width <= 8 {
		return 72
	}
	return m.width - 6
}

func (m Model) renderEntries() string {
	v := m.view
	if len(v.Items) == 0 {
		switch {
		case v.Degraded:
			return "Your dreams could not be loaded right now."
		case v.Total > 0:
			return "No dreams match your current filters."
		default:
			return fmt.Sprintf("No dreams recorded yet. Press '%s' to add your first dream.", m.keys.Add)
		}
	}

	var b strings.Builder
	width := m.contentWidth()
	for i, it := range v.Items {
		sel := i == m.cursor && m.mode == modeList
		b.WriteString(m.renderEntry(it, sel, width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEntry(it display.Item, selected bool, width int) string {
	d := it.Dream
	var b strings.Builder

	head := dreamTitle.Render(d.Title) + "  " + dimStyle.Render(d.Display())
	if d.IsLucid {
		head += " " + lucidBadge.Render("Lucid")
	}
	if it.Editing {
		head += " " + dimStyle.Render("(editing)")
	}
	b.WriteString(head)
	b.WriteString("\n")

	content := wordwrap.String(d.Content, width)
	if !selected {
		first, _, _ := strings.Cut(content, "\n")
		content = truncate.StringWithTail(first, uint(width), "…")
	}
	b.WriteString(content)

	if len(d.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Tags: ") + tagStyle.Render(strings.Join(d.Tags, ", ")))
	}
	if len(d.DreamSigns) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Dream Signs: ") + signStyle.Render(strings.Join(d.DreamSigns, ", ")))
	}
	if selected && strings.TrimSpace(d.Emotions) != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Emotions: ") + d.Emotions)
	}
	if it.Pending {
		b.WriteString("\n")
		b.WriteString(pendingStyle.Render(fmt.Sprintf("Delete this dream? %s confirm • n cancel", m.keys.Confirm)))
	}

	if selected {
		return selectedEntry.Render(b.String())
	}
	return entryStyle.Render(b.String())
}

func (m Model) renderPagination() string {
	v := m.view
	w := v.Window
	switch w.Mode {
	case display.LimitEndless:
		if v.HasMore {
			return dimStyle.Render(fmt.Sprintf("Showing %d of %d dreams • %s for more", w.End-w.Start, v.Filtered, m.keys.LoadMore))
		}
		if v.Filtered > 0 {
			return dimStyle.Render(fmt.Sprintf("All %d dreams loaded", v.Filtered))
		}
	case display.LimitFixed:
		if w.TotalPages <= 1 {
			return ""
		}
		parts := make([]string, 0, len(v.Strip))
		for _, p := range v.Strip {
			switch {
			case p.Ellipsis:
				parts = append(parts, "…")
			case p.Current:
				parts = append(parts, currentPage.Render(strconv.Itoa(p.Page)))
			default:
				parts = append(parts, strconv.Itoa(p.Page))
			}
		}
		return fmt.Sprintf("%s  %s", strings.Join(parts, " "), dimStyle.Render(fmt.Sprintf("Page %d of %d (%d dreams)", w.Page, w.TotalPages, v.Filtered)))
	}
	return ""
}

func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder
	if f.dreamID == "" {
		b.WriteString("New dream\n\n")
	} else {
		b.WriteString("Edit dream\n\n")
	}
	for i, name := range formFields() {
		prefix := " "
		if i == f.index {
			prefix = ">"
		}
		val := f.values[i]
		if i == f.index {
			if i == fieldContent {
				val = "\n" + m.area.View()
			} else {
				val = m.input.View()
			}
		} else if strings.TrimSpace(val) == "" {
			val = dimStyle.Render("(empty)")
		} else if i == fieldContent {
			val = truncate.StringWithTail(strings.ReplaceAll(val, "\n", " "), 50, "…")
		}
		b.WriteString(fmt.Sprintf("%s %-12s : %s\n", prefix, name, val))
	}
	if f.index == fieldTags || f.index == fieldDreamSigns {
		b.WriteString(dimStyle.Render("ctrl+y accepts a suggestion"))
	}
	return b.String()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
