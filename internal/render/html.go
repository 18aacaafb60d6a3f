// Package render produces the HTML fragments for the dream list and the
// page around it. Interactive elements carry data-action attributes that
// the action router resolves, and each one sits in a small form so the
// page also works as plain form posts.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"dreamlog/internal/action"
	"dreamlog/internal/display"
	"dreamlog/internal/dream"
)

const (
	EntriesID    = "entriesContainer"
	PaginationID = "paginationContainer"

	// ActionPath is where every form posts.
	ActionPath = "/action"
)

// Form field names shared with the web handler.
const (
	FieldAction  = "action"
	FieldDreamID = "dreamId"
	FieldPage    = "page"
	FieldType    = "type"
)

const errorFragment = `<article class="dream-entry dream-error" role="alert">Error displaying dream</article>`

type ItemState struct {
	Pending bool
	Editing bool
}

// Dream renders one entry. A nil record renders as the empty string and a
// record without an id as an inline error fragment.
func Dream(d *dream.Dream, st ItemState) string {
	if d == nil {
		return ""
	}
	if strings.TrimSpace(d.ID) == "" {
		return errorFragment
	}

	class := "dream-entry"
	if d.IsLucid {
		class += " lucid"
	}
	if st.Pending {
		class += " pending-delete"
	}
	if st.Editing {
		class += " editing"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<article class="%s" %s="%s">`, class, action.AttrDreamID, EscapeAttr(d.ID))
	if st.Editing {
		writeEditForm(&b, d)
		b.WriteString(`</article>`)
		return b.String()
	}

	b.WriteString(`<header class="dream-header">`)
	fmt.Fprintf(&b, `<h3 class="dream-title">%s</h3>`, EscapeText(d.Title))
	fmt.Fprintf(&b, `<time class="dream-date" datetime="%s">%s</time>`, EscapeAttr(d.Timestamp), EscapeText(d.Display()))
	if d.IsLucid {
		b.WriteString(`<span class="lucid-badge">Lucid</span>`)
	}
	b.WriteString(`</header>`)

	fmt.Fprintf(&b, `<div class="dream-content">%s</div>`, strings.ReplaceAll(EscapeText(d.Content), "\n", "<br>"))
	if e := strings.TrimSpace(d.Emotions); e != "" {
		fmt.Fprintf(&b, `<div class="dream-emotions"><span class="label">Emotions:</span> %s</div>`, EscapeText(e))
	}
	writeGroup(&b, "dream-tags", "Tags:", "tag", d.Tags)
	writeGroup(&b, "dream-signs", "Dream Signs:", "dream-sign", d.DreamSigns)

	b.WriteString(`<div class="entry-actions">`)
	if st.Pending {
		writeForm(&b, d.ID, 0,
			button(action.ConfirmDelete, d.ID, 0, "Confirm Delete", "btn btn-danger"),
			button(action.CancelDelete, d.ID, 0, "Cancel", "btn"),
		)
	} else {
		writeForm(&b, d.ID, 0,
			button(action.EditDream, d.ID, 0, "Edit", "btn"),
			button(action.DeleteDream, d.ID, 0, "Delete", "btn btn-danger"),
		)
	}
	b.WriteString(`</div></article>`)
	return b.String()
}

func writeGroup(b *strings.Builder, class, label, itemClass string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, `<div class="%s"><span class="label">%s</span>`, class, label)
	for _, it := range items {
		fmt.Fprintf(b, ` <span class="%s">%s</span>`, itemClass, EscapeText(it))
	}
	b.WriteString(`</div>`)
}

func writeEditForm(b *strings.Builder, d *dream.Dream) {
	fmt.Fprintf(b, `<form class="edit-form" method="post" action="%s">`, ActionPath)
	fmt.Fprintf(b, `<input type="hidden" name="%s" value="%s">`, FieldDreamID, EscapeAttr(d.ID))
	fmt.Fprintf(b, `<input type="text" name="title" value="%s" aria-label="Title">`, EscapeAttr(d.Title))
	fmt.Fprintf(b, `<textarea name="content" aria-label="Dream" required>%s</textarea>`, EscapeText(d.Content))
	fmt.Fprintf(b, `<input type="text" name="emotions" value="%s" aria-label="Emotions">`, EscapeAttr(d.Emotions))
	fmt.Fprintf(b, `<input type="text" name="tags" value="%s" aria-label="Tags">`, EscapeAttr(strings.Join(d.Tags, ", ")))
	fmt.Fprintf(b, `<input type="text" name="dreamSigns" value="%s" aria-label="Dream signs">`, EscapeAttr(strings.Join(d.DreamSigns, ", ")))
	checked := ""
	if d.IsLucid {
		checked = " checked"
	}
	fmt.Fprintf(b, `<label><input type="checkbox" name="isLucid" value="true"%s> Lucid</label>`, checked)
	b.WriteString(button(action.SaveEdit, d.ID, 0, "Save", "btn btn-primary"))
	b.WriteString(button(action.CancelEdit, d.ID, 0, "Cancel", "btn"))
	b.WriteString(`</form>`)
}

// button renders a submit button that names its action both for the router
// (data attributes) and for form posts (name/value).
func button(kind action.Kind, dreamID string, page int, label, class string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<button type="submit" class="%s" name="%s" value="%s" %s="%s"`,
		class, FieldAction, EscapeAttr(string(kind)), action.AttrAction, EscapeAttr(string(kind)))
	if dreamID != "" {
		fmt.Fprintf(&b, ` %s="%s"`, action.AttrDreamID, EscapeAttr(dreamID))
	}
	if page > 0 {
		fmt.Fprintf(&b, ` %s="%d"`, action.AttrPage, page)
	}
	fmt.Fprintf(&b, `>%s</button>`, EscapeText(label))
	return b.String()
}

func writeForm(b *strings.Builder, dreamID string, page int, buttons ...string) {
	fmt.Fprintf(b, `<form class="inline-form" method="post" action="%s">`, ActionPath)
	if dreamID != "" {
		fmt.Fprintf(b, `<input type="hidden" name="%s" value="%s">`, FieldDreamID, EscapeAttr(dreamID))
	}
	if page > 0 {
		fmt.Fprintf(b, `<input type="hidden" name="%s" value="%d">`, FieldPage, page)
	}
	for _, s := range buttons {
		b.WriteString(s)
	}
	b.WriteString(`</form>`)
}

// Entries renders the entries container for v.
func Entries(v display.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<section id="%s" class="entries">`, EntriesID)
	if len(v.Items) == 0 {
		msg := "No dreams recorded yet. Start by adding your first dream above!"
		switch {
		case v.Degraded:
			msg = "Your dreams could not be loaded right now."
		case v.Total > 0:
			msg = "No dreams match your current filters."
		}
		fmt.Fprintf(&b, `<p class="empty-state">%s</p>`, msg)
	}
	for _, it := range v.Items {
		b.WriteString(safeDream(it))
	}
	b.WriteString(`</section>`)
	return b.String()
}

func safeDream(it display.Item) (out string) {
	defer func() {
		if recover() != nil {
			out = errorFragment
		}
	}()
	d := it.Dream
	return Dream(&d, ItemState{Pending: it.Pending, Editing: it.Editing})
}

// Pagination renders the pagination container for v. It is empty in "all"
// mode and when everything fits on one page.
func Pagination(v display.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<nav id="%s" class="pagination" aria-label="Pagination">`, PaginationID)
	w := v.Window
	switch w.Mode {
	case display.LimitEndless:
		shown := w.End - w.Start
		if v.HasMore {
			fmt.Fprintf(&b, `<p class="endless-status">Showing %d of %d dreams</p>`, shown, v.Filtered)
			writeForm(&b, "", 0, button(action.LoadMore, "", 0, "Load More", "btn load-more"))
		} else if v.Filtered > 0 {
			fmt.Fprintf(&b, `<p class="endless-status">All %d dreams loaded</p>`, v.Filtered)
		}
	case display.LimitFixed:
		if w.TotalPages <= 1 {
			break
		}
		b.WriteString(`<div class="page-controls">`)
		if w.HasPrev() {
			writeForm(&b, "", 0, button(action.PrevPage, "", 0, "Previous", "btn page-prev"))
		}
		for _, p := range v.Strip {
			if p.Ellipsis {
				b.WriteString(`<span class="page-ellipsis">&hellip;</span>`)
				continue
			}
			if p.Current {
				fmt.Fprintf(&b, `<span class="page-current" aria-current="page">%d</span>`, p.Page)
				continue
			}
			writeForm(&b, "", p.Page, button(action.GoToPage, "", p.Page, strconv.Itoa(p.Page), "btn page-btn"))
		}
		if w.HasNext() {
			writeForm(&b, "", 0, button(action.NextPage, "", 0, "Next", "btn page-next"))
		}
		b.WriteString(`</div>`)
		fmt.Fprintf(&b, `<p class="page-info">Page %d of %d (%d dreams)</p>`, w.Page, w.TotalPages, v.Filtered)
	}
	b.WriteString(`</nav>`)
	return b.String()
}
