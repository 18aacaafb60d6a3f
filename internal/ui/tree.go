package ui

import (
	"strconv"

	"dreamlog/internal/action"
	"dreamlog/internal/display"
)

// Control ids shared with the web page.
const (
	idSearchBox    = "searchBox"
	idFilterSelect = "filterSelect"
	idSortSelect   = "sortSelect"
	idLimitSelect  = "limitSelect"
	idEntries      = "entriesContainer"
	idPagination   = "paginationContainer"
	idDreamForm    = "dreamForm"
)

func attrs(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// buildTree mirrors a view as the same element structure the HTML page
// has, so key presses can be delivered to the router as clicks and changes
// on concrete controls.
func buildTree(v display.View) *action.Node {
	root := action.NewNode("main", nil)

	controls := root.Append(action.NewNode("form", attrs("id", "controls")))
	controls.Append(action.NewNode("input", attrs("id", idSearchBox, action.AttrAction, string(action.Search))))
	for _, id := range []string{idFilterSelect, idSortSelect, idLimitSelect} {
		controls.Append(action.NewNode("select", attrs("id", id, action.AttrAction, string(action.Filter))))
	}
	controls.Append(action.NewNode("button", attrs(action.AttrAction, string(action.ClearFilters))))

	form := root.Append(action.NewNode("form", attrs("id", idDreamForm)))
	form.Append(action.NewNode("button", attrs(action.AttrAction, string(action.SaveDream))))

	entries := root.Append(action.NewNode("section", attrs("id", idEntries, action.AttrAction, string(action.Scroll))))
	for _, it := range v.Items {
		id := it.Dream.ID
		article := entries.Append(action.NewNode("article", attrs(action.AttrDreamID, id)))
		article.Append(action.NewNode("h3", nil))
		bar := article.Append(action.NewNode("div", attrs("class", "entry-actions")))
		var kinds []action.Kind
		switch {
		case it.Editing:
			kinds = []action.Kind{action.SaveEdit, action.CancelEdit}
		case it.Pending:
			kinds = []action.Kind{action.ConfirmDelete, action.CancelDelete}
		default:
			kinds = []action.Kind{action.EditDream, action.DeleteDream}
		}
		for _, k := range kinds {
			bar.Append(action.NewNode("button", attrs(action.AttrAction, string(k), action.AttrDreamID, id)))
		}
	}

	nav := root.Append(action.NewNode("nav", attrs("id", idPagination)))
	w := v.Window
	switch w.Mode {
	case display.LimitFixed:
		if w.HasPrev() {
			nav.Append(action.NewNode("button", attrs(action.AttrAction, string(action.PrevPage))))
		}
		for _, p := range v.Strip {
			if p.Ellipsis || p.Current {
				continue
			}
			nav.Append(action.NewNode("button", attrs(action.AttrAction, string(action.GoToPage), action.AttrPage, strconv.Itoa(p.Page))))
		}
		if w.HasNext() {
			nav.Append(action.NewNode("button", attrs(action.AttrAction, string(action.NextPage))))
		}
	case display.LimitEndless:
		if v.HasMore {
			nav.Append(action.NewNode("button", attrs(action.AttrAction, string(action.LoadMore))))
		}
	}
	return root
}

func byID(id string) func(*action.Node) bool {
	return func(n *action.Node) bool {
		v, _ := n.Attr("id")
		return v == id
	}
}

func byPage(page int) func(*action.Node) bool {
	want := strconv.Itoa(page)
	return func(n *action.Node) bool {
		p, _ := n.Attr(action.AttrPage)
		return p == want && action.ByAction(action.GoToPage, "")(n)
	}
}
