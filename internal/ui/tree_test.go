package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamlog/internal/action"
	"dreamlog/internal/display"
	"dreamlog/internal/dream"
)

func kindsOf(nodes []*action.Node) []string {
	var out []string
	for _, n := range nodes {
		v, _ := n.Attr(action.AttrAction)
		out = append(out, v)
	}
	return out
}

func TestTreeEntryButtonsFollowItemState(t *testing.T) {
	pending := item("b", "Beta")
	pending.Pending = true
	editing := item("c", "Gamma")
	editing.Editing = true

	root := buildTree(pagedView(1, 1, 1, item("a", "Alpha"), pending, editing))

	bar := func(id string) []string {
		return kindsOf(root.FindAll(func(n *action.Node) bool {
			got, _ := n.Attr(action.AttrDreamID)
			return got == id && n.Tag() == "button"
		}))
	}
	assert.Equal(t, []string{"edit-dream", "delete-dream"}, bar("a"))
	assert.Equal(t, []string{"confirm-delete", "cancel-delete"}, bar("b"))
	assert.Equal(t, []string{"save-edit", "cancel-edit"}, bar("c"))
}

func TestTreeButtonsResolveToDream(t *testing.T) {
	root := buildTree(pagedView(1, 1, 1, item("a", "Alpha")))
	btn := root.Find(action.ByAction(action.DeleteDream, "a"))
	require.NotNil(t, btn)

	actx, ok := action.Extract(btn, action.DefaultMaxDepth)
	require.True(t, ok)
	assert.Equal(t, action.DeleteDream, actx.Kind)
	assert.Equal(t, "a", actx.DreamID)
}

func TestTreePagination(t *testing.T) {
	root := buildTree(pagedView(1, 10, 20))
	nav := root.Find(byID(idPagination))
	require.NotNil(t, nav)

	assert.NotNil(t, nav.Find(action.ByAction(action.PrevPage, "")))
	assert.NotNil(t, nav.Find(action.ByAction(action.NextPage, "")))
	assert.NotNil(t, root.Find(byPage(1)))
	assert.NotNil(t, root.Find(byPage(20)))
	assert.Nil(t, root.Find(byPage(10)), "current page has no button")
	assert.Nil(t, root.Find(byPage(5)), "collapsed pages have no button")

	last := buildTree(pagedView(1, 20, 20))
	assert.Nil(t, last.Find(action.ByAction(action.NextPage, "")))
}

func TestTreeEndless(t *testing.T) {
	v := display.View{Window: display.Window{Mode: display.LimitEndless}, HasMore: true}
	assert.NotNil(t, buildTree(v).Find(action.ByAction(action.LoadMore, "")))

	v.HasMore = false
	assert.Nil(t, buildTree(v).Find(action.ByAction(action.LoadMore, "")))
}

func TestTreeSelectsAreFilterControls(t *testing.T) {
	root := buildTree(display.View{})
	for _, id := range []string{idFilterSelect, idSortSelect, idLimitSelect} {
		n := root.Find(byID(id))
		require.NotNil(t, n, id)
		assert.Equal(t, "select", n.Tag())
		v, _ := n.Attr(action.AttrAction)
		assert.Equal(t, string(action.Filter), v)
	}
}

func TestEditFormRoundTrip(t *testing.T) {
	d := dream.Dream{
		ID:         "x",
		Title:      "Flying",
		Content:    "over the sea",
		Emotions:   "joy",
		Tags:       []string{"flying", "ocean"},
		DreamSigns: []string{"wings"},
		IsLucid:    true,
	}
	f := editForm(d)
	assert.Equal(t, "x", f.dreamID)
	assert.Equal(t, map[string]string{
		"title":      "Flying",
		"content":    "over the sea",
		"emotions":   "joy",
		"tags":       "flying, ocean",
		"dreamSigns": "wings",
		"isLucid":    "true",
	}, f.fieldValues())
	assert.True(t, f.hasContent())
	assert.False(t, newForm().hasContent())
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in, head, frag string
	}{
		{"", "", ""},
		{"fly", "", "fly"},
		{"flying, oc", "flying, ", "oc"},
		{"a,b,", "a,b, ", ""},
	}
	for _, tt := range tests {
		head, frag := splitList(tt.in)
		assert.Equal(t, tt.head, head, tt.in)
		assert.Equal(t, tt.frag, frag, tt.in)
	}
}

func TestWrapIndexAndYN(t *testing.T) {
	assert.Equal(t, 0, wrapIndex(6, 6))
	assert.Equal(t, 5, wrapIndex(-1, 6))
	assert.True(t, parseYN(" Yes "))
	assert.False(t, parseYN("nope"))
	assert.Equal(t, "y", boolToYN(true))
}

func TestCycleOrders(t *testing.T) {
	assert.Equal(t, display.FilterLucid, nextFilter(display.FilterAll))
	assert.Equal(t, display.FilterAll, nextFilter(display.FilterNonLucid))
	assert.Equal(t, display.SortNewest, nextSort(display.SortLongest))
	assert.Equal(t, "endless", nextLimit(display.Limit{Mode: display.LimitFixed, PerPage: 10}, 10))
	assert.Equal(t, "all", nextLimit(display.Limit{Mode: display.LimitEndless}, 10))
	assert.Equal(t, "10", nextLimit(display.Limit{Mode: display.LimitAll}, 10))
}
