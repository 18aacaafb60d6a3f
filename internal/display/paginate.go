package display

// Window is the slice of the filtered list shown for one refresh.
type Window struct {
	Mode       LimitMode
	Start      int
	End        int
	Page       int
	TotalPages int
	PerPage    int
}

func (w Window) HasPrev() bool { return w.Mode == LimitFixed && w.Page > 1 }
func (w Window) HasNext() bool { return w.Mode == LimitFixed && w.Page < w.TotalPages }

// Paginate computes the visible range of total items. In fixed mode page is
// clamped into [1, TotalPages]; in all mode the page resets to 1; in endless
// mode the first min(loaded, total) items are shown.
func Paginate(total int, limit Limit, page, loaded int) Window {
	if total < 0 {
		total = 0
	}
	switch limit.Mode {
	case LimitAll:
		return Window{Mode: LimitAll, Start: 0, End: total, Page: 1, TotalPages: 1}
	case LimitEndless:
		end := loaded
		if end > total {
			end = total
		}
		if end < 0 {
			end = 0
		}
		return Window{Mode: LimitEndless, Start: 0, End: end, Page: 1, TotalPages: 1}
	}

	per := clamp(limit.PerPage, MinPageSize, MaxPageSize)
	pages := (total + per - 1) / per
	if pages < 1 {
		pages = 1
	}
	page = clamp(page, 1, pages)
	start := (page - 1) * per
	end := start + per
	if end > total {
		end = total
	}
	return Window{Mode: LimitFixed, Start: start, End: end, Page: page, TotalPages: pages, PerPage: per}
}

// PageItem is one entry of the numbered page strip. Ellipsis items have
// Page 0.
type PageItem struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// PageStrip lists the page buttons for current of total pages, using at
// most maxVisible entries (ellipsis markers included). When total exceeds
// maxVisible the first and last page stay visible around a window of pages
// near current, and the gaps collapse into ellipsis markers. A single page
// needs no strip.
func PageStrip(current, total, maxVisible int) []PageItem {
	if total <= 1 {
		return nil
	}
	current = clamp(current, 1, total)
	if maxVisible < 5 {
		maxVisible = 5
	}

	var items []PageItem
	add := func(p int) {
		items = append(items, PageItem{Page: p, Current: p == current})
	}
	if total <= maxVisible {
		for p := 1; p <= total; p++ {
			add(p)
		}
		return items
	}

	gap := PageItem{Ellipsis: true}
	add(1)
	switch {
	case current <= maxVisible-3:
		for p := 2; p <= maxVisible-2; p++ {
			add(p)
		}
		items = append(items, gap)
	case current >= total-(maxVisible-4):
		items = append(items, gap)
		for p := total - (maxVisible - 3); p < total; p++ {
			add(p)
		}
	default:
		radius := (maxVisible - 5) / 2
		items = append(items, gap)
		for p := current - radius; p <= current+radius; p++ {
			add(p)
		}
		items = append(items, gap)
	}
	add(total)
	return items
}
