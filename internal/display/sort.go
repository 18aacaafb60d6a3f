package display

import (
	"slices"
	"time"
	"unicode/utf8"

	"dreamlog/internal/dream"
)

// SortDreams returns a sorted copy of records. The sort is stable for every
// key. Unparseable timestamps go last for the time based keys. If sorting
// fails the copy is returned unsorted.
func SortDreams(records []dream.Dream, key SortKey) (out []dream.Dream) {
	out = slices.Clone(records)
	if out == nil {
		out = []dream.Dream{}
	}

	type keyed struct {
		d     dream.Dream
		t     time.Time
		valid bool
	}
	items := make([]keyed, len(out))
	for i, d := range out {
		t, ok := d.Time()
		items[i] = keyed{d: d, t: t, valid: ok}
	}

	byTime := func(a, b keyed, newestFirst bool) int {
		switch {
		case !a.valid && !b.valid:
			return 0
		case !a.valid:
			return 1
		case !b.valid:
			return -1
		}
		c := a.t.Compare(b.t)
		if newestFirst {
			return -c
		}
		return c
	}

	var cmp func(a, b keyed) int
	switch key {
	case SortOldest:
		cmp = func(a, b keyed) int { return byTime(a, b, false) }
	case SortLucidFirst:
		cmp = func(a, b keyed) int {
			if a.d.IsLucid != b.d.IsLucid {
				if a.d.IsLucid {
					return -1
				}
				return 1
			}
			return byTime(a, b, true)
		}
	case SortLongest:
		cmp = func(a, b keyed) int {
			return -cmpInt64(int64(utf8.RuneCountInString(a.d.Content)), int64(utf8.RuneCountInString(b.d.Content)))
		}
	default:
		cmp = func(a, b keyed) int { return byTime(a, b, true) }
	}

	unsorted := slices.Clone(out)
	defer func() {
		if recover() != nil {
			out = unsorted
		}
	}()

	slices.SortStableFunc(items, cmp)
	for i := range items {
		out[i] = items[i].d
	}
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
