package display

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

type FilterType string

const (
	FilterAll      FilterType = "all"
	FilterLucid    FilterType = "lucid"
	FilterNonLucid FilterType = "non-lucid"
)

func ParseFilterType(v string) FilterType {
	switch FilterType(strings.ToLower(strings.TrimSpace(v))) {
	case FilterLucid:
		return FilterLucid
	case FilterNonLucid:
		return FilterNonLucid
	default:
		return FilterAll
	}
}

type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortLucidFirst SortKey = "lucid-first"
	SortLongest    SortKey = "longest"
)

func ParseSortKey(v string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(v))) {
	case SortOldest:
		return SortOldest
	case SortLucidFirst:
		return SortLucidFirst
	case SortLongest:
		return SortLongest
	default:
		return SortNewest
	}
}

type LimitMode string

const (
	LimitFixed   LimitMode = "fixed"
	LimitAll     LimitMode = "all"
	LimitEndless LimitMode = "endless"
)

const (
	MinPageSize     = 1
	MaxPageSize     = 1000
	DefaultPageSize = 10
)

type Limit struct {
	Mode    LimitMode
	PerPage int
}

// ParseLimit reads the limit control: a positive integer clamped to
// [MinPageSize, MaxPageSize], "all" or "endless". Anything else falls back
// to a fixed page of fallback items.
func ParseLimit(v string, fallback int) Limit {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case string(LimitAll):
		return Limit{Mode: LimitAll}
	case string(LimitEndless):
		return Limit{Mode: LimitEndless}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		n = fallback
	}
	return Limit{Mode: LimitFixed, PerPage: clamp(n, MinPageSize, MaxPageSize)}
}

func (l Limit) String() string {
	if l.Mode == LimitFixed {
		return strconv.Itoa(l.PerPage)
	}
	return string(l.Mode)
}

// Query is the filter, sort and limit configuration of one refresh.
type Query struct {
	Search string
	Filter FilterType
	Sort   SortKey
	Limit  Limit
	Start  time.Time
	End    time.Time
}

func (q Query) Criteria() Criteria {
	return Criteria{Search: q.Search, Filter: q.Filter, Start: q.Start, End: q.End}
}

// Controls supplies the current query. It is read on every refresh.
type Controls interface {
	Query() Query
}

// ControlState is a Controls that UIs write into.
type ControlState struct {
	mu sync.RWMutex
	q  Query
}

func NewControlState(q Query) *ControlState {
	if q.Filter == "" {
		q.Filter = FilterAll
	}
	if q.Sort == "" {
		q.Sort = SortNewest
	}
	if q.Limit.Mode == "" {
		q.Limit = Limit{Mode: LimitFixed, PerPage: DefaultPageSize}
	}
	return &ControlState{q: q}
}

func (c *ControlState) Query() Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.q
}

// Update applies fn to the stored query.
func (c *ControlState) Update(fn func(*Query)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.q)
}

// ParseDate reads a YYYY-MM-DD date control in the local time zone. Empty
// or invalid input yields the zero time, meaning no bound.
func ParseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
