package display

import (
	"sync"
	"time"
)

// EndlessState tracks the endless scroll window.
type EndlessState struct {
	Enabled    bool
	Loaded     int
	Loading    bool
	LastScroll time.Time
}

// ScrollMetrics is the scroll position reported by a UI. Units are whatever
// the UI measures in; the threshold is compared in the same unit.
type ScrollMetrics struct {
	ScrollTop     int
	Viewport      int
	ContentHeight int
}

// NearBottom reports whether the viewport bottom is within threshold of the
// end of the content.
func (m ScrollMetrics) NearBottom(threshold int) bool {
	return m.ScrollTop+m.Viewport >= m.ContentHeight-threshold
}

// ScrollBus fans scroll reports out to listeners. The engine listens only
// while endless mode is active.
type ScrollBus struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(ScrollMetrics)
}

func NewScrollBus() *ScrollBus {
	return &ScrollBus{listeners: make(map[int]func(ScrollMetrics))}
}

// Subscribe registers fn and returns the function that removes it.
func (b *ScrollBus) Subscribe(fn func(ScrollMetrics)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

func (b *ScrollBus) Publish(m ScrollMetrics) {
	b.mu.Lock()
	fns := make([]func(ScrollMetrics), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

func (b *ScrollBus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
