package display

import (
	"errors"
	"sync"
	"time"
)

var ErrNotPending = errors.New("delete was not requested for this dream")

type DeleteState int

const (
	StateNormal DeleteState = iota
	StatePendingDelete
)

func (s DeleteState) String() string {
	if s == StatePendingDelete {
		return "pending-delete"
	}
	return "normal"
}

// Deletions tracks the per-dream two step delete. A request arms a timer;
// when it fires before a confirm or cancel the dream reverts to normal and
// onRevert is called.
type Deletions struct {
	timeout  time.Duration
	onRevert func(id string)

	mu      sync.Mutex
	seq     uint64
	pending map[string]pendingDelete
}

type pendingDelete struct {
	timer *time.Timer
	seq   uint64
}

func NewDeletions(timeout time.Duration, onRevert func(id string)) *Deletions {
	return &Deletions{
		timeout:  timeout,
		onRevert: onRevert,
		pending:  make(map[string]pendingDelete),
	}
}

// Request moves id to pending, rearming the timer if it already was.
func (d *Deletions) Request(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[id]; ok {
		p.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending[id] = pendingDelete{
		seq:   seq,
		timer: time.AfterFunc(d.timeout, func() { d.expire(id, seq) }),
	}
}

// Cancel returns id to normal. It reports whether id was pending.
func (d *Deletions) Cancel(id string) bool {
	return d.take(id)
}

func (d *Deletions) State(id string) DeleteState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.pending[id]; ok {
		return StatePendingDelete
	}
	return StateNormal
}

func (d *Deletions) IsPending(id string) bool {
	return d.State(id) == StatePendingDelete
}

// take clears the pending state of id, reporting whether it existed.
func (d *Deletions) take(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[id]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, id)
	return true
}

func (d *Deletions) expire(id string, seq uint64) {
	d.mu.Lock()
	p, ok := d.pending[id]
	if !ok || p.seq != seq {
		d.mu.Unlock()
		return
	}
	delete(d.pending, id)
	d.mu.Unlock()
	if d.onRevert != nil {
		d.onRevert(id)
	}
}

// Stop cancels every pending timer without reverting callbacks.
func (d *Deletions) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, id)
	}
}
