package service

import (
	"sync"
	"time"
)

// SearchDebouncer delays search input so only the latest query within
// delay is applied. A zero delay applies every query immediately.
type SearchDebouncer struct {
	delay time.Duration
	apply func(string)

	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	hasPending bool
	gen        uint64
}

// NewSearchDebouncer creates a debouncer that hands settled queries to apply.
func NewSearchDebouncer(delay time.Duration, apply func(string)) *SearchDebouncer {
	return &SearchDebouncer{delay: delay, apply: apply}
}

// Input records query and (re)arms the timer.
func (d *SearchDebouncer) Input(query string) {
	if d.delay <= 0 {
		d.apply(query)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.pending = query
	d.hasPending = true
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *SearchDebouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.hasPending {
		d.mu.Unlock()
		return
	}
	query := d.pending
	d.hasPending = false
	d.mu.Unlock()

	d.apply(query)
}

// Flush applies the pending query now, if any.
func (d *SearchDebouncer) Flush() {
	d.mu.Lock()
	d.stopLocked()
	query, ok := d.pending, d.hasPending
	d.hasPending = false
	d.mu.Unlock()

	if ok {
		d.apply(query)
	}
}

// Stop discards the pending query.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.hasPending = false
}

// Pending returns the query waiting to be applied.
func (d *SearchDebouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// stopLocked cancels the timer; a callback already running sees a newer
// generation and does nothing.
func (d *SearchDebouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
