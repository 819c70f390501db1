package listview

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period applied to raw search input
// before it reaches the fetch orchestrator.
const DefaultSearchDebounce = 400 * time.Millisecond

// debouncer runs a callback once no new trigger has arrived for the
// configured delay. A newer trigger replaces the pending one.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, cancelling any pending run.
func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending run and rejects future triggers.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
