package crawler

import (
	"sync"
	"time"
)

// frontier is the shared queue of discovered-but-not-yet-fetched URLs.
// It tracks outstanding work (enqueued items not yet marked Done) so the
// engine can detect a full drain without racing on momentary emptiness:
// an empty queue with outstanding > 0 means some worker may still push.
type frontier struct {
	mu          sync.Mutex
	items       []string
	outstanding int

	stop     chan struct{}
	stopOnce sync.Once
}

func newFrontier() *frontier {
	return &frontier{stop: make(chan struct{})}
}

// Push enqueues a target. Pushes after Stop are dropped; workers are
// draining and nothing would claim them.
func (f *frontier) Push(target string) {
	select {
	case <-f.stop:
		return
	default:
	}

	f.mu.Lock()
	f.items = append(f.items, target)
	f.outstanding++
	f.mu.Unlock()
}

// Pop returns the next target in insertion order, blocking up to timeout.
// It returns ok=false when the wait times out or the frontier is
// stopping, so idle workers periodically recheck their exit conditions.
func (f *frontier) Pop(timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)

	for {
		select {
		case <-f.stop:
			return "", false
		default:
		}

		f.mu.Lock()
		if len(f.items) > 0 {
			target := f.items[0]
			f.items = f.items[1:]
			f.mu.Unlock()
			return target, true
		}
		f.mu.Unlock()

		if !time.Now().Before(deadline) {
			return "", false
		}

		select {
		case <-f.stop:
			return "", false
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Done marks one popped item as fully processed (claimed or discarded,
// including any enqueues it produced).
func (f *frontier) Done() {
	f.mu.Lock()
	f.outstanding--
	f.mu.Unlock()
}

// Drained reports whether every enqueued item has been processed.
func (f *frontier) Drained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outstanding == 0
}

// Len returns the number of queued items.
func (f *frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Stop moves the frontier into draining: queued items are abandoned,
// every blocked Pop unblocks, and future pushes are dropped. Idempotent.
func (f *frontier) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

// Stopping reports whether Stop has been requested.
func (f *frontier) Stopping() bool {
	select {
	case <-f.stop:
		return true
	default:
		return false
	}
}
