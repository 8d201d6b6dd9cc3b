package logbus

import (
	"sync"

	"github.com/theyonatan/multiverse/pkg/metrics"
)

// DefaultRingCapacity bounds the in-memory retention ring.
const DefaultRingCapacity = 1000

// Ring retains the most recent entries for query-style access by
// front-ends. It is fed from a bus subscription and trims from the head
// when full. The bus itself has no persistence.
type Ring struct {
	mu     sync.RWMutex
	buf    []Entry
	cap    int
	stopCh chan struct{}
}

// NewRing creates a retention ring with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Ring{
		buf:    make([]Entry, 0, capacity),
		cap:    capacity,
		stopCh: make(chan struct{}),
	}
}

// Follow subscribes to the bus and appends entries until Stop is called.
func (r *Ring) Follow(bus *Bus) {
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case entry, ok := <-sub:
				if !ok {
					return
				}
				r.Append(entry)
			case <-r.stopCh:
				return
			}
		}
	}()
}

// Stop ends a Follow loop.
func (r *Ring) Stop() {
	close(r.stopCh)
}

// Append records one entry, evicting the oldest when full.
func (r *Ring) Append(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == r.cap {
		copy(r.buf, r.buf[1:])
		r.buf = r.buf[:r.cap-1]
	}
	r.buf = append(r.buf, entry)
	metrics.LogEntriesTotal.WithLabelValues(string(entry.Level)).Inc()
}

// Tail returns the most recent n entries, oldest first. n <= 0 returns
// nothing; n larger than the retained window returns the whole window.
func (r *Ring) Tail(n int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	if n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]Entry, n)
	copy(out, r.buf[len(r.buf)-n:])
	return out
}

// Len returns the number of retained entries.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buf)
}
