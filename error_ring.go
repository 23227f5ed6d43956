package strata

import (
	"sync"
	"time"
)

// ErrorRecord is one failed table load, with the time it occurred.
type ErrorRecord struct {
	At  time.Time
	Err error
}

// errorRing is a thread-safe ring buffer of recent load failures.
type errorRing struct {
	mu      sync.RWMutex
	records []ErrorRecord
	size    int
	head    int
	count   int
}

// newErrorRing creates a ring buffer with the given capacity.
// If size is 0, the ring buffer is disabled.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{
		records: make([]ErrorRecord, size),
		size:    size,
	}
}

// push records a failure at the given time.
func (r *errorRing) push(at time.Time, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.head] = ErrorRecord{At: at, Err: err}
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// clear removes all records from the ring buffer.
func (r *errorRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		r.records[i] = ErrorRecord{}
	}
	r.head = 0
	r.count = 0
}

// all returns the recorded failures, oldest first.
func (r *errorRing) all() []ErrorRecord {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	result := make([]ErrorRecord, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.records[(start+i)%r.size]
	}
	return result
}
