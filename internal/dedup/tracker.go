// Package dedup keeps a bounded window of already-processed transaction
// hashes so the pipeline touches each transfer at most once.
package dedup

// Tracker is a bounded seen-set over transaction hashes. Once capacity is
// exceeded the oldest insertions are evicted first. Process-local only:
// nothing survives a restart.
type Tracker struct {
	capacity int
	seen     map[string]struct{}
	order    []string // insertion order
	head     int      // eviction index
}

// NewTracker builds a tracker holding at most capacity hashes.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = 1
	}
	return &Tracker{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
		order:    make([]string, 0, capacity),
	}
}

// IsNew reports whether txHash has not been seen within the window, and
// records it when new.
func (t *Tracker) IsNew(txHash string) bool {
	if _, ok := t.seen[txHash]; ok {
		return false
	}

	t.seen[txHash] = struct{}{}
	t.order = append(t.order, txHash)
	t.evict()
	return true
}

// Mark records txHash as seen without reporting. Used to warm the window
// from the store at startup.
func (t *Tracker) Mark(txHash string) {
	if _, ok := t.seen[txHash]; ok {
		return
	}
	t.seen[txHash] = struct{}{}
	t.order = append(t.order, txHash)
	t.evict()
}

// Len returns the number of hashes currently resident.
func (t *Tracker) Len() int {
	return len(t.seen)
}

func (t *Tracker) evict() {
	for len(t.seen) > t.capacity && t.head < len(t.order) {
		delete(t.seen, t.order[t.head])
		t.head++
	}

	// Compact the order slice once the dead prefix dominates.
	if t.head > 4096 && t.head*2 > len(t.order) {
		compacted := make([]string, len(t.order)-t.head, cap(t.order))
		copy(compacted, t.order[t.head:])
		t.order = compacted
		t.head = 0
	}
}
