package frontier

import (
	"sync"

	"linkscout/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain BFS ordering
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- validation

It is a data structure + policy module, not a pipeline executor.

Admission

A URL is marked visited the moment it is admitted, not when it is
fetched. Two concurrent workers discovering the same URL therefore
race on one mutex-guarded check, and exactly one wins. The visited
key is the canonical URL form, so trailing-slash and case variants
of one page occupy a single slot.
*/

type Frontier struct {
	mu      sync.Mutex
	pending *FIFOQueue[Entry]
	visited Set[string]
}

func NewFrontier() *Frontier {
	return &Frontier{
		pending: NewFIFOQueue[Entry](),
		visited: NewSet[string](),
	}
}

// Admit enqueues the entry unless its canonical form was admitted
// before. Returns true when the entry entered the queue.
func (f *Frontier) Admit(entry Entry) bool {
	key := urlutil.CanonicalKey(entry.targetURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.visited.Contains(key) {
		return false
	}
	f.visited.Add(key)
	f.pending.Enqueue(entry)
	return true
}

// Seen reports whether the URL's canonical form was admitted before,
// without admitting it.
func (f *Frontier) Seen(entry Entry) bool {
	key := urlutil.CanonicalKey(entry.targetURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.visited.Contains(key)
}

func (f *Frontier) Dequeue() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending.Dequeue()
}

// DequeueLevel drains every entry currently queued at the given depth.
// Entries at other depths stay queued in order.
func (f *Frontier) DequeueLevel(depth int) []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	var level []Entry
	var rest FIFOQueue[Entry]
	for {
		entry, ok := f.pending.Dequeue()
		if !ok {
			break
		}
		if entry.depth == depth {
			level = append(level, entry)
		} else {
			rest.Enqueue(entry)
		}
	}
	f.pending = &rest
	return level
}

func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending.Size()
}

func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.visited.Size()
}
