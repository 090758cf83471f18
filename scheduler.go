package reacton

import "container/heap"

// levelItem is one pending recomputation, ordered by the level its Ref held
// at enqueue time.
type levelItem struct {
	ref   *Ref
	level int
	index int
}

// levelHeap is a container/heap min-heap keyed by level, so Scheduler always
// hands back the lowest-level pending node next — guaranteeing a node's
// sources are resolved (or already queued ahead of it) before it recomputes
// (spec §4.2). Grounded in dshills-langgraph-go's Frontier/workHeap
// priority scheduler, simplified from its deterministic-tiebreak hashing
// (not needed here: two nodes at the same level have no dependency between
// them, so their relative processing order cannot affect the result).
type levelHeap []*levelItem

func (h levelHeap) Len() int            { return len(h) }
func (h levelHeap) Less(i, j int) bool  { return h[i].level < h[j].level }
func (h levelHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *levelHeap) Push(x any) {
	item := x.(*levelItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *levelHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// scheduler is the Store's dirty queue: a level-ordered, deduplicated set of
// Refs awaiting recomputation. Because graph levels strictly increase along
// every edge, draining it one item at a time — even while new items are
// being pushed mid-drain by the very items being processed — always
// produces a valid topological walk; no separate "wave" bookkeeping is
// needed for ordinary propagation.
type scheduler struct {
	heap   levelHeap
	queued map[*Ref]bool
}

func newScheduler() *scheduler {
	return &scheduler{queued: make(map[*Ref]bool)}
}

// enqueue adds refs not already pending, using level(ref) at time of push.
func (s *scheduler) enqueue(refs []*Ref, level func(*Ref) int) {
	for _, r := range refs {
		if s.queued[r] {
			continue
		}
		s.queued[r] = true
		heap.Push(&s.heap, &levelItem{ref: r, level: level(r)})
	}
}

func (s *scheduler) pending() bool { return s.heap.Len() > 0 }

// popMin removes and returns the lowest-level pending Ref.
func (s *scheduler) popMin() *Ref {
	item := heap.Pop(&s.heap).(*levelItem)
	delete(s.queued, item.ref)
	return item.ref
}
