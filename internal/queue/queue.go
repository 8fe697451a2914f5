// Package queue implements the bounded heap used for top-k overlap ranking.
package queue

// PriorityQueueItem represents an item in the priority queue.
type PriorityQueueItem struct {
	Seq   uint32 // Seq is the insertion position of the ranked example.
	Score uint64 // Score is the overlap of the example with the query.
}

// better reports whether a ranks strictly ahead of b: higher score first,
// equal scores in insertion order.
func better(a, b PriorityQueueItem) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Seq < b.Seq
}

// PriorityQueue keeps the worst retained item on top so that a bounded
// queue can evict it in O(log k).
type PriorityQueue struct {
	items []PriorityQueueItem
}

// New initializes a new priority queue with the given capacity hint.
func New(capacity int) *PriorityQueue {
	return &PriorityQueue{
		items: make([]PriorityQueueItem, 0, capacity),
	}
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) PushItem(item PriorityQueueItem) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushItemBounded inserts an item into a heap holding at most capacity items.
// If the heap is full the item replaces the top only if it ranks ahead of it.
func (pq *PriorityQueue) PushItemBounded(item PriorityQueueItem, capacity int) {
	if capacity <= 0 {
		return
	}
	if len(pq.items) < capacity {
		pq.PushItem(item)
		return
	}
	if better(item, pq.items[0]) {
		pq.items[0] = item
		pq.siftDown(0)
	}
}

// PopItem removes and returns the worst retained item.
func (pq *PriorityQueue) PopItem() (PriorityQueueItem, bool) {
	n := len(pq.items)
	if n == 0 {
		return PriorityQueueItem{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items[n-1] = PriorityQueueItem{}
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// Drain empties the queue and returns its items best first.
func (pq *PriorityQueue) Drain() []PriorityQueueItem {
	out := make([]PriorityQueueItem, len(pq.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = pq.PopItem()
	}
	return out
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.swap(i, p)
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		worst := l
		r := l + 1
		if r < n && pq.less(r, l) {
			worst = r
		}
		if !pq.less(worst, i) {
			return
		}
		pq.swap(i, worst)
		i = worst
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// less reports whether the element with index i ranks behind the element with index j.
func (pq *PriorityQueue) less(i, j int) bool {
	return better(pq.items[j], pq.items[i])
}

// swap swaps the elements with indexes i and j.
func (pq *PriorityQueue) swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}
