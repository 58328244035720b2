package scheduler

import "container/heap"

// taskHeap implements heap.Interface ordered by (priority desc, seq asc).
type taskHeap []*queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority != h[j].task.Priority {
		return h[i].task.Priority > h[j].task.Priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	qt := x.(*queuedTask)
	qt.index = len(*h)
	*h = append(*h, qt)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	qt := old[n-1]
	old[n-1] = nil
	qt.index = -1
	*h = old[:n-1]
	return qt
}

// taskQueue is the pending task queue. It is owned by the coordinator.
type taskQueue struct {
	items taskHeap
}

func newTaskQueue() *taskQueue {
	return &taskQueue{}
}

func (q *taskQueue) Len() int { return q.items.Len() }

func (q *taskQueue) Push(qt *queuedTask) {
	heap.Push(&q.items, qt)
}

func (q *taskQueue) Pop() *queuedTask {
	if q.items.Len() == 0 {
		return nil
	}
	return heap.Pop(&q.items).(*queuedTask)
}

func (q *taskQueue) Peek() *queuedTask {
	if q.items.Len() == 0 {
		return nil
	}
	return q.items[0]
}

// Remove takes qt out of the queue. It reports false if qt was not queued.
func (q *taskQueue) Remove(qt *queuedTask) bool {
	if qt.index < 0 || qt.index >= q.items.Len() || q.items[qt.index] != qt {
		return false
	}
	heap.Remove(&q.items, qt.index)
	return true
}

// Drain empties the queue and returns its content in dispatch order.
func (q *taskQueue) Drain() []*queuedTask {
	out := make([]*queuedTask, 0, q.items.Len())
	for q.items.Len() > 0 {
		out = append(out, heap.Pop(&q.items).(*queuedTask))
	}
	return out
}
