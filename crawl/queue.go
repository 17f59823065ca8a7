package crawl

// Queue is a bounded FIFO of URLs that admits each URL once.
type Queue struct {
	items []string
	seen  map[string]struct{}
	next  int
	limit int
}

// NewQueue creates a Queue holding at most limit URLs; limit <= 0 means
// unbounded.
func NewQueue(limit int) *Queue {
	return &Queue{seen: make(map[string]struct{}), limit: limit}
}

// Add enqueues u unless it was seen before or the queue is full.
// It reports whether u was admitted.
func (q *Queue) Add(u string) bool {
	if _, dup := q.seen[u]; dup || q.Full() {
		return false
	}
	q.seen[u] = struct{}{}
	q.items = append(q.items, u)
	return true
}

// Full reports whether the limit has been reached.
func (q *Queue) Full() bool {
	return q.limit > 0 && len(q.items) >= q.limit
}

func (q *Queue) HasNext() bool { return q.next < len(q.items) }

// Next pops the oldest unprocessed URL. Callers check HasNext first.
func (q *Queue) Next() string {
	u := q.items[q.next]
	q.next++
	return u
}

// Len is the number of admitted URLs.
func (q *Queue) Len() int { return len(q.items) }

// All returns every admitted URL in admission order.
func (q *Queue) All() []string {
	out := make([]string, len(q.items))
	copy(out, q.items)
	return out
}
