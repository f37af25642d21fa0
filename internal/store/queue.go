package store

// writeQueue serializes every mutation-plus-persist cycle for one collection.
// A single goroutine drains jobs in submission order, so no two persists for
// the same collection are ever in flight at once and every job observes the
// effects of all jobs enqueued before it. Each store instance owns its own
// queue; there is no process-wide singleton.
type writeQueue struct {
	jobs chan func()
}

func newWriteQueue() *writeQueue {
	q := &writeQueue{jobs: make(chan func(), 16)}
	go q.run()
	return q
}

func (q *writeQueue) run() {
	for job := range q.jobs {
		job()
	}
}

// Do submits op and blocks until it has fully executed, including its
// persistence step. Once submitted an op always runs to completion; callers
// cannot cancel it mid-flight.
func (q *writeQueue) Do(op func() error) error {
	done := make(chan error, 1)
	q.jobs <- func() { done <- op() }
	return <-done
}

// Close stops the drain goroutine after all pending jobs have run.
func (q *writeQueue) Close() {
	close(q.jobs)
}
