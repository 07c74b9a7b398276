package services

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Outbox runs best-effort side effects (emails, PDF rendering, audit
// writes) off the request path. Lifecycle methods enqueue and return as
// soon as their own state transition is durable; a failed effect is
// logged and swallowed, never propagated to the caller.
type Outbox struct {
	log  *logrus.Logger
	jobs chan outboxJob
	wg   sync.WaitGroup

	// synchronous mode executes jobs inline; used by tests so effects
	// finish before assertions run. Failure semantics are identical.
	synchronous bool

	closeOnce sync.Once
}

type outboxJob struct {
	name string
	fn   func() error
}

// NewOutbox starts a single dispatch worker with the given buffer.
func NewOutbox(log *logrus.Logger, buffer int) *Outbox {
	o := &Outbox{log: log, jobs: make(chan outboxJob, buffer)}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for job := range o.jobs {
			o.run(job)
		}
	}()
	return o
}

// NewSyncOutbox executes every job inline.
func NewSyncOutbox(log *logrus.Logger) *Outbox {
	return &Outbox{log: log, synchronous: true}
}

func (o *Outbox) run(job outboxJob) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("job", job.name).Errorf("side effect panicked: %v", r)
		}
	}()
	if err := job.fn(); err != nil {
		o.log.WithField("job", job.name).WithError(err).Warn("side effect failed")
	}
}

// Enqueue schedules fn. When the buffer is full the job runs inline
// rather than blocking the request or being dropped.
func (o *Outbox) Enqueue(name string, fn func() error) {
	job := outboxJob{name: name, fn: fn}
	if o.synchronous {
		o.run(job)
		return
	}
	select {
	case o.jobs <- job:
	default:
		o.run(job)
	}
}

// Close drains pending jobs and stops the worker.
func (o *Outbox) Close() {
	if o.synchronous {
		return
	}
	o.closeOnce.Do(func() {
		close(o.jobs)
	})
	o.wg.Wait()
}
