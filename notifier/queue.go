package notifier

import (
	"context"
	"sync"
	"time"

	"careerhub/logger"
)

type QueueOptions struct {
	Workers    int
	Size       int
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles on each retry.
	Backoff time.Duration
	// OnDeadLetter, if set, is called once a notification is given up on.
	OnDeadLetter func(n Notification, err error)
}

// Queue is an in-process bounded work queue that renders and delivers
// notifications with retry and dead-letter logging.
type Queue struct {
	sender Sender
	opts   QueueOptions
	log    *logger.Logger

	jobs   chan Notification
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

var _ Notifier = (*Queue)(nil)

func NewQueue(sender Sender, opts QueueOptions, log *logger.Logger) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Size <= 0 {
		opts.Size = 64
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		sender: sender,
		opts:   opts,
		log:    log.With("component", "notification-queue"),
		jobs:   make(chan Notification, opts.Size),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the workers.
func (q *Queue) Start() {
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.log.Info("notification workers started", "workers", q.opts.Workers, "size", q.opts.Size)
}

// Notify enqueues without blocking; it fails when the buffer is full.
func (q *Queue) Notify(_ context.Context, n Notification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueStopped
	}
	select {
	case q.jobs <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop drains the buffered notifications and waits for the workers. Pending
// retry sleeps are cut short once ctx is done.
func (q *Queue) Stop(ctx context.Context) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		q.cancel()
		<-done
	}
	q.cancel()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for n := range q.jobs {
		q.deliver(n)
	}
}

func (q *Queue) deliver(n Notification) {
	msg, err := Render(n)
	if err != nil {
		// rendering is deterministic; retrying cannot help
		q.deadLetter(n, err)
		return
	}

	backoff := q.opts.Backoff
	for attempt := 0; ; attempt++ {
		err = q.sender.Send(q.ctx, msg)
		if err == nil {
			q.log.Debug("notification delivered", "id", n.ID, "template", n.Template, "attempt", attempt+1)
			return
		}
		if attempt >= q.opts.MaxRetries {
			break
		}
		q.log.Warn("notification delivery failed, retrying", "id", n.ID, "template", n.Template, "attempt", attempt+1, "error", err)
		select {
		case <-time.After(backoff):
		case <-q.ctx.Done():
			q.deadLetter(n, q.ctx.Err())
			return
		}
		backoff *= 2
	}
	q.deadLetter(n, err)
}

func (q *Queue) deadLetter(n Notification, err error) {
	q.log.Error("notification dead-lettered", "id", n.ID, "template", n.Template, "to", n.To.Email, "error", err)
	if q.opts.OnDeadLetter != nil {
		q.opts.OnDeadLetter(n, err)
	}
}
