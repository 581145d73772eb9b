package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"careerhub/logger"

	"github.com/hibiken/asynq"
)

const TypeDeliverNotification = "notification:deliver"

// AsynqQueue persists notifications in Redis through asynq so they survive
// restarts; delivery, retries and archiving are handled by the asynq server.
type AsynqQueue struct {
	client     *asynq.Client
	server     *asynq.Server
	mux        *asynq.ServeMux
	sender     Sender
	maxRetries int
	log        *logger.Logger
}

var _ Notifier = (*AsynqQueue)(nil)

func NewAsynqQueue(redisURL string, sender Sender, opts QueueOptions, log *logger.Logger) (*AsynqQueue, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	log = log.With("component", "notification-asynq")

	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	q := &AsynqQueue{
		client:     asynq.NewClient(redisOpt),
		mux:        asynq.NewServeMux(),
		sender:     sender,
		maxRetries: opts.MaxRetries,
		log:        log,
	}
	q.server = asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: opts.Workers,
		Queues:      map[string]int{"notifications": 1},
		RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
			return backoff << uint(n)
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			if retried >= maxRetry {
				log.Error("notification dead-lettered", "task", task.Type(), "retried", retried, "error", err)
				return
			}
			log.Warn("notification delivery failed, retrying", "task", task.Type(), "retried", retried, "error", err)
		}),
		Logger: asynqLogger{log},
	})
	q.mux.HandleFunc(TypeDeliverNotification, q.handle)
	return q, nil
}

// Start runs the asynq server in the background.
func (q *AsynqQueue) Start() error {
	return q.server.Start(q.mux)
}

func (q *AsynqQueue) Stop() {
	q.server.Shutdown()
	if err := q.client.Close(); err != nil {
		q.log.Warn("close asynq client", "error", err)
	}
}

func (q *AsynqQueue) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	task := asynq.NewTask(TypeDeliverNotification, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.TaskID(n.ID),
		asynq.Queue("notifications"),
		asynq.MaxRetry(q.maxRetries),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	q.log.Debug("notification queued", "id", info.ID, "template", n.Template)
	return nil
}

func (q *AsynqQueue) handle(ctx context.Context, task *asynq.Task) error {
	var n Notification
	if err := json.Unmarshal(task.Payload(), &n); err != nil {
		return fmt.Errorf("unmarshal notification: %v: %w", err, asynq.SkipRetry)
	}
	msg, err := Render(n)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return q.sender.Send(ctx, msg)
}

type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal(fmt.Sprint(args...)) }
