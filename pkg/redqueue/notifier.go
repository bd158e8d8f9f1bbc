package redqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sre-norns/catalog/pkg/catalog"
)

// TaskType of change notifications published after successful writes
const TaskType = "record:changed"

var ErrInvalidEvent = fmt.Errorf("change event has no kind")

func UnmarshalEvent(msg *asynq.Task) (catalog.ChangeEvent, error) {
	var event catalog.ChangeEvent
	if err := json.Unmarshal(msg.Payload(), &event); err != nil {
		return event, fmt.Errorf("failed to decode %q task: %w", msg.Type(), err)
	}

	return event, nil
}

func MarshalEvent(event catalog.ChangeEvent) (*asynq.Task, error) {
	if event.Kind == "" {
		return nil, ErrInvalidEvent
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskType, data), nil
}

// Ping checks that the redis server behind the queue is reachable
func Ping(ctx context.Context, redisAddr string) error {
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("could not connect to redis (%s): %w", redisAddr, err)
	}

	return nil
}

// Notifier publishes change events into a redis backed asynq queue
type Notifier struct {
	totalErrors    uint64
	totalPublished uint64

	client *asynq.Client
	logger log.Logger
}

func NewNotifier(redisAddr string, logger log.Logger) *Notifier {
	return &Notifier{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		logger: logger,
	}
}

func (n *Notifier) Close() error {
	if n == nil || n.client == nil {
		return nil
	}

	return n.client.Close()
}

func (n *Notifier) Notify(ctx context.Context, event catalog.ChangeEvent) error {
	task, err := MarshalEvent(event)
	if err != nil {
		atomic.AddUint64(&n.totalErrors, 1)
		return err
	}

	info, err := n.client.EnqueueContext(ctx, task, asynq.MaxRetry(1))
	if err != nil {
		atomic.AddUint64(&n.totalErrors, 1)
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	atomic.AddUint64(&n.totalPublished, 1)
	level.Debug(n.logger).Log("msg", "published change event", "task", info.ID, "kind", event.Kind, "op", event.Operation, "key", event.Key)
	return nil
}

// Stats returns the number of published events and publishing errors so far
func (n *Notifier) Stats() (published, errors uint64) {
	return atomic.LoadUint64(&n.totalPublished), atomic.LoadUint64(&n.totalErrors)
}

// HandlerFunc adapts a change event handler to an asynq task handler
func HandlerFunc(handle func(ctx context.Context, event catalog.ChangeEvent) error) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := UnmarshalEvent(task)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		return handle(ctx, event)
	}
}
