package catalog

import (
	"context"
	"time"

	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/wyrd"
)

// ChangeEvent describes a successful write to a record
type ChangeEvent struct {
	Kind      wyrd.Kind        `json:"kind" yaml:"kind"`
	Operation access.Operation `json:"operation" yaml:"operation"`
	Key       string           `json:"key" yaml:"key"`
	Actor     string           `json:"actor" yaml:"actor"`
	Time      time.Time        `json:"time" yaml:"time"`
}

// Notifier publishes change events to interested parties.
// A failed notification never fails the write that caused it.
type Notifier interface {
	Notify(ctx context.Context, event ChangeEvent) error
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, event ChangeEvent) error

func (f NotifierFunc) Notify(ctx context.Context, event ChangeEvent) error {
	return f(ctx, event)
}
