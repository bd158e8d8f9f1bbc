package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/wyrd"
)

type ReadableResourceApi[T any, K wyrd.ResourceKey] interface {
	// List all records of the type
	List(ctx context.Context, caller access.Caller) ([]T, error)

	// Get a single record given its key.
	// Returns *NotFoundError if the record doesn't exist.
	Get(ctx context.Context, caller access.Caller, id K) (T, error)
}

// ResourceApi is the full set of operations on a single record type
type ResourceApi[T any, K wyrd.ResourceKey] interface {
	ReadableResourceApi[T, K]

	// Create a new record, returns the stored record with its key resolved
	Create(ctx context.Context, caller access.Caller, entry T) (T, error)

	// Update replaces every field of an existing record. The key is taken from id only.
	Update(ctx context.Context, caller access.Caller, id K, entry T) (T, error)

	// Delete a single record identified by its key
	Delete(ctx context.Context, caller access.Caller, id K) (DeletedResponse, error)

	// Authorize checks if the caller may perform the operation without executing it
	Authorize(op access.Operation, caller access.Caller) error

	Descriptor() wyrd.Descriptor[T, K]
}

type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	policy   access.Policy
	notifier Notifier
	logger   log.Logger
	now      func() time.Time
}

func WithPolicy(policy access.Policy) ResourceOption {
	return func(o *resourceOptions) {
		o.policy = policy
	}
}

func WithNotifier(notifier Notifier) ResourceOption {
	return func(o *resourceOptions) {
		o.notifier = notifier
	}
}

func WithLogger(logger log.Logger) ResourceOption {
	return func(o *resourceOptions) {
		o.logger = logger
	}
}

type resourceApiImpl[T any, K wyrd.ResourceKey] struct {
	resourceOptions

	desc     wyrd.Descriptor[T, K]
	store    Store[T, K]
	validate *validator.Validate
}

// NewValidator returns a validator that honours the `binding` tags used by the HTTP layer
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.SetTagName("binding")

	return validate
}

func NewResourceApi[T any, K wyrd.ResourceKey](desc wyrd.Descriptor[T, K], store Store[T, K], opts ...ResourceOption) ResourceApi[T, K] {
	options := resourceOptions{
		policy: access.DefaultPolicy,
		logger: log.NewNopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &resourceApiImpl[T, K]{
		resourceOptions: options,
		desc:            desc,
		store:           store,
		validate:        NewValidator(),
	}
}

func (m *resourceApiImpl[T, K]) Descriptor() wyrd.Descriptor[T, K] {
	return m.desc
}

func (m *resourceApiImpl[T, K]) Authorize(op access.Operation, caller access.Caller) error {
	if err := m.policy.Check(op, caller); err != nil {
		return fmt.Errorf("%s: %w", m.desc.Name, err)
	}

	return nil
}

func (m *resourceApiImpl[T, K]) List(ctx context.Context, caller access.Caller) ([]T, error) {
	if err := m.Authorize(access.OperationList, caller); err != nil {
		return nil, err
	}

	results, err := m.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", m.desc.Kind, err)
	}
	if results == nil {
		results = []T{}
	}

	return results, nil
}

func (m *resourceApiImpl[T, K]) Get(ctx context.Context, caller access.Caller, id K) (T, error) {
	var result T
	if err := m.Authorize(access.OperationGet, caller); err != nil {
		return result, err
	}

	return m.find(ctx, id)
}

func (m *resourceApiImpl[T, K]) Create(ctx context.Context, caller access.Caller, entry T) (T, error) {
	var result T
	if err := m.Authorize(access.OperationCreate, caller); err != nil {
		return result, err
	}

	if m.desc.GeneratedKey {
		var zero K
		m.desc.SetKey(&entry, zero)
	}

	if err := m.validateEntry(&entry); err != nil {
		return result, err
	}

	if err := m.store.Save(ctx, &entry); err != nil {
		return result, fmt.Errorf("failed to create %s: %w", m.desc.Name, err)
	}

	m.notify(ctx, access.OperationCreate, caller, m.desc.GetKey(&entry))
	return entry, nil
}

func (m *resourceApiImpl[T, K]) Update(ctx context.Context, caller access.Caller, id K, entry T) (T, error) {
	var result T
	if err := m.Authorize(access.OperationUpdate, caller); err != nil {
		return result, err
	}

	m.desc.SetKey(&entry, id)
	if err := m.validateEntry(&entry); err != nil {
		return result, err
	}

	if _, err := m.find(ctx, id); err != nil {
		return result, err
	}

	if err := m.store.Save(ctx, &entry); err != nil {
		return result, fmt.Errorf("failed to update %s with id %v: %w", m.desc.Name, id, err)
	}

	m.notify(ctx, access.OperationUpdate, caller, id)
	return entry, nil
}

func (m *resourceApiImpl[T, K]) Delete(ctx context.Context, caller access.Caller, id K) (DeletedResponse, error) {
	if err := m.Authorize(access.OperationDelete, caller); err != nil {
		return DeletedResponse{}, err
	}

	if _, err := m.find(ctx, id); err != nil {
		return DeletedResponse{}, err
	}

	existed, err := m.store.Delete(ctx, id)
	if err != nil {
		return DeletedResponse{}, fmt.Errorf("failed to delete %s with id %v: %w", m.desc.Name, id, err)
	}
	// Removed by someone else in between
	if !existed {
		return DeletedResponse{}, NewNotFoundError(m.desc.Name, m.desc.FormatKey(id))
	}

	m.notify(ctx, access.OperationDelete, caller, id)
	return NewDeletedResponse(m.desc.Name, m.desc.FormatKey(id)), nil
}

func (m *resourceApiImpl[T, K]) find(ctx context.Context, id K) (T, error) {
	result, exists, err := m.store.FindByID(ctx, id)
	if err != nil {
		return result, fmt.Errorf("failed to get %s with id %v: %w", m.desc.Name, id, err)
	}
	if !exists {
		return result, NewNotFoundError(m.desc.Name, m.desc.FormatKey(id))
	}

	return result, nil
}

func (m *resourceApiImpl[T, K]) validateEntry(entry *T) error {
	if err := m.validate.Struct(entry); err != nil {
		return &ValidationError{Name: m.desc.Name, Err: err}
	}

	return nil
}

func (m *resourceApiImpl[T, K]) notify(ctx context.Context, op access.Operation, caller access.Caller, id K) {
	if m.notifier == nil {
		return
	}

	event := ChangeEvent{
		Kind:      m.desc.Kind,
		Operation: op,
		Key:       m.desc.FormatKey(id),
		Actor:     caller.String(),
		Time:      m.now().UTC(),
	}
	if err := m.notifier.Notify(ctx, event); err != nil {
		level.Warn(m.logger).Log("msg", "failed to publish change event", "kind", event.Kind, "op", event.Operation, "key", event.Key, "err", err)
	}
}
