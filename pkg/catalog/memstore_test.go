package catalog_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/sre-norns/catalog/pkg/wyrd"
)

// memStore is an in-memory record store that counts every call made to it
type memStore[T any, K wyrd.ResourceKey] struct {
	lock   sync.Mutex
	desc   wyrd.Descriptor[T, K]
	next   int64
	order  []K
	values map[K]T
	calls  int
	err    error
}

func newMemStore[T any, K wyrd.ResourceKey](desc wyrd.Descriptor[T, K]) *memStore[T, K] {
	return &memStore[T, K]{
		desc:   desc,
		values: map[K]T{},
	}
}

func (s *memStore[T, K]) Calls() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.calls
}

func (s *memStore[T, K]) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.values)
}

func (s *memStore[T, K]) FindAll(_ context.Context) ([]T, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	result := make([]T, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.values[key])
	}
	return result, nil
}

func (s *memStore[T, K]) FindByID(_ context.Context, id K) (T, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.calls++
	if s.err != nil {
		var zero T
		return zero, false, s.err
	}

	value, ok := s.values[id]
	return value, ok, nil
}

func (s *memStore[T, K]) Save(_ context.Context, entry *T) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}

	var zero K
	key := s.desc.GetKey(entry)
	if key == zero {
		if !s.desc.GeneratedKey {
			return fmt.Errorf("empty key")
		}
		s.next++
		key, _ = s.desc.ParseKey(fmt.Sprint(s.next))
		s.desc.SetKey(entry, key)
	}

	if _, exists := s.values[key]; !exists {
		s.order = append(s.order, key)
	}
	s.values[key] = *entry
	return nil
}

func (s *memStore[T, K]) Delete(_ context.Context, id K) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}

	if _, exists := s.values[id]; !exists {
		return false, nil
	}

	delete(s.values, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// vanishingStore loses every record right before it is deleted,
// as if another caller removed it after the existence check
type vanishingStore[T any, K wyrd.ResourceKey] struct {
	*memStore[T, K]
}

func (s vanishingStore[T, K]) Delete(ctx context.Context, id K) (bool, error) {
	if _, err := s.memStore.Delete(ctx, id); err != nil {
		return false, err
	}

	return false, nil
}
