package wyrd

import (
	"fmt"
	"reflect"
	"slices"
)

var (
	ErrUnknownKind          = fmt.Errorf("unknown kind")
	ErrUnexpectedRecordType = fmt.Errorf("unexpected record type")
)

// Kind names a record type. It doubles as the API path segment and the table name.
type Kind string

var metaKindRegistry = map[Kind]reflect.Type{}

func RegisterKind(kind Kind, proto any) error {
	val := reflect.ValueOf(proto)
	if !val.IsValid() || !val.CanInterface() {
		return fmt.Errorf("type of %q can not interface", kind)
	}

	t := val.Type()
	if val.Kind() == reflect.Pointer {
		t = val.Elem().Type()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %q is not a struct", ErrUnexpectedRecordType, t)
	}

	metaKindRegistry[kind] = t
	return nil
}

func UnregisterKind(kind Kind) {
	delete(metaKindRegistry, kind)
}

// InstanceOf returns a pointer to a new zero value of the type registered for the kind
func InstanceOf(kind Kind) (any, error) {
	t, known := metaKindRegistry[kind]
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return reflect.New(t).Interface(), nil
}

// SliceOf returns a pointer to an empty slice of the type registered for the kind
func SliceOf(kind Kind) (any, error) {
	t, known := metaKindRegistry[kind]
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return reflect.New(reflect.SliceOf(t)).Interface(), nil
}

// Kinds lists registered kinds in lexical order
func Kinds() []Kind {
	result := make([]Kind, 0, len(metaKindRegistry))
	for kind := range metaKindRegistry {
		result = append(result, kind)
	}
	slices.Sort(result)

	return result
}

// Descriptor carries everything the generic resource machinery needs to know
// about a record type T addressed by key K.
type Descriptor[T any, K ResourceKey] struct {
	// Kind of the record, e.g. "games"
	Kind Kind

	// Display name used in messages, e.g. "Game"
	Name string

	// GeneratedKey is true when the store assigns the key on create
	GeneratedKey bool

	GetKey   func(*T) K
	SetKey   func(*T, K)
	ParseKey func(string) (K, error)
}

// FormatKey renders a key the way it appears in messages and query strings
func (d Descriptor[T, K]) FormatKey(key K) string {
	return fmt.Sprint(key)
}
