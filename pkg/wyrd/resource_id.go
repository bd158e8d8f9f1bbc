package wyrd

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidResourceID = fmt.Errorf("invalid resource id")
	ErrEmptyResourceName = fmt.Errorf("empty resource name")
)

// Type to represent a server-assigned ID of a resource.
// Assigned IDs are always positive.
type ResourceID int64

const InvalidResourceID ResourceID = 0

func (r ResourceID) String() string {
	return strconv.FormatInt(int64(r), 10)
}

// ParseResourceID parses any decimal integer.
// Zero and negative values are well-formed, they just never address a stored record.
func ParseResourceID(value string) (ResourceID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return InvalidResourceID, fmt.Errorf("%w %q: %w", ErrInvalidResourceID, value, err)
	}

	return ResourceID(id), nil
}

// ParseResourceName accepts any non-blank caller-supplied natural key.
func ParseResourceName(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrEmptyResourceName
	}

	return value, nil
}

// ResourceKey is a set of types that can address a single record:
// either a server-assigned ID or a caller-supplied natural key.
type ResourceKey interface {
	~int64 | ~string
}
