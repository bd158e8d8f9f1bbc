package access

import (
	"fmt"
)

var ErrAccessDenied = fmt.Errorf("access is denied")

// Operation is an API operation subject to authorization
type Operation string

const (
	OperationList   Operation = "List"
	OperationGet    Operation = "Get"
	OperationCreate Operation = "Create"
	OperationUpdate Operation = "Update"
	OperationDelete Operation = "Delete"
)

// Policy maps an operation to the role required to perform it.
// Operations absent from the table are denied.
type Policy map[Operation]Role

// DefaultPolicy lets users read and administrators do everything
var DefaultPolicy = Policy{
	OperationList:   RoleUser,
	OperationGet:    RoleUser,
	OperationCreate: RoleAdmin,
	OperationUpdate: RoleAdmin,
	OperationDelete: RoleAdmin,
}

// AdminOnlyPolicy requires ADMIN for every operation
var AdminOnlyPolicy = Policy{
	OperationList:   RoleAdmin,
	OperationGet:    RoleAdmin,
	OperationCreate: RoleAdmin,
	OperationUpdate: RoleAdmin,
	OperationDelete: RoleAdmin,
}

// Allow reports whether a caller holding roles may perform the operation.
// An empty role set is never allowed anything.
func (p Policy) Allow(op Operation, roles Roles) bool {
	if len(roles) == 0 {
		return false
	}

	required, ok := p[op]
	if !ok {
		return false
	}

	return roles.Has(required)
}

// Check returns a *DeniedError if the caller may not perform the operation
func (p Policy) Check(op Operation, caller Caller) error {
	if p.Allow(op, caller.Roles) {
		return nil
	}

	return &DeniedError{
		Operation: op,
		Required:  p[op],
		Granted:   caller.Roles,
	}
}

// DeniedError reports an authorization failure
type DeniedError struct {
	Operation Operation
	Required  Role
	Granted   Roles
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%v: operation %s requires role %s (granted: %v)", ErrAccessDenied, e.Operation, e.Required, e.Granted)
}

func (e *DeniedError) Unwrap() error {
	return ErrAccessDenied
}
