/*Package access provides role based access control for the catalog API.

Callers carry a set of roles. A Policy maps every API operation to the single
role it requires. Roles may imply other roles: ADMIN implies USER, so the
policy table never has to list both.
*/
package access

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownRole = fmt.Errorf("unknown role")

// Role is a named permission tier
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// impliedRoles lists roles granted implicitly by holding another role
var impliedRoles = map[Role][]Role{
	RoleAdmin: {RoleUser},
}

// ParseRole accepts both "ADMIN" and the "ROLE_ADMIN" spelling, in any case.
func ParseRole(value string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(value))
	name = strings.TrimPrefix(name, "ROLE_")

	switch role := Role(name); role {
	case RoleUser, RoleAdmin:
		return role, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
}

// Roles is a set of roles, always closed under implication when built with NewRoles
type Roles map[Role]struct{}

func NewRoles(roles ...Role) Roles {
	result := make(Roles, len(roles))
	for _, role := range roles {
		result.add(role)
	}

	return result
}

func (r Roles) add(role Role) {
	if _, ok := r[role]; ok {
		return
	}

	r[role] = struct{}{}
	for _, implied := range impliedRoles[role] {
		r.add(implied)
	}
}

// Has returns true if the set contains the requested role
func (r Roles) Has(role Role) bool {
	_, ok := r[role]
	return ok
}

// List returns roles in a stable, sorted order
func (r Roles) List() []Role {
	result := make([]Role, 0, len(r))
	for role := range r {
		result = append(result, role)
	}
	slices.Sort(result)

	return result
}

func (r Roles) String() string {
	if len(r) == 0 {
		return "none"
	}

	names := make([]string, 0, len(r))
	for _, role := range r.List() {
		names = append(names, string(role))
	}

	return strings.Join(names, ", ")
}

func (r Roles) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.List())
}

func (r *Roles) UnmarshalJSON(data []byte) error {
	var names []Role
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	*r = NewRoles(names...)
	return nil
}

func (r Roles) MarshalYAML() (interface{}, error) {
	return r.List(), nil
}
