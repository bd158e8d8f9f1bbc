package access

// Caller is the resolved identity of whoever issued a request.
// It is passed explicitly into every API call.
type Caller struct {
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Roles Roles  `json:"roles" yaml:"roles"`
}

// Anonymous is the caller of an unauthenticated request
var Anonymous = Caller{}

func NewCaller(email, name string, roles ...Role) Caller {
	return Caller{
		Email: email,
		Name:  name,
		Roles: NewRoles(roles...),
	}
}

// IsAuthenticated returns true if the caller was resolved from valid credentials
func (c Caller) IsAuthenticated() bool {
	return c.Email != "" && len(c.Roles) > 0
}

// HasRole returns true if the caller holds the role, directly or by implication
func (c Caller) HasRole(role Role) bool {
	return c.Roles.Has(role)
}

func (c Caller) String() string {
	if !c.IsAuthenticated() {
		return "anonymous"
	}

	return c.Email
}
