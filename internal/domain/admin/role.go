package admin

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role is the console operator's permission level. Tokens are issued by the
// surrounding console's identity service; this service only validates them.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleViewer, RoleOperator, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}
