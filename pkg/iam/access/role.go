package access

import "strings"

// Role es el rol asignado a un miembro del equipo. El conjunto es cerrado.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleRecruiter Role = "recruiter"
)

// Roles lists every known role in display order
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleRecruiter}
}

// ParseRole normaliza el valor recibido. Un rol desconocido retorna false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleManager, RoleRecruiter:
		return r, true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }

// IsValid verifica que el rol pertenezca al conjunto cerrado
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleRecruiter:
		return true
	default:
		return false
	}
}

// Invitable reports whether a member can be invited with this role.
// Admins are provisioned with the agency, never invited.
func (r Role) Invitable() bool {
	return r == RoleManager || r == RoleRecruiter
}
