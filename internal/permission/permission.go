// Package permission holds the static role to permission table used by the
// authorizer. The table is built once at start-up and never mutated.
package permission

import (
	"slices"
	"strings"
)

type Permission string

const (
	ViewProduct   Permission = "view_product"
	CreateProduct Permission = "create_product"
	UpdateProduct Permission = "update_product"
	DeleteProduct Permission = "delete_product"
	SuspendUser   Permission = "suspend_user"
	ViewUser      Permission = "view_user"
	ViewAudit     Permission = "view_audit"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalises a role name. Unknown names return false.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

type set map[Permission]struct{}

// Table maps each role to the permissions it holds. The zero value grants
// nothing.
type Table struct {
	roles map[Role]set
}

func NewTable(grants map[Role][]Permission) *Table {
	roles := make(map[Role]set, len(grants))
	for role, perms := range grants {
		s := make(set, len(perms))
		for _, p := range perms {
			s[p] = struct{}{}
		}
		roles[role] = s
	}

	return &Table{roles: roles}
}

// Default is the production table.
func Default() *Table {
	return NewTable(map[Role][]Permission{
		RoleUser: {ViewProduct},
		RoleAdmin: {
			CreateProduct,
			UpdateProduct,
			DeleteProduct,
			ViewProduct,
			SuspendUser,
			ViewUser,
			ViewAudit,
		},
	})
}

func (t *Table) Has(role Role, p Permission) bool {
	if t == nil {
		return false
	}

	_, ok := t.roles[role][p]
	return ok
}

// HasAll reports whether role holds every permission in required.
func (t *Table) HasAll(role Role, required ...Permission) bool {
	for _, p := range required {
		if !t.Has(role, p) {
			return false
		}
	}

	return true
}

// Permissions returns a copy of the role's permissions. Unknown roles yield an
// empty slice.
func (t *Table) Permissions(role Role) []Permission {
	if t == nil {
		return []Permission{}
	}

	out := make([]Permission, 0, len(t.roles[role]))
	for p := range t.roles[role] {
		out = append(out, p)
	}
	slices.Sort(out)

	return out
}
