package model

import "strings"

type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

var Roles = []Role{RoleUser, RoleOrganizer, RoleAdmin}

// Level places the role in the hierarchy USER(1) < ORGANIZER(2) < ADMIN(3).
// Unknown roles and the empty role are level 0.
func (r Role) Level() int {
	switch r {
	case RoleUser:
		return 1
	case RoleOrganizer:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Level() > 0
}

// MeetsRole reports whether actual grants at least the privileges of required.
// Privilege is cumulative: ADMIN satisfies ORGANIZER-gated views.
func MeetsRole(actual, required Role) bool {
	return actual.Level() >= required.Level()
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}
