package domain

import "strings"

const RoleCustomer = "Customer"

// User models an account that can authenticate and file complaints.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Roles        []string `json:"roles"`
	Active       bool     `json:"active"`
}

// UserDefaults holds the values applied to fields a caller may omit on create.
type UserDefaults struct {
	Roles  []string
	Active bool
}

// DefaultUserDefaults returns a single Customer role and an active account.
func DefaultUserDefaults() UserDefaults {
	return UserDefaults{Roles: []string{RoleCustomer}, Active: true}
}

// Normalize drops blank role tags and falls back to the Customer role when none remain.
func (d UserDefaults) Normalize() UserDefaults {
	roles := CleanRoles(d.Roles)
	if len(roles) == 0 {
		roles = []string{RoleCustomer}
	}
	return UserDefaults{Roles: roles, Active: d.Active}
}

// CleanRoles trims every tag and removes empty and repeated ones, keeping order.
func CleanRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
