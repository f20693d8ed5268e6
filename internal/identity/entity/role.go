package entity

import (
	"errors"
	"strings"
)

var ErrRoleUnknown = errors.New("identity: role is unknown")

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps a role name, case-insensitive, to a known Role.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", ErrRoleUnknown
	}
}

func (r Role) String() string {
	return string(r)
}

// RoleNames converts roles to plain strings for tokens and responses.
func RoleNames(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
