package entity

import (
	"slices"
	"time"
)

type User struct {
	ID        int64
	Email     string
	Name      string
	Phone     string
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) HasRole(r Role) bool {
	return slices.Contains(u.Roles, r)
}

type NewUser struct {
	ID           int64
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Roles        []Role
}

type UserListFilter struct {
	Sort SortDirection
	// Role narrows the list to holders of the role. Empty means all users.
	Role Role
}
