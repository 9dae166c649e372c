package entity

import (
	"time"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the aggregate root for the user domain.
// PasswordDigest holds a bcrypt hash and is never serialized.
//
// AssignedTaskIDs is a weak back-reference maintained by the storage
// layer; Task.AssigneeID is the authoritative side.
type User struct {
	ID             int64
	Email          string
	FirstName      string
	LastName       string
	PasswordDigest string
	Role           Role
	AvatarURL      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	AssignedTaskIDs []int64
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
