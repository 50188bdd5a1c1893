package models

import "time"

// Role determines which views and actions a user may access.
type Role string

// Known roles.
const (
	RoleAdmin     Role = "admin"
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleAnalyst   Role = "analyst"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDonor, RoleRecipient, RoleAnalyst:
		return true
	}
	return false
}

// User is a registered platform user, distinct from the identity
// provider's session object.
type User struct {
	UserID           string    `json:"user_id"`
	FullName         string    `json:"full_name"`
	OrganizationName string    `json:"organization_name"`
	Role             Role      `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

// Actor identifies the user performing a mutating operation, for
// authorization checks inside the repository layer.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// SessionUser is the identity portion of a session.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile holds the display fields of a session.
type Profile struct {
	FullName         string `json:"full_name"`
	OrganizationName string `json:"organization_name"`
}

// Session is the object written on sign-in and removed on sign-out.
type Session struct {
	User    SessionUser `json:"user"`
	Role    Role        `json:"role"`
	Profile Profile     `json:"profile"`
}
