package domain

import "time"

// UserRole controls access to admin-only operations.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a user of the application in the domain.
type User struct {
	ID           int64     `json:"id"`
	Name         *string   `json:"name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user may approve expenses and see every dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName falls back to the email when no name was set.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// GoogleUserInfo is the subset of a verified Google ID token we use to sign a user in.
type GoogleUserInfo struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
