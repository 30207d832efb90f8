package models

import "time"

// User is a row of the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         *string   `db:"name" json:"name,omitempty"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"password"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
