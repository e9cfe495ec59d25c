package entity

import (
	"time"
)

// User is the aggregate root for account identity.
// Passwords are stored as bcrypt hashes in Password field;
// AvatarURL is derived from the email at registration time.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
