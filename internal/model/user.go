package model

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the best human-readable name for the user:
// name, then the local part of the email, then a generic fallback.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		for i := 0; i < len(u.Email); i++ {
			if u.Email[i] == '@' {
				return u.Email[:i]
			}
		}
		return u.Email
	}
	return "Ajudante"
}
