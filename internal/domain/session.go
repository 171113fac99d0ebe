package domain

import "time"

// Session is the identity recognized for one client until logout or inactivity.
type Session struct {
	ID        string    `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"required"`
	Role      Role      `json:"role" validate:"oneof=user admin"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" validate:"required"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s Session) User() PublicUser {
	return PublicUser{Email: s.Email, Role: s.Role, Name: s.Name}
}
