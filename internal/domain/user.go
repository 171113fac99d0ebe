package domain

import "time"

type User struct {
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"passwordHash" validate:"required"`
	Role         Role      `json:"role" validate:"oneof=user admin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the subset of a user that leaves the credential store.
type PublicUser struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

func (u User) Public() PublicUser {
	return PublicUser{Email: u.Email, Role: u.Role, Name: u.Name}
}
