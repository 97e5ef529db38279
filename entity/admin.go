package entity

import (
	"net/http"
	"time"

	"rsvpd/lib/validate"
)

type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminLogin struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1"`
}

func (l *AdminLogin) Bind(_ *http.Request) error {
	return validate.Struct(l)
}

type AdminLoginResult struct {
	Username string `json:"username"`
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required,min=1"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

func (c *ChangePassword) Bind(_ *http.Request) error {
	return validate.Struct(c)
}
