package entity

import "time"

// User cuenta de acceso. Un usuario sin PasswordHash solo puede entrar por OTP.
type User struct {
	ID           string
	PhoneNumber  string // E.164, +91XXXXXXXXXX
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword indica si la cuenta tiene contraseña configurada.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}
