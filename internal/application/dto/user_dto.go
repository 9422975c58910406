package dto

import "time"

// LoginRequest body de POST /api/auth/login. Se acepta teléfono o email.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"omitempty,indian_phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// OTPRequest body de POST /api/auth/otp/request.
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,indian_phone"`
}

// OTPVerifyRequest body de POST /api/auth/otp/verify.
type OTPVerifyRequest struct {
	Phone string `json:"phone" validate:"required,indian_phone"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// RegisterRequest body de POST /api/auth/register: crea cuenta, tienda y admin owner.
type RegisterRequest struct {
	FullName     string   `json:"full_name" validate:"required,min=2,max=100"`
	Phone        string   `json:"phone" validate:"required,indian_phone"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Password     string   `json:"password" validate:"required,min=6,max=72"`
	StoreName    string   `json:"store_name" validate:"required,min=2,max=100"`
	StoreAddress string   `json:"store_address" validate:"required,min=5"`
	StorePhone   string   `json:"store_phone" validate:"required,indian_phone"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// AuthResponse token y administrador autenticado.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"` // segundos
	Admin     AdminResponse `json:"admin"`
}

// AdminResponse administrador de tienda (perfil, staff).
type AdminResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	PhoneNumber string         `json:"phone_number"`
	Email       string         `json:"email,omitempty"`
	FullName    string         `json:"full_name"`
	StoreID     string         `json:"store_id"`
	Role        string         `json:"role"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Store       *StoreResponse `json:"store,omitempty"`
}

// UpdateProfileRequest body de PUT /api/profile.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
}
