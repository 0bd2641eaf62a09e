package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest entrada para registro. InvitationCode resuelve upline y nivel.
// Role distinto de merchant exige que la petición venga de un master.
type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Login          string `json:"login" validate:"required,min=3,max=60"`
	Password       string `json:"password" validate:"required,min=8"`
	DisplayName    string `json:"display_name" validate:"omitempty,max=200"`
	InvitationCode string `json:"invitation_code" validate:"omitempty,max=32"`
	Role           string `json:"role" validate:"omitempty,oneof=master distributor merchant"`
}

// LoginRequest entrada para login por login o email.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           int64           `json:"id"`
	DisplayName  string          `json:"display_name"`
	Email        string          `json:"email"`
	Login        string          `json:"login"`
	Role         string          `json:"role"`
	Status       string          `json:"status"`
	Level        int             `json:"level"`
	UplineID     *int64          `json:"user_upline_id"`
	ReferredByID *int64          `json:"user_referred_by_id"`
	Credits      decimal.Decimal `json:"credits"`
	ReferralCode string          `json:"referral_code"`
	CreatedAt    time.Time       `json:"created_at"`
}

// InvitationResponse resolución de un código de invitación.
type InvitationResponse struct {
	UplineID int64 `json:"upline_id"`
	Level    int   `json:"level"` // nivel que tendrá el nuevo usuario
}
