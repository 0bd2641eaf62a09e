package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User. RoleUnset corresponde a cuentas sin rol asignado.
const (
	RoleMaster      = "master"
	RoleDistributor = "distributor"
	RoleMerchant    = "merchant"
	RoleUnset       = ""
)

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa una cuenta dentro de la red de referidos.
// UplineID nil marca una raíz de la genealogía.
type User struct {
	ID           int64
	DisplayName  string
	Email        string
	Login        string
	PasswordHash string // bcrypt
	Role         string // master, distributor, merchant o vacío
	Status       string
	Level        int
	UplineID     *int64
	ReferredByID *int64 // informativo; se asigna junto con UplineID
	Credits      decimal.Decimal
	ReferralCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRoot indica si el usuario no tiene upline.
func (u *User) IsRoot() bool {
	return u.UplineID == nil
}

// ValidRole indica si role es uno de los roles conocidos (vacío incluido).
func ValidRole(role string) bool {
	switch role {
	case RoleMaster, RoleDistributor, RoleMerchant, RoleUnset:
		return true
	}
	return false
}
