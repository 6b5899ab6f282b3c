package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin roles. Role names come from the back-office permission model:
// superadmin may manage other admins and delete catalog entries,
// admin_full covers day-to-day cartera and catalog operations.
const (
	RoleSuperadmin = "superadmin"
	RoleAdminFull  = "admin_full"
)

// AuthUser is the credential record of the authentication subsystem.
// It carries identity only; authorization lives on AdminProfile.
type AuthUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// AdminProfile is the administrator record, mapped 1:1 to an AuthUser
// via auth_user_id. Column names keep the original schema's Spanish
// (activo, bloqueado, bloqueado_hasta).
type AdminProfile struct {
	ID           int        `db:"id" json:"id"`
	AuthUserID   uuid.UUID  `db:"auth_user_id" json:"authUserId"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Role         string     `db:"role" json:"role"`
	Active       bool       `db:"activo" json:"active"`
	Blocked      bool       `db:"bloqueado" json:"blocked"`
	BlockedUntil *time.Time `db:"bloqueado_hasta" json:"blockedUntil,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// BlockedNow reports whether the block is in effect at the given instant.
// A block with a past bloqueado_hasta is treated as expired even if the
// flag has not been cleared yet.
func (p *AdminProfile) BlockedNow(now time.Time) bool {
	if !p.Blocked {
		return false
	}
	if p.BlockedUntil != nil && now.After(*p.BlockedUntil) {
		return false
	}
	return true
}

// LoginValidationResult is the authoritative login decision returned by the
// validate_admin_login database function. Callers must not infer
// eligibility from profile fields alone.
type LoginValidationResult struct {
	CanLogin       bool       `db:"can_login" json:"canLogin"`
	Activo         bool       `db:"activo" json:"activo"`
	Bloqueado      bool       `db:"bloqueado" json:"bloqueado"`
	BloqueadoHasta *time.Time `db:"bloqueado_hasta" json:"bloqueadoHasta,omitempty"`
	Role           string     `db:"role" json:"role"`
	AdminID        int        `db:"admin_id" json:"adminId"`
}

// Session is a live authenticated session. Token is the signed JWT handed
// to the client; ID is its jti, registered in Redis for revocation.
type Session struct {
	Token      string    `json:"token"`
	ID         string    `json:"-"`
	AuthUserID uuid.UUID `json:"authUserId"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
