package model

import (
	"time"

	"github.com/iliyamo/glovo-marketplace/internal/utils"
)

// Role is the marketplace role of a user account.  It is stored in the
// users.role ENUM column.
type Role string

const (
	RoleClient  Role = "client"
	RoleCourier Role = "courier"
	RoleOwner   Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCourier, RoleOwner:
		return true
	}
	return false
}

// User represents an account as stored in the `users` table.  The
// password hash never leaves the service: it is excluded from JSON.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	FirstName    – given name.
//	LastName     – family name.
//	Username     – unique login name.
//	PasswordHash – bcrypt hashed password.
//	PhoneNumber  – optional contact number.
//	Age          – optional age.
//	Role         – client, courier or owner.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword hashes plain with the given bcrypt cost and stores the result
// on the user.  The record is not persisted; the caller saves it.
func (u *User) SetPassword(plain string, cost int) error {
	hash, err := utils.HashPassword(plain, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.  A mismatch
// or an unset hash yields false, never an error.
func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return utils.VerifyPassword(u.PasswordHash, plain)
}

// RefreshToken models an entry in the `refresh_tokens` table, the ledger
// of refresh tokens that have been issued and not yet revoked.  Only the
// SHA‑256 hash of the token string is kept.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA‑256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
