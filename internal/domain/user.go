package domain

import (
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

type AdminUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        *string   `db:"email" json:"email,omitempty"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	PasswordSalt []byte    `db:"password_salt" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *AdminUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
