package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminSession is the server-side record of a signed session token. Logout
// clears IsActive so the token stops working before it expires.
type AdminSession struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

func (s AdminSession) Valid(at time.Time) bool {
	return s.IsActive && at.Before(s.ExpiresAt)
}
