package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ItemType  ItemType   `db:"item_type" json:"item_type"`
	ItemID    string     `db:"item_id" json:"item_id"`
	DeviceID  string     `db:"device_id" json:"-"`
	IPAddress *string    `db:"ip_address" json:"-"`
	UserAgent *string    `db:"user_agent" json:"-"`
	Rating    int        `db:"rating" json:"rating"`
	Comment   *string    `db:"comment" json:"comment,omitempty"`
	Media     StringList `db:"media" json:"media"`
	Visible   bool       `db:"visible" json:"visible"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// AdminRating is a ledger row joined with the display name of the rated item.
type AdminRating struct {
	Rating
	ItemName *string `db:"item_name" json:"item_name,omitempty"`
}

// RatingSummary aggregates visible ratings of one item. AvgRating is nil when
// there are no visible ratings.
type RatingSummary struct {
	AvgRating *float64    `json:"avg_rating"`
	Total     int         `json:"total"`
	Counts    map[int]int `json:"rating_counts"`
}
