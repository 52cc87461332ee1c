package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultEditorialRating is stored on promoted content. It is an editorial field
// and is never derived from the rating ledger.
const DefaultEditorialRating = 4.5

const DefaultCategory = "general"

type Destination struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description"`
	Image           string     `db:"image" json:"image"`
	Location        string     `db:"location" json:"location"`
	Category        string     `db:"category" json:"category"`
	CategoryID      *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	Facilities      StringList `db:"facilities" json:"facilities"`
	BestTimeToVisit string     `db:"best_time_to_visit" json:"bestTimeToVisit"`
	EntranceFee     string     `db:"entrance_fee" json:"entranceFee"`
	GoogleMapsLink  *string    `db:"google_maps_link" json:"googleMapsLink,omitempty"`
	Rating          float64    `db:"rating" json:"rating"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	// visible ledger average, nil until the first visible rating
	AvgRating    *float64 `db:"avg_rating" json:"avg_rating"`
	RatingsCount int      `db:"ratings_count" json:"ratings_count"`
}

type Culinary struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Image          string     `db:"image" json:"image"`
	Restaurant     string     `db:"restaurant" json:"restaurant"`
	Location       string     `db:"location" json:"location"`
	Category       string     `db:"category" json:"category"`
	CategoryID     *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	PriceRange     string     `db:"price_range" json:"priceRange"`
	OpeningHours   string     `db:"opening_hours" json:"openingHours"`
	Specialties    StringList `db:"specialties" json:"specialties"`
	Facilities     StringList `db:"facilities" json:"facilities"`
	GoogleMapsLink *string    `db:"google_maps_link" json:"googleMapsLink,omitempty"`
	Rating         float64    `db:"rating" json:"rating"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	AvgRating    *float64 `db:"avg_rating" json:"avg_rating"`
	RatingsCount int      `db:"ratings_count" json:"ratings_count"`
}

// ContentItem is a published directory entry: *Destination or *Culinary.
type ContentItem interface {
	ContentType() ItemType
	isContentItem()
}

func (*Destination) ContentType() ItemType { return ItemTypeDestination }
func (*Destination) isContentItem()        {}

func (*Culinary) ContentType() ItemType { return ItemTypeCulinary }
func (*Culinary) isContentItem()        {}
