package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Type      ItemType  `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CategoryCount struct {
	Category
	Count int `db:"item_count" json:"count"`
}

type FacilityPreset struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      ItemType  `db:"type" json:"type"`
	Name      string    `db:"name" json:"name"`
	IconName  *string   `db:"icon_name" json:"icon_name,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// Slugify lowercases and trims name, drops everything except ASCII letters,
// digits, whitespace and hyphens, then collapses whitespace and hyphen runs into
// a single hyphen. "Mountains & Hills!" becomes "mountains-hills".
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return s
}
