package domain

import (
	"time"

	"github.com/google/uuid"
)

// CarouselSlide is one hero slide on the landing page. Each slide carries up
// to two call-to-action buttons.
type CarouselSlide struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Image       *string   `db:"image" json:"image"`
	ButtonText1 *string   `db:"button_text_1" json:"button_text_1"`
	ButtonLink1 *string   `db:"button_link_1" json:"button_link_1"`
	ButtonText2 *string   `db:"button_text_2" json:"button_text_2"`
	ButtonLink2 *string   `db:"button_link_2" json:"button_link_2"`
	SlideOrder  int       `db:"slide_order" json:"slide_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
