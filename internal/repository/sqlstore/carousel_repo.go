package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

const carouselColumns = `id, title, description, image, button_text_1, button_link_1,
	button_text_2, button_link_2, slide_order, is_active, created_at, updated_at`

type CarouselRepository struct {
	db *sqlx.DB
}

func NewCarouselRepo(db *sqlx.DB) *CarouselRepository {
	return &CarouselRepository{db: db}
}

func (r *CarouselRepository) Create(ctx context.Context, s *domain.CarouselSlide) (*domain.CarouselSlide, error) {
	query := r.db.Rebind(`INSERT INTO carousel_slides (` + carouselColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Description, nullString(s.Image),
		nullString(s.ButtonText1), nullString(s.ButtonLink1), nullString(s.ButtonText2), nullString(s.ButtonLink2),
		s.SlideOrder, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return r.FindByID(ctx, s.ID)
}

func (r *CarouselRepository) Update(ctx context.Context, s *domain.CarouselSlide) (*domain.CarouselSlide, error) {
	query := r.db.Rebind(`
		UPDATE carousel_slides
		SET title = ?, description = ?, image = ?, button_text_1 = ?, button_link_1 = ?,
		    button_text_2 = ?, button_link_2 = ?, slide_order = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		s.Title, s.Description, nullString(s.Image),
		nullString(s.ButtonText1), nullString(s.ButtonLink1), nullString(s.ButtonText2), nullString(s.ButtonLink2),
		s.SlideOrder, s.IsActive, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, s.ID)
}

func (r *CarouselRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM carousel_slides WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CarouselRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CarouselSlide, error) {
	query := r.db.Rebind(`SELECT ` + carouselColumns + ` FROM carousel_slides WHERE id = ?`)
	var s domain.CarouselSlide
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CarouselRepository) List(ctx context.Context, activeOnly bool) ([]domain.CarouselSlide, error) {
	where := ""
	if activeOnly {
		where = "WHERE is_active = TRUE"
	}
	query := `SELECT ` + carouselColumns + ` FROM carousel_slides ` + where + ` ORDER BY slide_order ASC, created_at ASC`
	slides := []domain.CarouselSlide{}
	if err := r.db.SelectContext(ctx, &slides, query); err != nil {
		return nil, err
	}
	return slides, nil
}

var _ ports.CarouselRepository = (*CarouselRepository)(nil)
