package sqlstore

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

const (
	destinationColumns = `id, title, description, image, location, category, category_id, facilities,
		best_time_to_visit, entrance_fee, google_maps_link, rating, created_at, updated_at`
	culinaryColumns = `id, title, description, image, restaurant, location, category, category_id, price_range,
		opening_hours, specialties, facilities, google_maps_link, rating, created_at, updated_at`
)

// ratingAggregateJoin joins the visible ledger aggregate of one item type onto
// alias t.
func ratingAggregateJoin(itemType domain.ItemType) string {
	return `
		LEFT JOIN (
			SELECT item_id,
				CAST(AVG(rating) AS DOUBLE PRECISION) AS avg_rating,
				COUNT(*) AS ratings_count
			FROM ratings
			WHERE item_type = '` + string(itemType) + `' AND visible = TRUE
			GROUP BY item_id
		) agg ON CAST(t.id AS TEXT) = agg.item_id`
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func emptyIfNil(l domain.StringList) domain.StringList {
	if l == nil {
		return domain.StringList{}
	}
	return l
}

func insertDestination(ctx context.Context, ext sqlx.ExtContext, d *domain.Destination) error {
	query := ext.Rebind(`INSERT INTO destinations (` + destinationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ext.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.Image, d.Location, d.Category, nullableUUID(d.CategoryID),
		emptyIfNil(d.Facilities), d.BestTimeToVisit, d.EntranceFee, nullString(d.GoogleMapsLink),
		d.Rating, d.CreatedAt, d.UpdatedAt,
	)
	return mapWriteErr(err)
}

func insertCulinary(ctx context.Context, ext sqlx.ExtContext, c *domain.Culinary) error {
	query := ext.Rebind(`INSERT INTO culinary (` + culinaryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ext.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, c.Image, c.Restaurant, c.Location, c.Category, nullableUUID(c.CategoryID),
		c.PriceRange, c.OpeningHours, emptyIfNil(c.Specialties), emptyIfNil(c.Facilities),
		nullString(c.GoogleMapsLink), c.Rating, c.CreatedAt, c.UpdatedAt,
	)
	return mapWriteErr(err)
}

type DestinationRepository struct {
	db *sqlx.DB
}

func NewDestinationRepo(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

func (r *DestinationRepository) Create(ctx context.Context, d *domain.Destination) (*domain.Destination, error) {
	if err := insertDestination(ctx, r.db, d); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, d.ID)
}

func (r *DestinationRepository) Update(ctx context.Context, d *domain.Destination) (*domain.Destination, error) {
	query := r.db.Rebind(`
		UPDATE destinations
		SET title = ?, description = ?, image = ?, location = ?, category = ?, category_id = ?,
		    facilities = ?, best_time_to_visit = ?, entrance_fee = ?, google_maps_link = ?,
		    rating = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		d.Title, d.Description, d.Image, d.Location, d.Category, nullableUUID(d.CategoryID),
		emptyIfNil(d.Facilities), d.BestTimeToVisit, d.EntranceFee, nullString(d.GoogleMapsLink),
		d.Rating, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, d.ID)
}

func (r *DestinationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM destinations WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DestinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	query := r.db.Rebind(`
		SELECT t.*, agg.avg_rating, COALESCE(agg.ratings_count, 0) AS ratings_count
		FROM destinations t` + ratingAggregateJoin(domain.ItemTypeDestination) + `
		WHERE t.id = ?
	`)
	var d domain.Destination
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, err
	}
	d.AvgRating = round2(d.AvgRating)
	return &d, nil
}

func (r *DestinationRepository) List(ctx context.Context) ([]domain.Destination, error) {
	query := `
		SELECT t.*, agg.avg_rating, COALESCE(agg.ratings_count, 0) AS ratings_count
		FROM destinations t` + ratingAggregateJoin(domain.ItemTypeDestination) + `
		ORDER BY t.created_at DESC, t.id DESC
	`
	items := []domain.Destination{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].AvgRating = round2(items[i].AvgRating)
	}
	return items, nil
}

type CulinaryRepository struct {
	db *sqlx.DB
}

func NewCulinaryRepo(db *sqlx.DB) *CulinaryRepository {
	return &CulinaryRepository{db: db}
}

func (r *CulinaryRepository) Create(ctx context.Context, c *domain.Culinary) (*domain.Culinary, error) {
	if err := insertCulinary(ctx, r.db, c); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CulinaryRepository) Update(ctx context.Context, c *domain.Culinary) (*domain.Culinary, error) {
	query := r.db.Rebind(`
		UPDATE culinary
		SET title = ?, description = ?, image = ?, restaurant = ?, location = ?, category = ?,
		    category_id = ?, price_range = ?, opening_hours = ?, specialties = ?, facilities = ?,
		    google_maps_link = ?, rating = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query,
		c.Title, c.Description, c.Image, c.Restaurant, c.Location, c.Category,
		nullableUUID(c.CategoryID), c.PriceRange, c.OpeningHours, emptyIfNil(c.Specialties), emptyIfNil(c.Facilities),
		nullString(c.GoogleMapsLink), c.Rating, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CulinaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM culinary WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CulinaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Culinary, error) {
	query := r.db.Rebind(`
		SELECT t.*, agg.avg_rating, COALESCE(agg.ratings_count, 0) AS ratings_count
		FROM culinary t` + ratingAggregateJoin(domain.ItemTypeCulinary) + `
		WHERE t.id = ?
	`)
	var c domain.Culinary
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	c.AvgRating = round2(c.AvgRating)
	return &c, nil
}

func (r *CulinaryRepository) List(ctx context.Context) ([]domain.Culinary, error) {
	query := `
		SELECT t.*, agg.avg_rating, COALESCE(agg.ratings_count, 0) AS ratings_count
		FROM culinary t` + ratingAggregateJoin(domain.ItemTypeCulinary) + `
		ORDER BY t.created_at DESC, t.id DESC
	`
	items := []domain.Culinary{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].AvgRating = round2(items[i].AvgRating)
	}
	return items, nil
}

var (
	_ ports.DestinationRepository = (*DestinationRepository)(nil)
	_ ports.CulinaryRepository    = (*CulinaryRepository)(nil)
)
