package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepo(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

const ratingColumns = `id, item_type, item_id, device_id, ip_address, user_agent, rating, comment, media, visible, created_at`

// Create inserts a rating. A second rating for the same (item_type, item_id,
// device_id) fails on the unique constraint with ports.ErrDuplicateKey.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	query := r.db.Rebind(`
		INSERT INTO ratings (` + ratingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	media := rating.Media
	if media == nil {
		media = domain.StringList{}
	}
	_, err := r.db.ExecContext(ctx, query,
		rating.ID,
		string(rating.ItemType),
		rating.ItemID,
		rating.DeviceID,
		nullString(rating.IPAddress),
		nullString(rating.UserAgent),
		rating.Rating,
		nullString(rating.Comment),
		media,
		rating.Visible,
		rating.CreatedAt,
	)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	stored := *rating
	stored.Media = media
	return &stored, nil
}

func (r *RatingRepository) Exists(ctx context.Context, itemType domain.ItemType, itemID, deviceID string) (bool, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM ratings
		WHERE item_type = ? AND item_id = ? AND device_id = ?
	`)
	var count int
	if err := r.db.GetContext(ctx, &count, query, string(itemType), itemID, deviceID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RatingRepository) ListByItem(ctx context.Context, itemType domain.ItemType, itemID string, includeHidden bool) ([]domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE item_type = ? AND item_id = ?`
	if !includeHidden {
		query += ` AND visible = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	ratings := []domain.Rating{}
	if err := r.db.SelectContext(ctx, &ratings, r.db.Rebind(query), string(itemType), itemID); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *RatingRepository) ListAll(ctx context.Context) ([]domain.AdminRating, error) {
	const query = `
		SELECT
			r.id, r.item_type, r.item_id, r.device_id, r.ip_address, r.user_agent,
			r.rating, r.comment, r.media, r.visible, r.created_at,
			CASE
				WHEN r.item_type = 'destination' THEN d.title
				ELSE c.restaurant
			END AS item_name
		FROM ratings r
		LEFT JOIN destinations d ON r.item_type = 'destination' AND CAST(d.id AS TEXT) = r.item_id
		LEFT JOIN culinary c ON r.item_type = 'culinary' AND CAST(c.id AS TEXT) = r.item_id
		ORDER BY r.created_at DESC, r.id DESC
	`
	ratings := []domain.AdminRating{}
	if err := r.db.SelectContext(ctx, &ratings, query); err != nil {
		return nil, err
	}
	return ratings, nil
}

// ToggleVisibility flips visible in a single statement and returns the new value.
func (r *RatingRepository) ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error) {
	query := r.db.Rebind(`UPDATE ratings SET visible = NOT visible WHERE id = ? RETURNING visible`)
	var visible bool
	if err := r.db.GetContext(ctx, &visible, query, id); err != nil {
		return false, err
	}
	return visible, nil
}

func (r *RatingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM ratings WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *RatingRepository) CountVisibleByValue(ctx context.Context, itemType domain.ItemType, itemID string) (map[int]int, error) {
	query := r.db.Rebind(`
		SELECT rating, COUNT(*) AS total
		FROM ratings
		WHERE item_type = ? AND item_id = ? AND visible = TRUE
		GROUP BY rating
	`)
	rows, err := r.db.QueryxContext(ctx, query, string(itemType), itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int, domain.MaxRating)
	for rows.Next() {
		var value, total int
		if err := rows.Scan(&value, &total); err != nil {
			return nil, err
		}
		counts[value] = total
	}
	return counts, rows.Err()
}

var _ ports.RatingRepository = (*RatingRepository)(nil)
