package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepo(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, slug, type, created_at`

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := insertCategory(ctx, r.db, c); err != nil {
		return nil, err
	}
	stored := *c
	return &stored, nil
}

func insertCategory(ctx context.Context, ext sqlx.ExtContext, c *domain.Category) error {
	query := ext.Rebind(`INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?)`)
	_, err := ext.ExecContext(ctx, query, c.ID, c.Name, c.Slug, string(c.Type), c.CreatedAt)
	return mapWriteErr(err)
}

func (r *CategoryRepository) List(ctx context.Context, itemType *domain.ItemType) ([]domain.Category, error) {
	categories := []domain.Category{}
	if itemType != nil {
		query := r.db.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE type = ? ORDER BY name ASC`)
		if err := r.db.SelectContext(ctx, &categories, query, string(*itemType)); err != nil {
			return nil, err
		}
		return categories, nil
	}
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY type ASC, name ASC`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) ListWithCounts(ctx context.Context, itemType domain.ItemType) ([]domain.CategoryCount, error) {
	table := "destinations"
	if itemType == domain.ItemTypeCulinary {
		table = "culinary"
	}
	query := r.db.Rebind(`
		SELECT c.id, c.name, c.slug, c.type, c.created_at, COUNT(t.id) AS item_count
		FROM categories c
		LEFT JOIN ` + table + ` t ON t.category = c.name
		WHERE c.type = ?
		GROUP BY c.id, c.name, c.slug, c.type, c.created_at
		ORDER BY c.name ASC
	`)
	counts := []domain.CategoryCount{}
	if err := r.db.SelectContext(ctx, &counts, query, string(itemType)); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := r.db.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`)
	var c domain.Category
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id uuid.UUID, name, slug string) (*domain.Category, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE categories SET name = ?, slug = ? WHERE id = ?`), name, slug, id)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *CategoryRepository) SeedFromContent(ctx context.Context, at time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM categories`); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	type seed struct {
		Name string `db:"category"`
		Type string `db:"type"`
	}
	var seeds []seed
	const query = `
		SELECT DISTINCT category, 'destination' AS type FROM destinations WHERE category <> ''
		UNION
		SELECT DISTINCT category, 'culinary' AS type FROM culinary WHERE category <> ''
		ORDER BY type, category
	`
	if err := tx.SelectContext(ctx, &seeds, query); err != nil {
		return 0, err
	}

	for _, s := range seeds {
		c := &domain.Category{
			ID:        uuid.New(),
			Name:      s.Name,
			Slug:      domain.Slugify(s.Name),
			Type:      domain.ItemType(s.Type),
			CreatedAt: at,
		}
		if err := insertCategory(ctx, tx, c); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(seeds), nil
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)
