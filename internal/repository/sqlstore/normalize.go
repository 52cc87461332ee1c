package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/explorekarawang/directory-api/internal/domain"
)

// listColumns are the text columns that hold JSON string arrays.
var listColumns = []struct {
	Table  string
	Column string
}{
	{"destinations", "facilities"},
	{"culinary", "specialties"},
	{"culinary", "facilities"},
	{"ratings", "media"},
}

// NormalizeLegacyLists rewrites list columns holding comma separated, blank or
// otherwise non-canonical values as JSON arrays. It is safe to run repeatedly and
// returns the number of rewritten values per "table.column".
func NormalizeLegacyLists(ctx context.Context, db *sqlx.DB) (map[string]int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	result := make(map[string]int, len(listColumns))
	for _, lc := range listColumns {
		type cell struct {
			ID  string  `db:"id"`
			Raw *string `db:"raw"`
		}
		var cells []cell
		query := fmt.Sprintf(`SELECT CAST(id AS TEXT) AS id, %s AS raw FROM %s`, lc.Column, lc.Table)
		if err := tx.SelectContext(ctx, &cells, query); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", lc.Table, lc.Column, err)
		}

		update := tx.Rebind(fmt.Sprintf(`UPDATE %s SET %s = ? WHERE CAST(id AS TEXT) = ?`, lc.Table, lc.Column))
		rewritten := 0
		for _, c := range cells {
			raw := ""
			if c.Raw != nil {
				raw = *c.Raw
			}
			list, changed := domain.NormalizeLegacyList(raw)
			if !changed {
				continue
			}
			if _, err := tx.ExecContext(ctx, update, list, c.ID); err != nil {
				return nil, fmt.Errorf("rewrite %s.%s for %s: %w", lc.Table, lc.Column, c.ID, err)
			}
			rewritten++
		}
		result[lc.Table+"."+lc.Column] = rewritten
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
