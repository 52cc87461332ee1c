package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultMaxOpenConns = 10
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Open returns a pooled handle for the configured driver. The caller owns the
// handle and must Close it on shutdown.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverPgx
	}
	switch driver {
	case DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", opts.Driver)
	}
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: empty dsn")
	}

	db, err := sqlx.Open(driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	if driver == DriverSQLite {
		// sqlite serialises writers
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", driver, err)
	}
	return db, nil
}

func dialect(db interface{ DriverName() string }) string {
	if db.DriverName() == DriverSQLite {
		return DriverSQLite
	}
	return DriverPostgres
}
