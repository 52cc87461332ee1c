// Command maintenance runs one-off database chores: migrations, category
// seeding, legacy list normalization and admin account creation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/bootstrap"
	"github.com/explorekarawang/directory-api/internal/repository/sqlstore"
	"github.com/explorekarawang/directory-api/internal/service"
)

const usage = `usage: maintenance <command> [flags]

commands:
  migrate           apply pending schema migrations
  seed-categories   create categories from existing content when none exist
  normalize-lists   rewrite legacy comma separated list columns as JSON arrays
  create-admin      create an admin account (-username, -password, -email)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	inj := bootstrap.BuildContainer()
	logs, err := do.Invoke[*bootstrap.Logging](inj)
	if err != nil {
		return err
	}
	defer func() { _ = logs.Close() }()
	log := logs.Logger.With(zap.String("command", command))

	db, err := do.Invoke[*sqlx.DB](inj)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch command {
	case "migrate":
		applied, err := sqlstore.Migrate(ctx, db)
		if err != nil {
			return err
		}
		log.Info("migrations complete", zap.Strings("applied", applied))
	case "seed-categories":
		inserted, err := do.MustInvoke[*service.CategoryService](inj).EnsureSeedCategories(ctx)
		if err != nil {
			return err
		}
		log.Info("categories seeded", zap.Int("inserted", inserted))
	case "normalize-lists":
		counts, err := sqlstore.NormalizeLegacyLists(ctx, db)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			log.Info("lists normalized", zap.String("column", k), zap.Int("rewritten", counts[k]))
		}
	case "create-admin":
		fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
		username := fs.String("username", "", "admin username")
		password := fs.String("password", "", "admin password")
		email := fs.String("email", "", "optional contact email")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var emailPtr *string
		if *email != "" {
			emailPtr = email
		}
		user, err := do.MustInvoke[*service.AuthService](inj).CreateAdmin(ctx, service.CreateAdminInput{
			Username: *username,
			Email:    emailPtr,
			Password: *password,
		})
		if err != nil {
			return err
		}
		log.Info("admin created", zap.String("username", user.Username), zap.String("id", user.ID.String()))
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
