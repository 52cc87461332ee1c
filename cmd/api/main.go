package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/bootstrap"
	"github.com/explorekarawang/directory-api/internal/config"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		return err
	}
	logs, err := do.Invoke[*bootstrap.Logging](inj)
	if err != nil {
		return err
	}
	defer func() { _ = logs.Close() }()
	log := logs.Logger

	db, err := do.Invoke[*sqlx.DB](inj)
	if err != nil {
		log.Error("database unavailable", zap.Error(err))
		return err
	}
	defer func() { _ = db.Close() }()

	rdb, err := do.Invoke[*goredis.Client](inj)
	if err != nil {
		log.Error("redis unavailable", zap.Error(err))
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	e, err := do.Invoke[*echo.Echo](inj)
	if err != nil {
		log.Error("build http server", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("db_driver", cfg.Database.Driver))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
		return err
	}
	return nil
}
