package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/config"
	"github.com/explorekarawang/directory-api/internal/logging"
	"github.com/explorekarawang/directory-api/internal/media"
	"github.com/explorekarawang/directory-api/internal/repository/minio"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
	"github.com/explorekarawang/directory-api/internal/repository/redis"
	"github.com/explorekarawang/directory-api/internal/repository/sqlstore"
	"github.com/explorekarawang/directory-api/internal/service"
	transporthttp "github.com/explorekarawang/directory-api/internal/transport/http"
	"github.com/explorekarawang/directory-api/internal/util"
)

const startupTimeout = 15 * time.Second

// Logging bundles the process logger with the func that flushes it.
type Logging struct {
	Logger *zap.Logger
	Close  func() error
}

// BuildContainer registers every component lazily; nothing connects until it
// is first invoked.
func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return &cfg, nil
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*Logging, error) {
		cfg := do.MustInvoke[*config.Config](i)
		logger, closeFn, err := logging.New(cfg.LogLevel, cfg.LogstashAddr)
		if err != nil {
			return nil, err
		}
		return &Logging{Logger: logger, Close: closeFn}, nil
	})
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		return do.MustInvoke[*Logging](i).Logger, nil
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*sqlx.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		db, err := sqlstore.Open(ctx, sqlstore.Options{
			Driver:       cfg.Database.Driver,
			DSN:          cfg.Database.URL,
			MaxOpenConns: cfg.Database.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			applied, err := sqlstore.Migrate(ctx, db)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			if len(applied) > 0 {
				log.Info("migrations applied", zap.Strings("files", applied))
			}
		}
		return db, nil
	})

	// Redis; nil when REDIS_ADDR is unset
	do.Provide(inj, func(i *do.Injector) (*goredis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.Redis.Enabled() {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		return redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	})
	do.Provide(inj, func(i *do.Injector) (ports.SubmissionThrottle, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*goredis.Client](i)
		if client == nil {
			do.MustInvoke[*zap.Logger](i).Warn("redis not configured, submissions are not rate limited")
			return nil, nil
		}
		return redis.NewFixedWindowThrottle(client, "submissions", cfg.Submission.RateLimit, cfg.Submission.RateWindow), nil
	})

	// MinIO; nil storage disables uploads
	do.Provide(inj, func(i *do.Injector) (ports.ObjectStorage, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		if !cfg.MinIO.Enabled() {
			log.Warn("minio not configured, uploads are disabled")
			return nil, nil
		}
		client, err := minio.NewClient(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("minio: client: %w", err)
		}
		storage := minio.NewStorage(client, cfg.MinIO.PublicURL)
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if err := storage.EnsureBucket(ctx, cfg.MinIO.Bucket); err != nil {
			log.Warn("minio bucket check failed", zap.String("bucket", cfg.MinIO.Bucket), zap.Error(err))
		}
		return storage, nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (ports.RatingRepository, error) {
		return sqlstore.NewRatingRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.SubmissionRepository, error) {
		return sqlstore.NewSubmissionRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.DestinationRepository, error) {
		return sqlstore.NewDestinationRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.CulinaryRepository, error) {
		return sqlstore.NewCulinaryRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.CategoryRepository, error) {
		return sqlstore.NewCategoryRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.FacilityRepository, error) {
		return sqlstore.NewFacilityRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.AdminUserRepository, error) {
		return sqlstore.NewAdminUserRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.CarouselRepository, error) {
		return sqlstore.NewCarouselRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (ports.AdminSessionRepository, error) {
		return sqlstore.NewSessionRepo(do.MustInvoke[*sqlx.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (*service.DeviceResolver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewDeviceResolver(service.DeviceResolverConfig{
			CookieName: cfg.Device.CookieName,
			TTL:        cfg.Device.TTL,
			Secure:     cfg.Session.CookieSecure,
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.RatingService, error) {
		return service.NewRatingService(do.MustInvoke[ports.RatingRepository](i), service.RatingServiceConfig{}), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.SubmissionService, error) {
		return service.NewSubmissionService(
			do.MustInvoke[ports.SubmissionRepository](i),
			do.MustInvoke[ports.SubmissionThrottle](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.ContentService, error) {
		return service.NewContentService(
			do.MustInvoke[ports.DestinationRepository](i),
			do.MustInvoke[ports.CulinaryRepository](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.CategoryService, error) {
		return service.NewCategoryService(do.MustInvoke[ports.CategoryRepository](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.FacilityService, error) {
		return service.NewFacilityService(do.MustInvoke[ports.FacilityRepository](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.CarouselService, error) {
		return service.NewCarouselService(do.MustInvoke[ports.CarouselRepository](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.AuthService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewAuthService(
			do.MustInvoke[ports.AdminUserRepository](i),
			do.MustInvoke[ports.AdminSessionRepository](i),
			util.NewJWTManager(cfg.Session.JWTSecret, cfg.Session.TTL),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.UploadService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewUploadService(do.MustInvoke[ports.ObjectStorage](i), service.UploadServiceConfig{
			Bucket:            cfg.MinIO.Bucket,
			MaxBytes:          cfg.Upload.MaxBytes,
			ImageProcessor:    media.NewResizeProcessor(cfg.Upload.MaxDimension, cfg.Upload.MaxPixels),
			ImageMaxDimension: cfg.Upload.MaxDimension,
		}), nil
	})

	// HTTP
	do.Provide(inj, func(i *do.Injector) (*echo.Echo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		devices := do.MustInvoke[*service.DeviceResolver](i)
		auth := do.MustInvoke[*service.AuthService](i)

		e := transporthttp.NewRouter(transporthttp.RouterConfig{
			AllowOrigins: cfg.AllowOrigins,
			BodyLimit:    bodyLimit(cfg.Upload.MaxBytes),
		}, log)
		e.Use(transporthttp.LoadAdmin(auth, cfg.Session.CookieName, log))

		transporthttp.RegisterSwagger(e, cfg.SwaggerSpec, log)
		transporthttp.RegisterAuth(e, auth, transporthttp.SessionCookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}, log)
		transporthttp.RegisterRatings(e, do.MustInvoke[*service.RatingService](i), devices, log)
		transporthttp.RegisterSubmissions(e, do.MustInvoke[*service.SubmissionService](i), devices, log)
		transporthttp.RegisterCatalog(e,
			do.MustInvoke[*service.CategoryService](i),
			do.MustInvoke[*service.FacilityService](i),
			log,
		)
		transporthttp.RegisterContent(e, do.MustInvoke[*service.ContentService](i), log)
		transporthttp.RegisterCarousel(e, do.MustInvoke[*service.CarouselService](i), log)
		transporthttp.RegisterUploads(e, do.MustInvoke[*service.UploadService](i), devices, log)
		return e, nil
	})

	return inj
}

// bodyLimit leaves room for multipart framing around the largest upload.
func bodyLimit(maxUpload int64) string {
	const overhead = 1 << 20
	return fmt.Sprintf("%dK", (maxUpload+overhead)/1024)
}
