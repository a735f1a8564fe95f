package injectable

import (
	"context"
	"fmt"
	"io"

	"github.com/bravo68web/odinpkg/internal/application/service"
	"github.com/bravo68web/odinpkg/internal/config"
	domainservice "github.com/bravo68web/odinpkg/internal/domain/service"
	"github.com/bravo68web/odinpkg/internal/infrastructure/cache"
	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
	"github.com/bravo68web/odinpkg/internal/infrastructure/readme"
	"github.com/bravo68web/odinpkg/internal/infrastructure/repository"
	"github.com/bravo68web/odinpkg/internal/infrastructure/storage"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// Dependencies holds all the dependencies required by the router
type Dependencies struct {
	// Services
	IdentityService domainservice.IdentityService
	AuthService     *service.AuthService
	TokenService    *service.TokenService
	PublishService  *service.PublishService
	CatalogService  *service.CatalogService
	ReadmeService   *service.ReadmeService
	FlagService     *service.FlagService
	TagService      *service.TagService
	BookmarkService *service.BookmarkService
	UserService     *service.UserService

	// Infrastructure
	Fetcher     *readme.Fetcher
	RateLimiter *cache.RateLimiter // nil when Redis is not configured
	Storage     domainservice.StorageService

	closers []io.Closer
}

// LoadDependencies builds the repositories and services on top of db
func LoadDependencies(ctx context.Context, cfg *config.Config, db *database.Database) (*Dependencies, error) {
	log := logger.Get().WithFields(logger.Component("injectable"))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB())
	tokenRepo := repository.NewTokenRepository(db.DB())
	packageRepo := repository.NewPackageRepository(db.DB())
	versionRepo := repository.NewVersionRepository(db.DB())
	catalogRepo := repository.NewCatalogRepository(db.DB())
	flagRepo := repository.NewFlagRepository(db.DB())
	tagRepo := repository.NewTagRepository(db.DB())
	bookmarkRepo := repository.NewBookmarkRepository(db.DB())
	queries := repository.NewCatalogQueries(db.SQLX())

	// Initialize storage
	blobs, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps := &Dependencies{Storage: blobs}

	// Rate limiting is optional
	if cfg.Redis.IsConfigured() {
		client, err := cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, client)
		deps.RateLimiter = cache.NewRateLimiter(client, cfg.Redis.RateLimit.Requests, cfg.Redis.RateLimit.Window)
		log.Info("rate limiting enabled",
			logger.Int("requests", cfg.Redis.RateLimit.Requests),
			logger.Duration("window", cfg.Redis.RateLimit.Window),
		)
	}

	// OIDC discovery needs the provider to be reachable; login stays available
	// through GitHub when it is not.
	oidcService := service.NewOIDCService(&cfg.Auth.OIDC)
	if err := oidcService.Initialize(ctx); err != nil {
		log.Warn("OIDC provider unavailable", logger.Error(err))
	}

	// Initialize services
	sessions := service.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	deps.Fetcher = readme.NewFetcher(cfg.Readme)
	deps.closers = append(deps.closers, deps.Fetcher)
	deps.ReadmeService = service.NewReadmeService(readme.NewRenderer(cfg.Readme.MaxBytes), deps.Fetcher)

	resolver := service.NewDependencyResolver(packageRepo, versionRepo)
	validator := service.NewValidator(resolver, deps.ReadmeService)

	deps.IdentityService = service.NewIdentityService(userRepo, tokenRepo, sessions)
	deps.AuthService = service.NewAuthService(&cfg.Auth, userRepo, sessions, oidcService)
	deps.TokenService = service.NewTokenService(tokenRepo)
	deps.PublishService = service.NewPublishService(validator, catalogRepo, packageRepo, versionRepo, blobs)
	deps.CatalogService = service.NewCatalogService(queries, packageRepo, versionRepo, userRepo)
	deps.FlagService = service.NewFlagService(flagRepo, packageRepo)
	deps.TagService = service.NewTagService(tagRepo, packageRepo)
	deps.BookmarkService = service.NewBookmarkService(bookmarkRepo, packageRepo)
	deps.UserService = service.NewUserService(userRepo, packageRepo, versionRepo, tokenRepo, flagRepo)

	return deps, nil
}

// Close releases connections opened by LoadDependencies
func (d *Dependencies) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
