package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	googleauth "jobmatch-backend/internal/auth"
	"jobmatch-backend/internal/matches"
	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/health"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/storage/db"
	"jobmatch-backend/internal/shared/storage/object"
	localstore "jobmatch-backend/internal/shared/storage/object/local"
	s3store "jobmatch-backend/internal/shared/storage/object/s3"
	"jobmatch-backend/internal/shared/telemetry"
	"jobmatch-backend/internal/users"
	"jobmatch-backend/internal/vacancies"
)

const jwtIssuerDefault = "jobmatch"

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.Store
	Tokens *auth.Tokens
	Health *health.Service

	UsersService     *users.Service
	ResumesService   *resumes.Service
	VacanciesService *vacancies.Service
	MatchesService   *matches.Service
}

// Build connects the stores and wires every feature. Without DATABASE_URL in a
// dev-like environment the repositories live in memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.JWTIssuer) == "" {
		cfg.JWTIssuer = jwtIssuerDefault
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, cfg.Env)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	redisClient, err := buildRedis(cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
		Store:  store,
		Tokens: tokens,
		Health: health.NewService(0),
	}
	if sqlDB != nil {
		app.Health.Add("postgres", sqlDB.PingContext)
	}
	if redisClient != nil {
		app.Health.Add("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	buildServices(app)

	var limiter middleware.Limiter
	if redisClient != nil {
		limiter = middleware.NewRedisRateLimiter(redisClient, nil)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:    cfg,
		Verifier:  tokens,
		Limiter:   limiter,
		Health:    app.Health,
		Users:     users.NewHandler(app.UsersService, tokens),
		Resumes:   resumes.NewHandler(app.ResumesService),
		Vacancies: vacancies.NewHandler(app.VacanciesService),
		Matches:   matches.NewHandler(app.MatchesService),
		GoogleAuth: googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.UsersService,
			tokens,
		),
	})

	return app, nil
}

// Close releases the database and Redis handles.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3KMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func buildServices(app *App) {
	var (
		userRepo    users.Repo
		resumeRepo  resumes.Repo
		vacancyRepo vacancies.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		vacancyRepo = &vacancies.PGRepo{DB: app.DB}
	} else {
		memUsers := users.NewMemoryRepo()
		userRepo = memUsers
		resumeRepo = resumes.NewMemoryRepo(memUsers)
		vacancyRepo = vacancies.NewMemoryRepo(memUsers)
	}

	userSvc := users.NewService(userRepo)
	resumeSvc := &resumes.Service{Repo: resumeRepo, Store: app.Store}
	vacancySvc := &vacancies.Service{Repo: vacancyRepo}

	var matchRepo matches.Repo
	if app.DB != nil {
		matchRepo = &matches.PGRepo{DB: app.DB}
	} else {
		matchRepo = matches.NewMemoryRepo(resumeSvc, vacancySvc, userRepo)
	}
	resumeSvc.Refs = matchRepo
	vacancySvc.Refs = matchRepo

	app.UsersService = userSvc
	app.ResumesService = resumeSvc
	app.VacanciesService = vacancySvc
	app.MatchesService = &matches.Service{Repo: matchRepo, Resumes: resumeSvc, Vacancies: vacancySvc}
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
}
