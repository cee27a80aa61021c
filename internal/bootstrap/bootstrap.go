package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/campuscloud/eduprojects/internal/app/controllers"
	"github.com/campuscloud/eduprojects/internal/app/indexes"
	appRepos "github.com/campuscloud/eduprojects/internal/app/repositories"
	appRoutes "github.com/campuscloud/eduprojects/internal/app/routes"
	appServices "github.com/campuscloud/eduprojects/internal/app/services"
	"github.com/campuscloud/eduprojects/internal/config"
	"github.com/campuscloud/eduprojects/internal/db"
	appMiddleware "github.com/campuscloud/eduprojects/internal/middleware"
	pkgAuth "github.com/campuscloud/eduprojects/internal/pkg/auth"
	"github.com/campuscloud/eduprojects/internal/pkg/filestorage"
	"github.com/campuscloud/eduprojects/internal/pkg/helpers"
	"github.com/campuscloud/eduprojects/internal/pkg/logger"
	"github.com/campuscloud/eduprojects/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	UserService       appServices.UserService
	ProjectService    appServices.ProjectService
	AuthController    *appControllers.AuthController
	UserController    *appControllers.UserController
	ProjectController *appControllers.ProjectController
	UploadController  *appControllers.UploadController
	FileController    *appControllers.FileController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	FileStorage       *filestorage.LocalStorage
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Mongo, ensures indexes and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Mongo, error) {
	lgr.Info().Str("database", cfg.Mongo.Database).Msg("Establishing database connection...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := indexes.Ensure(ctx, database.Database); err != nil {
		lgr.Error().Err(err).Msg("Failed to ensure indexes")
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		database.Close(closeCtx)
		return nil, err
	}
	lgr.Info().Msg("Database indexes ensured.")

	if err := seed.CreateDefaultData(ctx, appRepos.NewRepositories(database.Database), lgr); err != nil {
		// Seeding is convenience data, not a startup requirement
		lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Mongo, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Database)

	// The base URL must match the static file serving path on this server
	baseURL := "http://localhost:" + cfg.Server.Port
	sizeOverrides := map[filestorage.DocumentField]int64{
		filestorage.FieldReport:       cfg.Uploads.MaxFileSizeMB << 20,
		filestorage.FieldPresentation: cfg.Uploads.MaxFileSizeMB << 20,
		filestorage.FieldImages:       cfg.Uploads.MaxFileSizeMB << 20,
		filestorage.FieldCode:         cfg.Uploads.MaxCodeFileSizeMB << 20,
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads", sizeOverrides)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 720*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.ProjectService = appServices.NewProjectService(deps.Repos.ProjectRepository, deps.Repos.UserRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.ProjectController = appControllers.NewProjectController(deps.ProjectService, lgr)
	deps.UploadController = appControllers.NewUploadController(deps.FileStorage, lgr)
	deps.FileController = appControllers.NewFileController(deps.FileStorage, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(splitOrigins(cfg.Server.CORSOrigins)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ProjectController,
		deps.UploadController,
		deps.FileController,
		deps.AuthMiddleware,
	)

	return router
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
