package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "letters-backend/internal/auth"
	"letters-backend/internal/documents"
	"letters-backend/internal/extract"
	"letters-backend/internal/letters"
	"letters-backend/internal/llm"
	openai "letters-backend/internal/llm/openai"
	"letters-backend/internal/shared/config"
	"letters-backend/internal/shared/server"
	"letters-backend/internal/shared/storage/db"
	"letters-backend/internal/shared/storage/object"
	localstore "letters-backend/internal/shared/storage/object/local"
	s3store "letters-backend/internal/shared/storage/object/s3"
	"letters-backend/internal/templates"
	"letters-backend/internal/users"
)

// App holds the wired application: repositories, services, handlers and the
// HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	DocumentsStore object.ObjectStore
	ExportsStore   object.ObjectStore

	DocumentsRepo documents.Repo
	TemplatesRepo templates.Repo
	LettersRepo   letters.Repo
	UsersRepo     users.Repo

	DocumentsService *documents.Service
	TemplatesService *templates.Service
	ExtractService   *extract.Service
	LettersService   *letters.Service
	UsersService     *users.Service

	DocumentsHandler *documents.Handler
	TemplatesHandler *templates.Handler
	LettersHandler   *letters.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	docStore, exportStore, err := buildStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:         cfg,
		DB:             sqlDB,
		DocumentsStore: docStore,
		ExportsStore:   exportStore,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		TemplatesHandler: app.TemplatesHandler,
		LettersHandler:   app.LettersHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

// buildStores returns the source-document store and the export-artifact
// store. On S3 these are separate buckets; locally they are subdirectories
// of the configured base dir.
func buildStores(ctx context.Context, cfg config.Config) (object.ObjectStore, object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		docStore, err := s3store.New(ctx, cfg.AWSRegion, cfg.DocumentsBucket, cfg.DocumentsPrefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, nil, fmt.Errorf("documents store: %w", err)
		}
		exportStore, err := s3store.New(ctx, cfg.AWSRegion, cfg.ExportsBucket, cfg.ExportsPrefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, nil, fmt.Errorf("exports store: %w", err)
		}
		return docStore, exportStore, nil
	}

	base := cfg.LocalStoreDir
	if strings.TrimSpace(base) == "" {
		base = "./data"
	}
	return localstore.New(filepath.Join(base, "documents")), localstore.New(filepath.Join(base, "exports")), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.TemplatesRepo = &templates.PGRepo{DB: app.DB}
		app.LettersRepo = &letters.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.TemplatesRepo = templates.NewMemoryRepo()
		app.LettersRepo = letters.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
			openaiClient, err := openai.NewClient(apiKey, app.Config.LLMModel)
			if err != nil {
				return err
			}
			llmClient = openaiClient
		} else if !isDevLike(app.Config.Env) {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	}

	app.DocumentsService = &documents.Service{
		Store:      app.DocumentsStore,
		Repo:       app.DocumentsRepo,
		PresignTTL: app.Config.PresignTTL,
	}
	app.TemplatesService = &templates.Service{Repo: app.TemplatesRepo}
	app.ExtractService = &extract.Service{
		Store: app.DocumentsStore,
		Docs:  app.DocumentsRepo,
	}
	app.LettersService = &letters.Service{
		Letters:    app.LettersRepo,
		Templates:  app.TemplatesRepo,
		Docs:       app.DocumentsRepo,
		Extract:    app.ExtractService,
		LLM:        llmClient,
		Exports:    app.ExportsStore,
		PresignTTL: app.Config.PresignTTL,
	}
	app.UsersService = users.NewService(app.UsersRepo)

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.TemplatesHandler = templates.NewHandler(app.TemplatesService)
	app.LettersHandler = letters.NewHandler(app.LettersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)

	return nil
}
