package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"cadence/internal/auth"
	"cadence/internal/config"
	"cadence/internal/handler"
	"cadence/internal/itemtype"
	"cadence/internal/middleware"
	"cadence/internal/repository/postgres"
	"cadence/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	orgRepo := postgres.NewOrganizationRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	projectRepo := postgres.NewProjectRepository(repoConfig)
	itemRepo := postgres.NewWorkItemRepository(repoConfig)
	sprintRepo := postgres.NewSprintRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	notificationRepo := postgres.NewNotificationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Initialize item type registry
	typeRegistry, err := itemtype.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize item type registry: %v", err)
	}
	logger.Info("item type registry initialized", "types", len(typeRegistry.List()))

	// Create services
	notificationService := service.NewNotificationService(notificationRepo, logger)
	orgService := service.NewOrganizationService(orgRepo, projectRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	projectService := service.NewProjectService(projectRepo, itemRepo, sprintRepo, fileRepo, logger)
	itemService := service.NewWorkItemService(itemRepo, projectRepo, commentRepo, typeRegistry, notificationService, txManager, logger)
	sprintService := service.NewSprintService(sprintRepo, itemRepo, projectRepo, logger)
	fileService := service.NewFileService(fileRepo, projectRepo, cfg.FileStorageDir, txManager, logger)
	commentService := service.NewCommentService(commentRepo, itemRepo, fileRepo, projectRepo, notificationService, logger)
	treeService := service.NewTreeService(itemRepo, fileRepo, projectRepo, logger)

	// Create handlers
	healthHandler := handler.NewHealthHandler(pool)
	orgHandler := handler.NewOrganizationHandler(orgService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	projectHandler := handler.NewProjectHandler(projectService, treeService, logger)
	itemHandler := handler.NewWorkItemHandler(itemService, logger)
	sprintHandler := handler.NewSprintHandler(sprintService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Organization routes
	mux.HandleFunc("GET /api/orgs", orgHandler.ListOrganizations)
	mux.HandleFunc("POST /api/orgs", orgHandler.CreateOrganization)
	mux.HandleFunc("GET /api/orgs/{id}", orgHandler.GetOrganization)
	mux.HandleFunc("PATCH /api/orgs/{id}", orgHandler.UpdateOrganization)
	mux.HandleFunc("DELETE /api/orgs/{id}", orgHandler.DeleteOrganization)

	// Profile routes
	mux.HandleFunc("GET /api/users/me", userHandler.GetMe)
	mux.HandleFunc("PATCH /api/users/me", userHandler.UpdateMe)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	// Project read models
	mux.HandleFunc("GET /api/projects/{id}/tree", projectHandler.GetItemTree)
	mux.HandleFunc("GET /api/projects/{id}/board", projectHandler.GetBoard)
	mux.HandleFunc("GET /api/projects/{id}/files/tree", projectHandler.GetFileTree)

	// Project-scoped collections
	mux.HandleFunc("GET /api/projects/{id}/items", itemHandler.ListItems)
	mux.HandleFunc("GET /api/projects/{id}/items/available-parents", itemHandler.AvailableParents)
	mux.HandleFunc("GET /api/projects/{id}/sprints", sprintHandler.ListSprints)
	mux.HandleFunc("GET /api/projects/{id}/files", fileHandler.ListChildren)

	// Work item routes
	mux.HandleFunc("POST /api/items", itemHandler.CreateItem)
	mux.HandleFunc("GET /api/items/{id}", itemHandler.GetItem)
	mux.HandleFunc("PATCH /api/items/{id}", itemHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", itemHandler.DeleteItem)
	mux.HandleFunc("PUT /api/items/{id}/move", itemHandler.MoveItem)

	// Sprint routes
	mux.HandleFunc("POST /api/sprints", sprintHandler.CreateSprint)
	mux.HandleFunc("GET /api/sprints/{id}", sprintHandler.GetSprint)
	mux.HandleFunc("PATCH /api/sprints/{id}", sprintHandler.UpdateSprint)
	mux.HandleFunc("DELETE /api/sprints/{id}", sprintHandler.DeleteSprint)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.Upload)
	mux.HandleFunc("POST /api/files/folders", fileHandler.CreateFolder)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.UpdateFile)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)
	mux.HandleFunc("PUT /api/files/{id}/move", fileHandler.MoveFile)
	mux.HandleFunc("GET /api/files/{id}/download", fileHandler.Download)
	mux.HandleFunc("POST /api/files/{id}/versions", fileHandler.UploadVersion)

	// Comment routes
	mux.HandleFunc("GET /api/comments", commentHandler.ListComments)
	mux.HandleFunc("POST /api/comments", commentHandler.CreateComment)
	mux.HandleFunc("PATCH /api/comments/{id}", commentHandler.UpdateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", commentHandler.DeleteComment)

	// Notification routes
	mux.HandleFunc("GET /api/notifications", notificationHandler.ListNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/read", notificationHandler.MarkRead)
	mux.HandleFunc("POST /api/notifications/read-all", notificationHandler.MarkAllRead)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // long enough for large downloads
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
