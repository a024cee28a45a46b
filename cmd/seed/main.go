package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"cadence/internal/config"
	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
	"cadence/internal/itemtype"
	"cadence/internal/repository/postgres"
	"cadence/internal/service"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

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
	commentRepo := postgres.NewCommentRepository(repoConfig)
	notificationRepo := postgres.NewNotificationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	typeRegistry, err := itemtype.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize item type registry: %v", err)
	}

	// Create services (seeding goes through the service layer so the
	// demo data obeys the same validation as API writes)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	orgService := service.NewOrganizationService(orgRepo, projectRepo, logger)
	userService := service.NewUserService(userRepo, logger)
	projectService := service.NewProjectService(projectRepo, itemRepo, sprintRepo, postgres.NewFileRepository(repoConfig), logger)
	itemService := service.NewWorkItemService(itemRepo, projectRepo, commentRepo, typeRegistry, notificationService, txManager, logger)
	sprintService := service.NewSprintService(sprintRepo, itemRepo, projectRepo, logger)

	seedUser := "00000000-0000-0000-0000-000000000001"
	if _, err := userService.EnsureProfile(ctx, seedUser, "demo@example.com", "Demo User"); err != nil {
		log.Fatalf("Failed to create seed user: %v", err)
	}

	org, err := orgService.CreateOrganization(ctx, &services.CreateOrgRequest{
		Slug:        "acme",
		Name:        "Acme Inc",
		Description: "Demo organization",
		CreatedBy:   seedUser,
	})
	if err != nil {
		log.Fatalf("Failed to create organization: %v", err)
	}
	log.Printf("Created organization %s (%s)", org.Name, org.ID)

	project, err := projectService.CreateProject(ctx, &services.CreateProjectRequest{
		OrgID:       &org.ID,
		Key:         "DEMO",
		Name:        "Demo Tracker",
		Description: "Seeded demo project",
		Visibility:  models.VisibilityInternal,
		CreatedBy:   seedUser,
	})
	if err != nil {
		log.Fatalf("Failed to create project: %v", err)
	}
	log.Printf("Created project %s (%s)", project.Key, project.ID)

	now := time.Now()
	sprint, err := sprintService.CreateSprint(ctx, &services.CreateSprintRequest{
		ProjectID: project.ID,
		Name:      "Sprint 1",
		Goal:      "Walking skeleton",
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 14),
	})
	if err != nil {
		log.Fatalf("Failed to create sprint: %v", err)
	}
	log.Printf("Created sprint %s (%s)", sprint.Name, sprint.ID)

	// Seed a small hierarchy exercising every type level
	type seedItem struct {
		key     string // local handle so later items can reference parents
		parent  string // empty = root
		typ     models.ItemType
		title   string
		effort  *int
		sprint  bool
		promote bool // assign to the seed user
	}
	items := []seedItem{
		{key: "init", typ: models.ItemTypeInitiative, title: "Launch v1"},
		{key: "epic", parent: "init", typ: models.ItemTypeEpic, title: "Core tracking"},
		{key: "feat", parent: "epic", typ: models.ItemTypeFeature, title: "Work item CRUD"},
		{key: "story", parent: "feat", typ: models.ItemTypeUserStory, title: "As a user I can reorder siblings", effort: intPtr(3), sprint: true},
		{key: "task", parent: "story", typ: models.ItemTypeTask, title: "Implement position swap", effort: intPtr(2), sprint: true, promote: true},
		{key: "sub", parent: "task", typ: models.ItemTypeSubtask, title: "Wire move endpoint", effort: intPtr(1)},
		{key: "bug", parent: "feat", typ: models.ItemTypeBug, title: "Boundary move duplicates rows", effort: intPtr(2), promote: true},
	}

	created := map[string]*models.WorkItem{}
	for _, s := range items {
		req := &services.CreateItemRequest{
			ProjectID: project.ID,
			Type:      s.typ,
			Title:     s.title,
			Effort:    s.effort,
			CreatedBy: seedUser,
		}
		if s.parent != "" {
			parent := created[s.parent]
			req.ParentID = &parent.ID
		}
		if s.sprint {
			req.SprintID = &sprint.ID
		}
		if s.promote {
			req.AssigneeID = &seedUser
		}

		item, err := itemService.CreateItem(ctx, req)
		if err != nil {
			log.Fatalf("Failed to create item %q: %v", s.title, err)
		}
		created[s.key] = item
		log.Printf("Created %s: %s (%s)", item.Type, item.Title, item.ID)
	}

	log.Println("Seeding complete")
}

// intPtr returns a pointer to an int
func intPtr(i int) *int {
	return &i
}
