package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"cadence/internal/repository/postgres"
)

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createOrganizations := `
		CREATE TABLE IF NOT EXISTS ` + tables.Organizations + ` (
			id UUID PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			settings JSONB,
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createOrganizations); err != nil {
		return err
	}

	// Users keyed by the token subject, which is opaque text
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	createProjects := `
		CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY,
			org_id UUID REFERENCES ` + tables.Organizations + `(id),
			key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			visibility TEXT NOT NULL,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			settings JSONB,
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createProjects); err != nil {
		return err
	}

	createSprints := `
		CREATE TABLE IF NOT EXISTS ` + tables.Sprints + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id),
			name TEXT NOT NULL,
			goal TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			CHECK (start_date < end_date)
		)
	`
	if _, err := pool.Exec(ctx, createSprints); err != nil {
		return err
	}

	// Self-referencing parent FK deliberately has no cascade: deletes of
	// items with children are rejected, matching the service's 409.
	createWorkItems := `
		CREATE TABLE IF NOT EXISTS ` + tables.WorkItems + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id),
			parent_id UUID REFERENCES ` + tables.WorkItems + `(id),
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			sprint_id UUID REFERENCES ` + tables.Sprints + `(id),
			assignee_id TEXT,
			business_value INTEGER CHECK (business_value BETWEEN 1 AND 10),
			technical_risk INTEGER CHECK (technical_risk BETWEEN 1 AND 10),
			effort INTEGER CHECK (effort BETWEEN 1 AND 10),
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
			metadata JSONB,
			created_by TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createWorkItems); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id),
			parent_id UUID REFERENCES ` + tables.Files + `(id),
			is_folder BOOLEAN NOT NULL DEFAULT FALSE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			size BIGINT NOT NULL DEFAULT 0,
			content_type TEXT NOT NULL DEFAULT '',
			storage_path TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			uploaded_by TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	createFileVersions := `
		CREATE TABLE IF NOT EXISTS ` + tables.FileVersions + ` (
			id UUID PRIMARY KEY,
			file_id UUID NOT NULL REFERENCES ` + tables.Files + `(id) ON DELETE CASCADE,
			version INTEGER NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			storage_path TEXT NOT NULL,
			uploaded_by TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (file_id, version)
		)
	`
	if _, err := pool.Exec(ctx, createFileVersions); err != nil {
		return err
	}

	// entity_type/entity_id are polymorphic, so no FK
	createComments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY,
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			author_id TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createComments); err != nil {
		return err
	}

	createNotifications := `
		CREATE TABLE IF NOT EXISTS ` + tables.Notifications + ` (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createNotifications); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `work_items_project_parent ON ` + tables.WorkItems + `(project_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `work_items_sprint ON ` + tables.WorkItems + `(sprint_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `work_items_assignee ON ` + tables.WorkItems + `(assignee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_project_parent ON ` + tables.Files + `(project_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `sprints_project ON ` + tables.Sprints + `(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `comments_entity ON ` + tables.Comments + `(entity_type, entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `notifications_user_read ON ` + tables.Notifications + `(user_id, read)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Notifications,
		tables.Comments,
		tables.FileVersions,
		tables.Files,
		tables.WorkItems,
		tables.Sprints,
		tables.Projects,
		tables.Users,
		tables.Organizations,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}
