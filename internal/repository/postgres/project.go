package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &PostgresProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectColumns = `id, org_id, key, name, description, status, visibility,
	start_date, end_date, settings, created_by, created_at, updated_at`

func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.Projects, projectColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		project.ID, project.OrgID, project.Key, project.Name, project.Description,
		project.Status, project.Visibility, project.StartDate, project.EndDate,
		project.Settings, project.CreatedBy, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("project key %s already taken: %w", project.Key, domain.ErrConflict)
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, projectColumns, r.tables.Projects)

	project, err := scanProject(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

func (r *PostgresProjectRepository) GetByKey(ctx context.Context, key string) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE key = $1`, projectColumns, r.tables.Projects)

	project, err := scanProject(GetExecutor(ctx, r.pool).QueryRow(ctx, query, key))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("project key %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project by key: %w", err)
	}
	return project, nil
}

func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET key = $1, name = $2, description = $3, status = $4, visibility = $5,
			start_date = $6, end_date = $7, settings = $8, updated_at = $9
		WHERE id = $10
	`, r.tables.Projects)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		project.Key, project.Name, project.Description, project.Status, project.Visibility,
		project.StartDate, project.EndDate, project.Settings, project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("project key %s already taken: %w", project.Key, domain.ErrConflict)
		}
		return fmt.Errorf("update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresProjectRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Projects)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("project %s still has contents: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresProjectRepository) List(ctx context.Context, orgID *string) ([]models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, projectColumns, r.tables.Projects)
	var args []interface{}
	if orgID != nil {
		query += " WHERE org_id = $1"
		args = append(args, *orgID)
	}
	query += " ORDER BY name ASC"

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID, &project.OrgID, &project.Key, &project.Name, &project.Description,
		&project.Status, &project.Visibility, &project.StartDate, &project.EndDate,
		&project.Settings, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
