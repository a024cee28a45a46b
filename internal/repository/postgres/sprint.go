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

// PostgresSprintRepository implements the SprintRepository interface
type PostgresSprintRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSprintRepository creates a new sprint repository
func NewSprintRepository(config *RepositoryConfig) repositories.SprintRepository {
	return &PostgresSprintRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const sprintColumns = `id, project_id, name, goal, status, start_date, end_date, created_at, updated_at`

func (r *PostgresSprintRepository) Create(ctx context.Context, sprint *models.Sprint) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Sprints, sprintColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		sprint.ID, sprint.ProjectID, sprint.Name, sprint.Goal, sprint.Status,
		sprint.StartDate, sprint.EndDate, sprint.CreatedAt, sprint.UpdatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("sprint references missing project: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create sprint: %w", err)
	}
	return nil
}

func (r *PostgresSprintRepository) GetByID(ctx context.Context, id string) (*models.Sprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, sprintColumns, r.tables.Sprints)

	sprint, err := scanSprint(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get sprint: %w", err)
	}
	return sprint, nil
}

func (r *PostgresSprintRepository) Update(ctx context.Context, sprint *models.Sprint) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, goal = $2, status = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Sprints)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		sprint.Name, sprint.Goal, sprint.Status, sprint.StartDate, sprint.EndDate,
		sprint.UpdatedAt, sprint.ID,
	)
	if err != nil {
		return fmt.Errorf("update sprint: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("sprint %s: %w", sprint.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresSprintRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Sprints)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("sprint %s still has items: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete sprint: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresSprintRepository) ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1
		ORDER BY start_date ASC, name ASC
	`, sprintColumns, r.tables.Sprints)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	defer rows.Close()

	var sprints []models.Sprint
	for rows.Next() {
		sprint, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sprint: %w", err)
		}
		sprints = append(sprints, *sprint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sprints: %w", err)
	}
	return sprints, nil
}

func (r *PostgresSprintRepository) CountItems(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE sprint_id = $1`, r.tables.WorkItems)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sprint items: %w", err)
	}
	return count, nil
}

func scanSprint(row pgx.Row) (*models.Sprint, error) {
	var sprint models.Sprint
	err := row.Scan(
		&sprint.ID, &sprint.ProjectID, &sprint.Name, &sprint.Goal, &sprint.Status,
		&sprint.StartDate, &sprint.EndDate, &sprint.CreatedAt, &sprint.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}
