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

// PostgresWorkItemRepository implements the WorkItemRepository interface
type PostgresWorkItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkItemRepository creates a new work item repository
func NewWorkItemRepository(config *RepositoryConfig) repositories.WorkItemRepository {
	return &PostgresWorkItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const workItemColumns = `id, project_id, parent_id, type, title, description, status, priority,
	position, sprint_id, assignee_id, business_value, technical_risk, effort, progress,
	metadata, created_by, created_at, updated_at`

// Create inserts a work item
func (r *PostgresWorkItemRepository) Create(ctx context.Context, item *models.WorkItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, r.tables.WorkItems, workItemColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID, item.ProjectID, item.ParentID, item.Type, item.Title, item.Description,
		item.Status, item.Priority, item.Position, item.SprintID, item.AssigneeID,
		item.BusinessValue, item.TechnicalRisk, item.Effort, item.Progress,
		item.Metadata, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("work item references missing row: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create work item: %w", err)
	}
	return nil
}

// GetByID retrieves a work item by ID
func (r *PostgresWorkItemRepository) GetByID(ctx context.Context, id string) (*models.WorkItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, workItemColumns, r.tables.WorkItems)

	item, err := scanWorkItem(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get work item: %w", err)
	}
	return item, nil
}

// Update rewrites a work item's mutable columns
func (r *PostgresWorkItemRepository) Update(ctx context.Context, item *models.WorkItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, title = $2, description = $3, status = $4, priority = $5,
			position = $6, sprint_id = $7, assignee_id = $8, business_value = $9,
			technical_risk = $10, effort = $11, progress = $12, metadata = $13, updated_at = $14
		WHERE id = $15
	`, r.tables.WorkItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ParentID, item.Title, item.Description, item.Status, item.Priority,
		item.Position, item.SprintID, item.AssigneeID, item.BusinessValue,
		item.TechnicalRisk, item.Effort, item.Progress, item.Metadata, item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update work item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("work item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a work item
func (r *PostgresWorkItemRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.WorkItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("cannot delete work item with children: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete work item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByProject returns every matching item in the project, flat
func (r *PostgresWorkItemRepository) ListByProject(ctx context.Context, projectID string, filter repositories.WorkItemFilter) ([]models.WorkItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE project_id = $1`, workItemColumns, r.tables.WorkItems)
	args := []interface{}{projectID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.SprintID != nil {
		args = append(args, *filter.SprintID)
		query += fmt.Sprintf(" AND sprint_id = $%d", len(args))
	}
	if filter.Assignee != nil {
		args = append(args, *filter.Assignee)
		query += fmt.Sprintf(" AND assignee_id = $%d", len(args))
	}
	query += " ORDER BY position ASC, title ASC"

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	defer rows.Close()

	return collectWorkItems(rows)
}

// ListSiblings returns the full sibling group of parentID in storage order
func (r *PostgresWorkItemRepository) ListSiblings(ctx context.Context, projectID string, parentID *string) ([]models.WorkItem, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE project_id = $1 AND parent_id IS NULL
			ORDER BY position ASC, title ASC
		`, workItemColumns, r.tables.WorkItems)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE project_id = $1 AND parent_id = $2
			ORDER BY position ASC, title ASC
		`, workItemColumns, r.tables.WorkItems)
		args = append(args, projectID, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list siblings: %w", err)
	}
	defer rows.Close()

	return collectWorkItems(rows)
}

// CountChildren reports how many items reference id as parent
func (r *PostgresWorkItemRepository) CountChildren(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE parent_id = $1`, r.tables.WorkItems)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return count, nil
}

// MaxPosition returns the highest position in the sibling group, -1 when empty
func (r *PostgresWorkItemRepository) MaxPosition(ctx context.Context, projectID string, parentID *string) (int, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) FROM %s WHERE project_id = $1 AND parent_id IS NULL`, r.tables.WorkItems)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) FROM %s WHERE project_id = $1 AND parent_id = $2`, r.tables.WorkItems)
		args = append(args, projectID, *parentID)
	}

	var max int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}
	return max, nil
}

// SwapPositions exchanges the position values of two items. Run inside
// a transaction so a concurrent reader never observes the half-swap.
func (r *PostgresWorkItemRepository) SwapPositions(ctx context.Context, a, b *models.WorkItem) error {
	query := fmt.Sprintf(`UPDATE %s SET position = $1, updated_at = NOW() WHERE id = $2`, r.tables.WorkItems)
	exec := GetExecutor(ctx, r.pool)

	result, err := exec.Exec(ctx, query, b.Position, a.ID)
	if err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("work item %s: %w", a.ID, domain.ErrNotFound)
	}

	result, err = exec.Exec(ctx, query, a.Position, b.ID)
	if err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("work item %s: %w", b.ID, domain.ErrNotFound)
	}

	a.Position, b.Position = b.Position, a.Position
	return nil
}

// CountByProject reports how many items belong to the project
func (r *PostgresWorkItemRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE project_id = $1`, r.tables.WorkItems)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count work items: %w", err)
	}
	return count, nil
}

func scanWorkItem(row pgx.Row) (*models.WorkItem, error) {
	var item models.WorkItem
	err := row.Scan(
		&item.ID, &item.ProjectID, &item.ParentID, &item.Type, &item.Title, &item.Description,
		&item.Status, &item.Priority, &item.Position, &item.SprintID, &item.AssigneeID,
		&item.BusinessValue, &item.TechnicalRisk, &item.Effort, &item.Progress,
		&item.Metadata, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectWorkItems(rows pgx.Rows) ([]models.WorkItem, error) {
	var items []models.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work items: %w", err)
	}
	return items, nil
}
