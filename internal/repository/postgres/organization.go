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

// PostgresOrganizationRepository implements the OrganizationRepository interface
type PostgresOrganizationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(config *RepositoryConfig) repositories.OrganizationRepository {
	return &PostgresOrganizationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const organizationColumns = `id, slug, name, description, settings, created_by, created_at, updated_at`

func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Organizations, organizationColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		org.ID, org.Slug, org.Name, org.Description, org.Settings,
		org.CreatedBy, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("organization slug %s already taken: %w", org.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, organizationColumns, r.tables.Organizations)

	org, err := scanOrganization(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (r *PostgresOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, organizationColumns, r.tables.Organizations)

	org, err := scanOrganization(GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("organization slug %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get organization by slug: %w", err)
	}
	return org, nil
}

func (r *PostgresOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET slug = $1, name = $2, description = $3, settings = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Organizations)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		org.Slug, org.Name, org.Description, org.Settings, org.UpdatedAt, org.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("organization slug %s already taken: %w", org.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("update organization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("organization %s: %w", org.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresOrganizationRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Organizations)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("organization %s still has projects: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete organization: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresOrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY name ASC`, organizationColumns, r.tables.Organizations)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, *org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(
		&org.ID, &org.Slug, &org.Name, &org.Description, &org.Settings,
		&org.CreatedBy, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
