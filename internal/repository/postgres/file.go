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

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const fileColumns = `id, project_id, parent_id, is_folder, name, position, size,
	content_type, storage_path, description, metadata, uploaded_by, created_at, updated_at`

const fileVersionColumns = `id, file_id, version, size, storage_path, uploaded_by, created_at`

func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.Files, fileColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.ID, file.ProjectID, file.ParentID, file.IsFolder, file.Name, file.Position,
		file.Size, file.ContentType, file.StoragePath, file.Description, file.Metadata,
		file.UploadedBy, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("file references missing row: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	file, err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, position = $3, size = $4, content_type = $5,
			storage_path = $6, description = $7, metadata = $8, updated_at = $9
		WHERE id = $10
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.ParentID, file.Name, file.Position, file.Size, file.ContentType,
		file.StoragePath, file.Description, file.Metadata, file.UpdatedAt,
		file.ID,
	)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("cannot delete folder with children: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresFileRepository) ListByProject(ctx context.Context, projectID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1
		ORDER BY position ASC, name ASC
	`, fileColumns, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

func (r *PostgresFileRepository) ListChildren(ctx context.Context, projectID string, parentID *string) ([]models.File, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE project_id = $1 AND parent_id IS NULL
			ORDER BY position ASC, name ASC
		`, fileColumns, r.tables.Files)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE project_id = $1 AND parent_id = $2
			ORDER BY position ASC, name ASC
		`, fileColumns, r.tables.Files)
		args = append(args, projectID, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list file children: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

func (r *PostgresFileRepository) CountChildren(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE parent_id = $1`, r.tables.Files)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count file children: %w", err)
	}
	return count, nil
}

func (r *PostgresFileRepository) MaxPosition(ctx context.Context, projectID string, parentID *string) (int, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) FROM %s WHERE project_id = $1 AND parent_id IS NULL`, r.tables.Files)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`SELECT COALESCE(MAX(position), -1) FROM %s WHERE project_id = $1 AND parent_id = $2`, r.tables.Files)
		args = append(args, projectID, *parentID)
	}

	var max int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("max file position: %w", err)
	}
	return max, nil
}

func (r *PostgresFileRepository) SwapPositions(ctx context.Context, a, b *models.File) error {
	query := fmt.Sprintf(`UPDATE %s SET position = $1, updated_at = NOW() WHERE id = $2`, r.tables.Files)
	exec := GetExecutor(ctx, r.pool)

	result, err := exec.Exec(ctx, query, b.Position, a.ID)
	if err != nil {
		return fmt.Errorf("swap file positions: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", a.ID, domain.ErrNotFound)
	}

	result, err = exec.Exec(ctx, query, a.Position, b.ID)
	if err != nil {
		return fmt.Errorf("swap file positions: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", b.ID, domain.ErrNotFound)
	}

	a.Position, b.Position = b.Position, a.Position
	return nil
}

func (r *PostgresFileRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE project_id = $1`, r.tables.Files)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}

func (r *PostgresFileRepository) CreateVersion(ctx context.Context, version *models.FileVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.FileVersions, fileVersionColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		version.ID, version.FileID, version.Version, version.Size,
		version.StoragePath, version.UploadedBy, version.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file %s version %d already exists: %w", version.FileID, version.Version, domain.ErrConflict)
		}
		return fmt.Errorf("create file version: %w", err)
	}
	return nil
}

func (r *PostgresFileRepository) ListVersions(ctx context.Context, fileID string) ([]models.FileVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE file_id = $1
		ORDER BY version DESC
	`, fileVersionColumns, r.tables.FileVersions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("list file versions: %w", err)
	}
	defer rows.Close()

	var versions []models.FileVersion
	for rows.Next() {
		version, err := scanFileVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file version: %w", err)
		}
		versions = append(versions, *version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file versions: %w", err)
	}
	return versions, nil
}

func (r *PostgresFileRepository) GetVersion(ctx context.Context, fileID string, version int) (*models.FileVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE file_id = $1 AND version = $2
	`, fileVersionColumns, r.tables.FileVersions)

	fv, err := scanFileVersion(GetExecutor(ctx, r.pool).QueryRow(ctx, query, fileID, version))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file version: %w", err)
	}
	return fv, nil
}

func (r *PostgresFileRepository) LatestVersion(ctx context.Context, fileID string) (int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s WHERE file_id = $1`, r.tables.FileVersions)

	var latest int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, fileID).Scan(&latest); err != nil {
		return 0, fmt.Errorf("latest file version: %w", err)
	}
	return latest, nil
}

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID, &file.ProjectID, &file.ParentID, &file.IsFolder, &file.Name, &file.Position,
		&file.Size, &file.ContentType, &file.StoragePath, &file.Description, &file.Metadata,
		&file.UploadedBy, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func scanFileVersion(row pgx.Row) (*models.FileVersion, error) {
	var version models.FileVersion
	err := row.Scan(
		&version.ID, &version.FileID, &version.Version, &version.Size,
		&version.StoragePath, &version.UploadedBy, &version.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func collectFiles(rows pgx.Rows) ([]models.File, error) {
	var files []models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}
