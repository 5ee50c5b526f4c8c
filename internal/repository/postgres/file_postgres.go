package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"filebox/internal/model"
	"filebox/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, name, content_type, size_in_bytes, storage_ref, folder_id, owner_user_id, status, tags, is_favorite, created_at, modified_at, is_deleted, deleted_at`

func scanFile(row interface{ Scan(...any) error }) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.ContentType,
		&f.SizeInBytes,
		&f.StorageRef,
		&f.FolderID,
		&f.OwnerUserID,
		&f.Status,
		&f.Tags,
		&f.IsFavorite,
		&f.CreatedAt,
		&f.ModifiedAt,
		&f.IsDeleted,
		&f.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFiles(rows *sql.Rows) ([]model.File, error) {
	defer rows.Close()
	files := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// Create inserts a new file metadata row.
func (r *FilePostgres) Create(ctx context.Context, file *model.File) error {
	const q = `
		INSERT INTO files (id, name, content_type, size_in_bytes, storage_ref, folder_id, owner_user_id, status, tags, is_favorite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, q,
		file.ID,
		file.Name,
		file.ContentType,
		file.SizeInBytes,
		file.StorageRef,
		file.FolderID,
		file.OwnerUserID,
		file.Status,
		file.Tags,
		file.IsFavorite,
		file.CreatedAt,
	)
	return err
}

// FindByID fetches a single non-deleted file scoped by owner.
func (r *FilePostgres) FindByID(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	q := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE id = $1 AND owner_user_id = $2 AND NOT is_deleted
	`
	return scanFile(r.db.QueryRowContext(ctx, q, id, ownerUserID))
}

// ListAll returns the user's live files, newest first.
func (r *FilePostgres) ListAll(ctx context.Context, ownerUserID string) ([]model.File, error) {
	q := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_user_id = $1 AND NOT is_deleted
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// ListByFolder returns live files in folderID, or unfiled files when
// folderID is nil, ordered by name.
func (r *FilePostgres) ListByFolder(ctx context.Context, ownerUserID string, folderID *string) ([]model.File, error) {
	var rows *sql.Rows
	var err error
	if folderID == nil {
		q := `
			SELECT ` + fileColumns + `
			FROM files
			WHERE owner_user_id = $1 AND folder_id IS NULL AND NOT is_deleted
			ORDER BY name ASC
		`
		rows, err = r.db.QueryContext(ctx, q, ownerUserID)
	} else {
		q := `
			SELECT ` + fileColumns + `
			FROM files
			WHERE owner_user_id = $1 AND folder_id = $2 AND NOT is_deleted
			ORDER BY name ASC
		`
		rows, err = r.db.QueryContext(ctx, q, ownerUserID, *folderID)
	}
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// ListFavorites returns live favorite files ordered by name.
func (r *FilePostgres) ListFavorites(ctx context.Context, ownerUserID string) ([]model.File, error) {
	q := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_user_id = $1 AND is_favorite AND NOT is_deleted
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// Search matches term against name and tags, case-insensitively.
func (r *FilePostgres) Search(ctx context.Context, ownerUserID, term string) ([]model.File, error) {
	q := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_user_id = $1 AND NOT is_deleted
		  AND (name ILIKE '%' || $2 || '%'
		    OR EXISTS (
		      SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag)
		      WHERE t.tag ILIKE '%' || $2 || '%'
		    ))
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerUserID, term)
	if err != nil {
		return nil, err
	}
	return collectFiles(rows)
}

// Update persists mutable file fields.
func (r *FilePostgres) Update(ctx context.Context, file *model.File) error {
	const q = `
		UPDATE files
		SET name = $1, folder_id = $2, status = $3, tags = $4, is_favorite = $5, modified_at = $6
		WHERE id = $7 AND owner_user_id = $8 AND NOT is_deleted
	`
	res, err := r.db.ExecContext(ctx, q,
		file.Name,
		file.FolderID,
		file.Status,
		file.Tags,
		file.IsFavorite,
		file.ModifiedAt,
		file.ID,
		file.OwnerUserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks one file deleted.
func (r *FilePostgres) SoftDelete(ctx context.Context, ownerUserID, id string) error {
	const q = `
		UPDATE files
		SET is_deleted = TRUE, deleted_at = now()
		WHERE id = $1 AND owner_user_id = $2 AND NOT is_deleted
	`
	res, err := r.db.ExecContext(ctx, q, id, ownerUserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BatchSoftDelete marks the given files deleted inside one transaction,
// skipping ids that do not resolve.
func (r *FilePostgres) BatchSoftDelete(ctx context.Context, ownerUserID string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const q = `
		UPDATE files
		SET is_deleted = TRUE, deleted_at = now()
		WHERE id = $1 AND owner_user_id = $2 AND NOT is_deleted
	`
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, q, id, ownerUserID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Restore reverses a soft delete.
func (r *FilePostgres) Restore(ctx context.Context, ownerUserID, id string) error {
	const q = `
		UPDATE files
		SET is_deleted = FALSE, deleted_at = NULL, modified_at = now()
		WHERE id = $1 AND owner_user_id = $2 AND is_deleted
	`
	res, err := r.db.ExecContext(ctx, q, id, ownerUserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
