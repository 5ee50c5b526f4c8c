package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"filebox/internal/model"
	"filebox/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderColumns = `id, name, path, parent_folder_id, owner_user_id, tags, is_favorite, created_at, modified_at, is_deleted, deleted_at`

func scanFolder(row interface{ Scan(...any) error }) (*model.Folder, error) {
	var f model.Folder
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Path,
		&f.ParentFolderID,
		&f.OwnerUserID,
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

func collectFolders(rows *sql.Rows) ([]model.Folder, error) {
	defer rows.Close()
	folders := make([]model.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return folders, nil
}

// Create inserts a new folder row.
func (r *FolderPostgres) Create(ctx context.Context, folder *model.Folder) error {
	const q = `
		INSERT INTO folders (id, name, path, parent_folder_id, owner_user_id, tags, is_favorite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, q,
		folder.ID,
		folder.Name,
		folder.Path,
		folder.ParentFolderID,
		folder.OwnerUserID,
		folder.Tags,
		folder.IsFavorite,
		folder.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %q: %w", folder.Path, ErrDuplicatePath)
		}
		return err
	}
	return nil
}

// FindByID fetches a single non-deleted folder scoped by owner.
func (r *FolderPostgres) FindByID(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	q := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE id = $1 AND owner_user_id = $2 AND NOT is_deleted
	`
	return scanFolder(r.db.QueryRowContext(ctx, q, id, ownerUserID))
}

// ListAll returns the user's entire live folder set ordered by path.
func (r *FolderPostgres) ListAll(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	q := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_user_id = $1 AND NOT is_deleted
		ORDER BY path ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

// ListChildren returns immediate children of parentID, or root folders when
// parentID is nil, ordered by name.
func (r *FolderPostgres) ListChildren(ctx context.Context, ownerUserID string, parentID *string) ([]model.Folder, error) {
	var rows *sql.Rows
	var err error
	if parentID == nil {
		q := `
			SELECT ` + folderColumns + `
			FROM folders
			WHERE owner_user_id = $1 AND parent_folder_id IS NULL AND NOT is_deleted
			ORDER BY name ASC
		`
		rows, err = r.db.QueryContext(ctx, q, ownerUserID)
	} else {
		q := `
			SELECT ` + folderColumns + `
			FROM folders
			WHERE owner_user_id = $1 AND parent_folder_id = $2 AND NOT is_deleted
			ORDER BY name ASC
		`
		rows, err = r.db.QueryContext(ctx, q, ownerUserID, *parentID)
	}
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

// ListFavorites returns live favorite folders ordered by path.
func (r *FolderPostgres) ListFavorites(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	q := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_user_id = $1 AND is_favorite AND NOT is_deleted
		ORDER BY path ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

// Search matches term against name, path, and tags, case-insensitively.
func (r *FolderPostgres) Search(ctx context.Context, ownerUserID, term string) ([]model.Folder, error) {
	q := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_user_id = $1 AND NOT is_deleted
		  AND (name ILIKE '%' || $2 || '%'
		    OR path ILIKE '%' || $2 || '%'
		    OR EXISTS (
		      SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag)
		      WHERE t.tag ILIKE '%' || $2 || '%'
		    ))
		ORDER BY path ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerUserID, term)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

// Update persists non-structural folder fields.
func (r *FolderPostgres) Update(ctx context.Context, folder *model.Folder) error {
	const q = `
		UPDATE folders
		SET tags = $1, is_favorite = $2, modified_at = $3
		WHERE id = $4 AND owner_user_id = $5 AND NOT is_deleted
	`
	res, err := r.db.ExecContext(ctx, q,
		folder.Tags,
		folder.IsFavorite,
		folder.ModifiedAt,
		folder.ID,
		folder.OwnerUserID,
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

// UpdateWithCascade applies a rename or move atomically: the folder row plus
// a prefix rewrite of every descendant's path. folder.Path must already hold
// the new path; oldPath is the path before the change.
func (r *FolderPostgres) UpdateWithCascade(ctx context.Context, folder *model.Folder, oldPath string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const qFolder = `
		UPDATE folders
		SET name = $1, path = $2, parent_folder_id = $3, modified_at = $4
		WHERE id = $5 AND owner_user_id = $6 AND NOT is_deleted
	`
	res, err := tx.ExecContext(ctx, qFolder,
		folder.Name,
		folder.Path,
		folder.ParentFolderID,
		folder.ModifiedAt,
		folder.ID,
		folder.OwnerUserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %q: %w", folder.Path, ErrDuplicatePath)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	// Descendants are identified by the old path prefix; substr comparison
	// avoids LIKE wildcard escaping of folder names.
	const qCascade = `
		UPDATE folders
		SET path = $1 || substr(path, length($2) + 1)
		WHERE owner_user_id = $3
		  AND substr(path, 1, length($2) + 1) = $2 || '/'
	`
	if _, err := tx.ExecContext(ctx, qCascade, folder.Path, oldPath, folder.OwnerUserID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %q: %w", folder.Path, ErrDuplicatePath)
		}
		return err
	}

	return tx.Commit()
}

// SoftDelete marks one folder deleted.
func (r *FolderPostgres) SoftDelete(ctx context.Context, ownerUserID, id string) error {
	const q = `
		UPDATE folders
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

// BatchSoftDelete marks the given folders deleted inside one transaction,
// skipping ids that do not resolve.
func (r *FolderPostgres) BatchSoftDelete(ctx context.Context, ownerUserID string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const q = `
		UPDATE folders
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
func (r *FolderPostgres) Restore(ctx context.Context, ownerUserID, id string) error {
	const q = `
		UPDATE folders
		SET is_deleted = FALSE, deleted_at = NULL, modified_at = now()
		WHERE id = $1 AND owner_user_id = $2 AND is_deleted
	`
	res, err := r.db.ExecContext(ctx, q, id, ownerUserID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("folder %s: %w", id, ErrDuplicatePath)
		}
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
