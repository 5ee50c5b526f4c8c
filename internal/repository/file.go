package repository

import (
	"context"

	"filebox/internal/model"
)

// FileRepository defines data access for file metadata records, with the
// same scoping and soft-delete conventions as FolderRepository.
type FileRepository interface {
	// Create inserts a new file metadata record.
	Create(ctx context.Context, file *model.File) error

	// FindByID returns a non-deleted file owned by ownerUserID.
	// Returns sql.ErrNoRows when absent, foreign-owned, or soft-deleted.
	FindByID(ctx context.Context, ownerUserID, id string) (*model.File, error)

	// ListAll returns every non-deleted file for the user, newest first.
	ListAll(ctx context.Context, ownerUserID string) ([]model.File, error)

	// ListByFolder returns non-deleted files in the given folder
	// (nil = unfiled), ordered by name.
	ListByFolder(ctx context.Context, ownerUserID string, folderID *string) ([]model.File, error)

	// ListFavorites returns non-deleted favorite files, ordered by name.
	ListFavorites(ctx context.Context, ownerUserID string) ([]model.File, error)

	// Search returns non-deleted files whose name or any tag contains term
	// (case-insensitive), ordered by name.
	Search(ctx context.Context, ownerUserID, term string) ([]model.File, error)

	// Update persists mutable file fields.
	Update(ctx context.Context, file *model.File) error

	// SoftDelete marks one file deleted. Returns sql.ErrNoRows when the
	// file is absent, foreign-owned, or already deleted.
	SoftDelete(ctx context.Context, ownerUserID, id string) error

	// BatchSoftDelete marks the given files deleted, silently skipping ids
	// that do not resolve to a live file owned by the user.
	BatchSoftDelete(ctx context.Context, ownerUserID string, ids []string) error

	// Restore reverses a soft delete. Returns sql.ErrNoRows when no deleted
	// file matches.
	Restore(ctx context.Context, ownerUserID, id string) error
}
