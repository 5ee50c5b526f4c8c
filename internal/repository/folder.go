package repository

import (
	"context"

	"filebox/internal/model"
)

// FolderRepository defines data access for folders using SQL queries only.
// No business logic here — strictly persistence operations. Every query is
// scoped by the owning user and, unless stated otherwise, excludes
// soft-deleted rows.
type FolderRepository interface {
	// Create inserts a new folder record.
	Create(ctx context.Context, folder *model.Folder) error

	// FindByID returns a non-deleted folder owned by ownerUserID.
	// Returns sql.ErrNoRows when absent, foreign-owned, or soft-deleted.
	FindByID(ctx context.Context, ownerUserID, id string) (*model.Folder, error)

	// ListAll returns every non-deleted folder for the user, ordered by path.
	ListAll(ctx context.Context, ownerUserID string) ([]model.Folder, error)

	// ListChildren returns the immediate non-deleted children of parentID
	// (nil = root level), ordered by name.
	ListChildren(ctx context.Context, ownerUserID string, parentID *string) ([]model.Folder, error)

	// ListFavorites returns non-deleted favorite folders, ordered by path.
	ListFavorites(ctx context.Context, ownerUserID string) ([]model.Folder, error)

	// Search returns non-deleted folders whose name, path, or any tag
	// contains term (case-insensitive), ordered by path.
	Search(ctx context.Context, ownerUserID, term string) ([]model.Folder, error)

	// Update persists mutable folder fields (tags, favorite, modified_at).
	// It must not be used for structural changes; see UpdateWithCascade.
	Update(ctx context.Context, folder *model.Folder) error

	// UpdateWithCascade persists a rename or move in one transaction: the
	// folder row itself (name, parent, path, modified_at) plus a prefix
	// rewrite of every descendant's path from oldPath to folder.Path.
	// Either all rows are updated or none.
	UpdateWithCascade(ctx context.Context, folder *model.Folder, oldPath string) error

	// SoftDelete marks one folder deleted. Returns sql.ErrNoRows when the
	// folder is absent, foreign-owned, or already deleted.
	SoftDelete(ctx context.Context, ownerUserID, id string) error

	// BatchSoftDelete marks the given folders deleted, silently skipping
	// ids that do not resolve to a live folder owned by the user.
	BatchSoftDelete(ctx context.Context, ownerUserID string, ids []string) error

	// Restore reverses a soft delete. Returns sql.ErrNoRows when no deleted
	// folder matches.
	Restore(ctx context.Context, ownerUserID, id string) error
}
