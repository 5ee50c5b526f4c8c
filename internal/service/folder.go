package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"filebox/internal/model"
	"filebox/internal/repository"
	"filebox/internal/repository/postgres"
)

// FolderService defines the use cases for managing a user's folder tree.
// Every call is scoped to ownerUserID; "not found" covers entities that are
// absent, owned by someone else, or soft-deleted.
type FolderService interface {
	// Create adds a folder under parentFolderID (nil = root) and returns it
	// with its materialized path computed from the parent.
	Create(ctx context.Context, ownerUserID, name string, parentFolderID *string, tags []string) (*model.Folder, error)

	// Get returns a single folder by id.
	Get(ctx context.Context, ownerUserID, id string) (*model.Folder, error)

	// Rename changes a folder's name and rewrites the paths of all its
	// descendants in the same transaction.
	Rename(ctx context.Context, ownerUserID, id, newName string) (*model.Folder, error)

	// Move reparents a folder (nil = make it a root). Fails with
	// ErrCircularMove when the target is the folder itself or anywhere in
	// its subtree; descendant paths are rewritten atomically otherwise.
	Move(ctx context.Context, ownerUserID, id string, newParentFolderID *string) (*model.Folder, error)

	// Delete soft-deletes one folder. Children and contained files are left
	// untouched.
	Delete(ctx context.Context, ownerUserID, id string) error

	// BatchDelete soft-deletes the given folders, skipping ids that do not
	// resolve.
	BatchDelete(ctx context.Context, ownerUserID string, ids []string) error

	// Restore reverses a soft delete and returns the folder.
	Restore(ctx context.Context, ownerUserID, id string) (*model.Folder, error)

	// UpdateTags replaces a folder's tags with the normalized input.
	UpdateTags(ctx context.Context, ownerUserID, id string, tags []string) (*model.Folder, error)

	// ToggleFavorite flips a folder's favorite flag.
	ToggleFavorite(ctx context.Context, ownerUserID, id string) (*model.Folder, error)

	// ListChildren returns the immediate children of parentID (nil = root
	// level), ordered by name.
	ListChildren(ctx context.Context, ownerUserID string, parentID *string) ([]model.Folder, error)

	// ListAll returns the user's entire live folder set, ordered by path.
	ListAll(ctx context.Context, ownerUserID string) ([]model.Folder, error)

	// ListFavorites returns the user's favorite folders, ordered by path.
	ListFavorites(ctx context.Context, ownerUserID string) ([]model.Folder, error)

	// Search matches term against folder names, paths, and tags.
	Search(ctx context.Context, ownerUserID, term string) ([]model.Folder, error)

	// BuildTree assembles the user's folder hierarchy from a single query.
	BuildTree(ctx context.Context, ownerUserID string) ([]*model.FolderNode, error)
}

type folderService struct {
	repo repository.FolderRepository
}

// NewFolderService constructs a new FolderService.
func NewFolderService(repo repository.FolderRepository) FolderService {
	return &folderService{repo: repo}
}

func (s *folderService) Create(ctx context.Context, ownerUserID, name string, parentFolderID *string, tags []string) (*model.Folder, error) {
	parentPath := ""
	if parentFolderID != nil {
		parent, err := s.repo.FindByID(ctx, ownerUserID, *parentFolderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("parent folder: %w", ErrNotFound)
			}
			return nil, err
		}
		parentPath = parent.Path
	}

	folder, err := model.NewFolder(name, parentFolderID, parentPath, ownerUserID, tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.repo.Create(ctx, folder); err != nil {
		if errors.Is(err, postgres.ErrDuplicatePath) {
			return nil, fmt.Errorf("folder %q: %w", folder.Path, ErrConflict)
		}
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

func (s *folderService) Get(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	folder, err := s.repo.FindByID(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return folder, nil
}

func (s *folderService) Rename(ctx context.Context, ownerUserID, id, newName string) (*model.Folder, error) {
	folder, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}

	oldPath := folder.Path
	if err := folder.Rename(newName, model.ParentPath(oldPath)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.cascade(ctx, folder, oldPath); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) Move(ctx context.Context, ownerUserID, id string, newParentFolderID *string) (*model.Folder, error) {
	folder, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}

	newParentPath := ""
	if newParentFolderID != nil {
		target, err := s.repo.FindByID(ctx, ownerUserID, *newParentFolderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("target folder: %w", ErrNotFound)
			}
			return nil, err
		}
		// The target's materialized path names every ancestor, soft-deleted
		// ones included, so a subtree test rejects cycles that an ancestor
		// walk over live rows would miss.
		if model.IsAncestorPath(folder.Path, target.Path) {
			return nil, ErrCircularMove
		}
		newParentPath = target.Path
	}

	oldPath := folder.Path
	folder.MoveTo(newParentFolderID, newParentPath)

	if err := s.cascade(ctx, folder, oldPath); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) cascade(ctx context.Context, folder *model.Folder, oldPath string) error {
	if err := s.repo.UpdateWithCascade(ctx, folder, oldPath); err != nil {
		switch {
		case errors.Is(err, postgres.ErrDuplicatePath):
			return fmt.Errorf("folder %q: %w", folder.Path, ErrConflict)
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		}
		return fmt.Errorf("update folder: %w", err)
	}
	return nil
}

func (s *folderService) Delete(ctx context.Context, ownerUserID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.repo.SoftDelete(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *folderService) BatchDelete(ctx context.Context, ownerUserID string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no folder ids provided", ErrValidation)
	}
	return s.repo.BatchSoftDelete(ctx, ownerUserID, ids)
}

func (s *folderService) Restore(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.repo.Restore(ctx, ownerUserID, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		case errors.Is(err, postgres.ErrDuplicatePath):
			return nil, fmt.Errorf("restore folder: %w", ErrConflict)
		}
		return nil, err
	}
	return s.Get(ctx, ownerUserID, id)
}

func (s *folderService) UpdateTags(ctx context.Context, ownerUserID, id string, tags []string) (*model.Folder, error) {
	folder, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	folder.SetTags(tags)
	if err := s.update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) ToggleFavorite(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	folder, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	folder.ToggleFavorite()
	if err := s.update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) update(ctx context.Context, folder *model.Folder) error {
	if err := s.repo.Update(ctx, folder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update folder: %w", err)
	}
	return nil
}

func (s *folderService) ListChildren(ctx context.Context, ownerUserID string, parentID *string) ([]model.Folder, error) {
	return s.repo.ListChildren(ctx, ownerUserID, parentID)
}

func (s *folderService) ListAll(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	return s.repo.ListAll(ctx, ownerUserID)
}

func (s *folderService) ListFavorites(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	return s.repo.ListFavorites(ctx, ownerUserID)
}

func (s *folderService) Search(ctx context.Context, ownerUserID, term string) ([]model.Folder, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}
	return s.repo.Search(ctx, ownerUserID, term)
}

// BuildTree fetches the user's live folders in one query, indexes them by
// parent, and assembles the nested structure in memory. ListAll orders by
// path, which keeps siblings in name order.
func (s *folderService) BuildTree(ctx context.Context, ownerUserID string) ([]*model.FolderNode, error) {
	folders, err := s.repo.ListAll(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*model.FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &model.FolderNode{
			ID:         f.ID,
			Name:       f.Name,
			Path:       f.Path,
			IsFavorite: f.IsFavorite,
			Children:   []*model.FolderNode{},
		}
	}

	roots := make([]*model.FolderNode, 0)
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentFolderID == nil {
			roots = append(roots, node)
			continue
		}
		// Folders whose parent is soft-deleted have no node to attach to
		// and are omitted, matching the non-cascading delete semantics.
		if parent, ok := nodes[*f.ParentFolderID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots, nil
}
