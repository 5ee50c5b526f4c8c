package model

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node in a user's folder tree. ParentFolderID is the source of
// truth for hierarchy; Path is a materialized copy kept consistent by the
// folder service on every structural change.
type Folder struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Path           string     `json:"path"`
	ParentFolderID *string    `json:"parent_folder_id"`
	OwnerUserID    string     `json:"owner_user_id"`
	Tags           Tags       `json:"tags"`
	IsFavorite     bool       `json:"is_favorite"`
	CreatedAt      time.Time  `json:"created_at"`
	ModifiedAt     *time.Time `json:"modified_at,omitempty"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// NewFolder builds a folder owned by ownerUserID. The caller supplies the
// parent's materialized path (empty for a root folder); tags are normalized.
func NewFolder(name string, parentID *string, parentPath, ownerUserID string, tags []string) (*Folder, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Folder{
		ID:             uuid.NewString(),
		Name:           name,
		Path:           ComputePath(name, parentPath),
		ParentFolderID: parentID,
		OwnerUserID:    ownerUserID,
		Tags:           NormalizeTags(tags),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Rename changes the folder's name and recomputes its path from the parent's
// path. Descendant paths are rewritten by the caller in the same transaction.
func (f *Folder) Rename(newName, parentPath string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	f.Name = newName
	f.Path = ComputePath(newName, parentPath)
	f.touch()
	return nil
}

// MoveTo reparents the folder and recomputes its path. A nil parent makes it
// a root folder. Cycle checking is the caller's responsibility.
func (f *Folder) MoveTo(newParentID *string, newParentPath string) {
	f.ParentFolderID = newParentID
	f.Path = ComputePath(f.Name, newParentPath)
	f.touch()
}

// SetTags replaces the folder's tags with the normalized input.
func (f *Folder) SetTags(tags []string) {
	f.Tags = NormalizeTags(tags)
	f.touch()
}

// ToggleFavorite flips the favorite flag.
func (f *Folder) ToggleFavorite() {
	f.IsFavorite = !f.IsFavorite
	f.touch()
}

// MarkDeleted soft-deletes the folder. Descendants are not touched.
func (f *Folder) MarkDeleted() {
	now := time.Now().UTC()
	f.IsDeleted = true
	f.DeletedAt = &now
}

// Restore reverses a soft delete.
func (f *Folder) Restore() {
	f.IsDeleted = false
	f.DeletedAt = nil
	f.touch()
}

func (f *Folder) touch() {
	now := time.Now().UTC()
	f.ModifiedAt = &now
}

// FolderNode is a folder with its nested children, as returned by the tree
// query.
type FolderNode struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Path       string        `json:"path"`
	IsFavorite bool          `json:"is_favorite"`
	Children   []*FolderNode `json:"children"`
}
