package model

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStatus is the lifecycle state of a file's content. Transitions only
// move forward: Processing -> Active -> Archived. Soft deletion is tracked
// separately and can apply in any state.
type FileStatus string

const (
	FileStatusProcessing FileStatus = "processing"
	FileStatusActive     FileStatus = "active"
	FileStatusArchived   FileStatus = "archived"
)

// ErrInvalidTransition is returned when a file status change would move
// backwards in the lifecycle.
var ErrInvalidTransition = errors.New("invalid file status transition")

// File is the metadata record for stored content. The bytes themselves live
// in the external object store under StorageRef; this layer never interprets
// the reference.
type File struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"content_type"`
	SizeInBytes int64      `json:"size_in_bytes"`
	StorageRef  string     `json:"storage_ref"`
	FolderID    *string    `json:"folder_id"`
	OwnerUserID string     `json:"owner_user_id"`
	Status      FileStatus `json:"status"`
	Tags        Tags       `json:"tags"`
	IsFavorite  bool       `json:"is_favorite"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// NewFile builds a file metadata record. Uploaded files enter the Active
// state directly; tags are normalized. A nil folderID means unfiled.
func NewFile(name, contentType string, sizeInBytes int64, storageRef string, folderID *string, ownerUserID string, tags []string) (*File, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if storageRef == "" {
		return nil, errors.New("storage reference is required")
	}
	if sizeInBytes < 0 {
		return nil, errors.New("size cannot be negative")
	}
	return &File{
		ID:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		SizeInBytes: sizeInBytes,
		StorageRef:  storageRef,
		FolderID:    folderID,
		OwnerUserID: ownerUserID,
		Status:      FileStatusActive,
		Tags:        NormalizeTags(tags),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Rename changes the file's display name. When the new name carries no
// extension the current one is preserved, so "report" renames "draft.pdf"
// to "report.pdf".
func (f *File) Rename(newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if filepath.Ext(newName) == "" {
		newName += filepath.Ext(f.Name)
	}
	f.Name = newName
	f.touch()
	return nil
}

// MoveTo assigns the file to a folder, or unfiles it when folderID is nil.
// Target folder ownership is validated by the service.
func (f *File) MoveTo(folderID *string) {
	f.FolderID = folderID
	f.touch()
}

// SetTags replaces the file's tags with the normalized input.
func (f *File) SetTags(tags []string) {
	f.Tags = NormalizeTags(tags)
	f.touch()
}

// ToggleFavorite flips the favorite flag.
func (f *File) ToggleFavorite() {
	f.IsFavorite = !f.IsFavorite
	f.touch()
}

// Activate marks processing complete. Archived files cannot re-enter the
// active state.
func (f *File) Activate() error {
	if f.Status == FileStatusArchived {
		return ErrInvalidTransition
	}
	f.Status = FileStatusActive
	f.touch()
	return nil
}

// Archive retires the file's content.
func (f *File) Archive() {
	f.Status = FileStatusArchived
	f.touch()
}

// MarkDeleted soft-deletes the file.
func (f *File) MarkDeleted() {
	now := time.Now().UTC()
	f.IsDeleted = true
	f.DeletedAt = &now
}

// Restore reverses a soft delete.
func (f *File) Restore() {
	f.IsDeleted = false
	f.DeletedAt = nil
	f.touch()
}

func (f *File) touch() {
	now := time.Now().UTC()
	f.ModifiedAt = &now
}
