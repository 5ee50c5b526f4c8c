package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"filebox/internal/model"
	"filebox/internal/repository"
	"filebox/internal/storage"
)

// UploadInput carries the metadata of an incoming upload. The byte stream
// travels separately as an io.Reader.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	FolderID    *string
	Tags        []string
}

// UploadLimits bound what the service accepts. A zero MaxSizeBytes or empty
// AllowedContentTypes disables the respective check.
type UploadLimits struct {
	MaxSizeBytes        int64
	AllowedContentTypes []string
}

// FileService defines the use cases for managing a user's file metadata.
// Bytes are delegated to the storage collaborator; this service owns the
// metadata records only. Scoping follows the same convention as
// FolderService.
type FileService interface {
	// Upload streams content to object storage, records the metadata, and
	// rolls the object back if the metadata insert fails.
	Upload(ctx context.Context, ownerUserID string, r io.Reader, in UploadInput) (*model.File, error)

	// Get returns a single file by id.
	Get(ctx context.Context, ownerUserID, id string) (*model.File, error)

	// Download opens the file's content stream from the byte store.
	Download(ctx context.Context, ownerUserID, id string) (io.ReadCloser, *model.File, error)

	// PresignDownload returns a time-limited URL for the file's content.
	PresignDownload(ctx context.Context, ownerUserID, id string, expiry time.Duration) (string, error)

	// List returns the user's files, restricted to one folder when folderID
	// is non-nil.
	List(ctx context.Context, ownerUserID string, folderID *string) ([]model.File, error)

	// ListFavorites returns the user's favorite files.
	ListFavorites(ctx context.Context, ownerUserID string) ([]model.File, error)

	// Search matches term against file names and tags.
	Search(ctx context.Context, ownerUserID, term string) ([]model.File, error)

	// Rename changes the display name, preserving the extension when the
	// new name has none.
	Rename(ctx context.Context, ownerUserID, id, newName string) (*model.File, error)

	// Move assigns the file to a folder (nil = unfiled) after validating
	// target ownership. Files are not path-addressed, so no cascade runs.
	Move(ctx context.Context, ownerUserID, id string, newFolderID *string) (*model.File, error)

	// UpdateTags replaces the file's tags with the normalized input.
	UpdateTags(ctx context.Context, ownerUserID, id string, tags []string) (*model.File, error)

	// ToggleFavorite flips the file's favorite flag.
	ToggleFavorite(ctx context.Context, ownerUserID, id string) (*model.File, error)

	// Archive retires the file's content state.
	Archive(ctx context.Context, ownerUserID, id string) (*model.File, error)

	// Delete soft-deletes one file; the stored object is kept so the record
	// stays restorable.
	Delete(ctx context.Context, ownerUserID, id string) error

	// BatchDelete soft-deletes the given files, skipping ids that do not
	// resolve.
	BatchDelete(ctx context.Context, ownerUserID string, ids []string) error

	// Restore reverses a soft delete and returns the file.
	Restore(ctx context.Context, ownerUserID, id string) (*model.File, error)

	// Copy duplicates a file into targetFolderID: bytes are copied
	// server-side by the byte store, metadata is cloned with a fresh
	// identity and the conventional "Copy of " name.
	Copy(ctx context.Context, ownerUserID, sourceID, targetFolderID string) (*model.File, error)
}

type fileService struct {
	store   storage.Storage
	files   repository.FileRepository
	folders repository.FolderRepository
	limits  UploadLimits
}

// NewFileService constructs a new FileService.
func NewFileService(store storage.Storage, files repository.FileRepository, folders repository.FolderRepository, limits UploadLimits) FileService {
	return &fileService{store: store, files: files, folders: folders, limits: limits}
}

// objectKey derives a fresh storage key: a UUID plus the original extension,
// so object names never collide and never leak user-chosen names.
func objectKey(filename string) string {
	return filepath.ToSlash(filepath.Join("files", uuid.NewString()+filepath.Ext(filename)))
}

func (s *fileService) Upload(ctx context.Context, ownerUserID string, r io.Reader, in UploadInput) (*model.File, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrValidation)
	}
	if err := s.checkLimits(in); err != nil {
		return nil, err
	}
	if in.FolderID != nil {
		if err := s.checkFolder(ctx, ownerUserID, *in.FolderID); err != nil {
			return nil, err
		}
	}

	key := objectKey(in.Filename)
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	file, err := model.NewFile(in.Filename, in.ContentType, objInfo.Size, objInfo.Key, in.FolderID, ownerUserID, in.Tags)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("%w: %v; rollback delete failed: %v", ErrValidation, err, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.files.Create(ctx, file); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return file, nil
}

func (s *fileService) checkLimits(in UploadInput) error {
	if in.Size <= 0 {
		return fmt.Errorf("%w: no file was provided or file is empty", ErrValidation)
	}
	if s.limits.MaxSizeBytes > 0 && in.Size > s.limits.MaxSizeBytes {
		return fmt.Errorf("%w: file size exceeds the limit of %d bytes", ErrValidation, s.limits.MaxSizeBytes)
	}
	if len(s.limits.AllowedContentTypes) > 0 {
		allowed := false
		for _, ct := range s.limits.AllowedContentTypes {
			if ct == in.ContentType {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: content type %q is not allowed", ErrValidation, in.ContentType)
		}
	}
	return nil
}

func (s *fileService) checkFolder(ctx context.Context, ownerUserID, folderID string) error {
	if _, err := s.folders.FindByID(ctx, ownerUserID, folderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("folder %s: %w", folderID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *fileService) Get(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	file, err := s.files.FindByID(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

func (s *fileService) Download(ctx context.Context, ownerUserID, id string) (io.ReadCloser, *model.File, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, file.StorageRef)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage object: %w", err)
	}
	return rc, file, nil
}

func (s *fileService) PresignDownload(ctx context.Context, ownerUserID, id string, expiry time.Duration) (string, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, file.StorageRef, expiry)
}

func (s *fileService) List(ctx context.Context, ownerUserID string, folderID *string) ([]model.File, error) {
	if folderID == nil {
		return s.files.ListAll(ctx, ownerUserID)
	}
	return s.files.ListByFolder(ctx, ownerUserID, folderID)
}

func (s *fileService) ListFavorites(ctx context.Context, ownerUserID string) ([]model.File, error) {
	return s.files.ListFavorites(ctx, ownerUserID)
}

func (s *fileService) Search(ctx context.Context, ownerUserID, term string) ([]model.File, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}
	return s.files.Search(ctx, ownerUserID, term)
}

func (s *fileService) Rename(ctx context.Context, ownerUserID, id, newName string) (*model.File, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	if err := file.Rename(newName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) Move(ctx context.Context, ownerUserID, id string, newFolderID *string) (*model.File, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	if newFolderID != nil {
		if err := s.checkFolder(ctx, ownerUserID, *newFolderID); err != nil {
			return nil, err
		}
	}
	file.MoveTo(newFolderID)
	if err := s.update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) UpdateTags(ctx context.Context, ownerUserID, id string, tags []string) (*model.File, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	file.SetTags(tags)
	if err := s.update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) ToggleFavorite(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	file.ToggleFavorite()
	if err := s.update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) Archive(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	file, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	file.Archive()
	if err := s.update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) update(ctx context.Context, file *model.File) error {
	if err := s.files.Update(ctx, file); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update file: %w", err)
	}
	return nil
}

func (s *fileService) Delete(ctx context.Context, ownerUserID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.files.SoftDelete(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *fileService) BatchDelete(ctx context.Context, ownerUserID string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no file ids provided", ErrValidation)
	}
	return s.files.BatchSoftDelete(ctx, ownerUserID, ids)
}

func (s *fileService) Restore(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.files.Restore(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, ownerUserID, id)
}

func (s *fileService) Copy(ctx context.Context, ownerUserID, sourceID, targetFolderID string) (*model.File, error) {
	source, err := s.Get(ctx, ownerUserID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}
	if err := s.checkFolder(ctx, ownerUserID, targetFolderID); err != nil {
		return nil, err
	}

	newName := "Copy of " + source.Name
	newKey := objectKey(source.Name)

	objInfo, err := s.store.Copy(ctx, source.StorageRef, newKey)
	if err != nil {
		return nil, fmt.Errorf("copy storage object: %w", err)
	}

	size := objInfo.Size
	if size == 0 {
		size = source.SizeInBytes
	}
	copyFile, err := model.NewFile(newName, source.ContentType, size, newKey, &targetFolderID, ownerUserID, source.Tags)
	if err != nil {
		if delErr := s.store.Delete(ctx, newKey); delErr != nil {
			return nil, fmt.Errorf("%w: %v; rollback delete failed: %v", ErrValidation, err, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	copyFile.IsFavorite = source.IsFavorite

	if err := s.files.Create(ctx, copyFile); err != nil {
		if delErr := s.store.Delete(ctx, newKey); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return copyFile, nil
}
