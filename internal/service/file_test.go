package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filebox/internal/model"
	repoMocks "filebox/internal/repository/mocks"
	"filebox/internal/storage"
	storeMocks "filebox/internal/storage/mocks"
)

func fileFixture(id, name, ref string, folderID *string) *model.File {
	return &model.File{
		ID:          id,
		Name:        name,
		ContentType: "application/pdf",
		SizeInBytes: 1024,
		StorageRef:  ref,
		FolderID:    folderID,
		OwnerUserID: testUser,
		Status:      model.FileStatusActive,
	}
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()
	folderID := "folder-id"

	tests := []struct {
		name       string
		in         UploadInput
		limits     UploadLimits
		setupMocks func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			in:   UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 11, Tags: []string{"Taxes"}},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "files/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "report.pdf"},
				}).Return(storage.ObjectInfo{Key: "files/uuid.pdf", Size: 11}, nil)

				mFiles.On("Create", ctx, mock.MatchedBy(func(f *model.File) bool {
					return f.Name == "report.pdf" &&
						f.StorageRef == "files/uuid.pdf" &&
						f.Status == model.FileStatusActive &&
						len(f.Tags) == 1 && f.Tags[0] == "taxes"
				})).Return(nil)
				return r
			},
		},
		{
			name: "upload into folder checks ownership",
			in:   UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 5, FolderID: &folderID},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				r := strings.NewReader("hello")
				mFolders.On("FindByID", ctx, testUser, folderID).
					Return(folderFixture(folderID, "Docs", "/Docs", nil), nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{Key: "files/uuid.pdf", Size: 5}, nil)
				mFiles.On("Create", ctx, mock.MatchedBy(func(f *model.File) bool {
					return f.FolderID != nil && *f.FolderID == folderID
				})).Return(nil)
				return r
			},
		},
		{
			name: "missing target folder",
			in:   UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 5, FolderID: &folderID},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				mFolders.On("FindByID", ctx, testUser, folderID).Return(nil, sql.ErrNoRows)
				return strings.NewReader("hello")
			},
			wantErr: ErrNotFound,
		},
		{
			name: "nil reader",
			in:   UploadInput{Filename: "report.pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				return nil
			},
			wantErr: ErrValidation,
		},
		{
			name: "empty file",
			in:   UploadInput{Filename: "report.pdf", Size: 0},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				return strings.NewReader("")
			},
			wantErr: ErrValidation,
		},
		{
			name:   "size over limit",
			in:     UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 2048},
			limits: UploadLimits{MaxSizeBytes: 1024},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrValidation,
		},
		{
			name:   "content type not allowed",
			in:     UploadInput{Filename: "run.exe", ContentType: "application/x-msdownload", Size: 5},
			limits: UploadLimits{AllowedContentTypes: []string{"application/pdf", "image/png"}},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrValidation,
		},
		{
			name: "storage error",
			in:   UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name: "repository error with successful rollback",
			in:   UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key, Size: 5}
					}, nil)
				mFiles.On("Create", ctx, mock.Anything).Return(errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name: "repository error with failed rollback",
			in:   UploadInput{Filename: "report.pdf", ContentType: "application/pdf", Size: 5},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mFolders *repoMocks.MockFolderRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key, Size: 5}
					}, nil)
				mFiles.On("Create", ctx, mock.Anything).Return(errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mFiles := new(repoMocks.MockFileRepository)
			mFolders := new(repoMocks.MockFolderRepository)
			r := tt.setupMocks(mStore, mFiles, mFolders)
			svc := NewFileService(mStore, mFiles, mFolders, tt.limits)

			file, err := svc.Upload(ctx, testUser, r, tt.in)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, file)
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.NotNil(t, file)
			}
			mStore.AssertExpectations(t)
			mFiles.AssertExpectations(t)
			mFolders.AssertExpectations(t)
		})
	}
}

func TestFileService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the stored object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", nil), nil)
		mStore.On("Get", ctx, "files/uuid.pdf").
			Return(io.NopCloser(strings.NewReader("content")), storage.ObjectInfo{Key: "files/uuid.pdf"}, nil)

		svc := NewFileService(mStore, mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		rc, file, err := svc.Download(ctx, testUser, "file-id")

		require.NoError(t, err)
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "content", string(b))
		assert.Equal(t, "report.pdf", file.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, testUser, "missing").Return(nil, sql.ErrNoRows)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		_, _, err := svc.Download(ctx, testUser, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFileService_PresignDownload(t *testing.T) {
	ctx := context.Background()

	mStore := new(storeMocks.MockStorage)
	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByID", ctx, testUser, "file-id").
		Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", nil), nil)
	mStore.On("PresignGet", ctx, "files/uuid.pdf", 15*time.Minute).
		Return("https://example.test/signed", nil)

	svc := NewFileService(mStore, mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
	url, err := svc.PresignDownload(ctx, testUser, "file-id", 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "https://example.test/signed", url)
}

func TestFileService_List(t *testing.T) {
	ctx := context.Background()
	folderID := "folder-id"

	t.Run("nil folder lists everything", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("ListAll", ctx, testUser).Return([]model.File{}, nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		_, err := svc.List(ctx, testUser, nil)

		assert.NoError(t, err)
		mFiles.AssertExpectations(t)
	})

	t.Run("folder scoped", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("ListByFolder", ctx, testUser, &folderID).Return([]model.File{}, nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		_, err := svc.List(ctx, testUser, &folderID)

		assert.NoError(t, err)
		mFiles.AssertExpectations(t)
	})
}

func TestFileService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps extension when the new name has none", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "draft.pdf", "files/uuid.pdf", nil), nil)
		mFiles.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
			return f.Name == "report.pdf"
		})).Return(nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		file, err := svc.Rename(ctx, testUser, "file-id", "report")

		require.NoError(t, err)
		assert.Equal(t, "report.pdf", file.Name)
	})

	t.Run("invalid name", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "draft.pdf", "files/uuid.pdf", nil), nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		_, err := svc.Rename(ctx, testUser, "file-id", "a<b")

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestFileService_Move(t *testing.T) {
	ctx := context.Background()
	folderID := "folder-id"

	t.Run("validates the target folder", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", nil), nil)
		mFolders.On("FindByID", ctx, testUser, folderID).
			Return(folderFixture(folderID, "Docs", "/Docs", nil), nil)
		mFiles.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
			return f.FolderID != nil && *f.FolderID == folderID
		})).Return(nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, mFolders, UploadLimits{})
		file, err := svc.Move(ctx, testUser, "file-id", &folderID)

		require.NoError(t, err)
		assert.Equal(t, folderID, *file.FolderID)
	})

	t.Run("nil folder unfiles", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", &folderID), nil)
		mFiles.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
			return f.FolderID == nil
		})).Return(nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		file, err := svc.Move(ctx, testUser, "file-id", nil)

		require.NoError(t, err)
		assert.Nil(t, file.FolderID)
	})

	t.Run("missing target folder", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", nil), nil)
		mFolders.On("FindByID", ctx, testUser, folderID).Return(nil, sql.ErrNoRows)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, mFolders, UploadLimits{})
		_, err := svc.Move(ctx, testUser, "file-id", &folderID)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFileService_Archive(t *testing.T) {
	ctx := context.Background()

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByID", ctx, testUser, "file-id").
		Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", nil), nil)
	mFiles.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
		return f.Status == model.FileStatusArchived
	})).Return(nil)

	svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
	file, err := svc.Archive(ctx, testUser, "file-id")

	require.NoError(t, err)
	assert.Equal(t, model.FileStatusArchived, file.Status)
}

func TestFileService_Copy(t *testing.T) {
	ctx := context.Background()
	targetID := "target-folder"

	t.Run("clones bytes and metadata", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mFiles := new(repoMocks.MockFileRepository)
		mFolders := new(repoMocks.MockFolderRepository)

		source := fileFixture("file-id", "report.pdf", "files/src.pdf", nil)
		source.Tags = model.Tags{"taxes"}
		source.IsFavorite = true

		mFiles.On("FindByID", ctx, testUser, "file-id").Return(source, nil)
		mFolders.On("FindByID", ctx, testUser, targetID).
			Return(folderFixture(targetID, "Archive", "/Archive", nil), nil)
		mStore.On("Copy", ctx, "files/src.pdf", mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "files/") && strings.HasSuffix(key, ".pdf") && key != "files/src.pdf"
		})).Return(storage.ObjectInfo{Size: 1024}, nil)
		mFiles.On("Create", ctx, mock.MatchedBy(func(f *model.File) bool {
			return f.Name == "Copy of report.pdf" &&
				f.ID != source.ID &&
				*f.FolderID == targetID &&
				f.IsFavorite &&
				len(f.Tags) == 1 && f.Tags[0] == "taxes"
		})).Return(nil)

		svc := NewFileService(mStore, mFiles, mFolders, UploadLimits{})
		copied, err := svc.Copy(ctx, testUser, "file-id", targetID)

		require.NoError(t, err)
		assert.Equal(t, "Copy of report.pdf", copied.Name)
		mStore.AssertExpectations(t)
		mFiles.AssertExpectations(t)
	})

	t.Run("rolls back the copied object when the insert fails", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mFiles := new(repoMocks.MockFileRepository)
		mFolders := new(repoMocks.MockFolderRepository)

		mFiles.On("FindByID", ctx, testUser, "file-id").
			Return(fileFixture("file-id", "report.pdf", "files/src.pdf", nil), nil)
		mFolders.On("FindByID", ctx, testUser, targetID).
			Return(folderFixture(targetID, "Archive", "/Archive", nil), nil)
		mStore.On("Copy", ctx, "files/src.pdf", mock.Anything).
			Return(storage.ObjectInfo{Size: 1024}, nil)
		mFiles.On("Create", ctx, mock.Anything).Return(errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		svc := NewFileService(mStore, mFiles, mFolders, UploadLimits{})
		_, err := svc.Copy(ctx, testUser, "file-id", targetID)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed")
		mStore.AssertExpectations(t)
	})

	t.Run("missing source", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, testUser, "missing").Return(nil, sql.ErrNoRows)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		_, err := svc.Copy(ctx, testUser, "missing", targetID)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFileService_BatchDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("requires ids", func(t *testing.T) {
		svc := NewFileService(new(storeMocks.MockStorage), new(repoMocks.MockFileRepository), new(repoMocks.MockFolderRepository), UploadLimits{})
		assert.ErrorIs(t, svc.BatchDelete(ctx, testUser, nil), ErrValidation)
	})

	t.Run("delegates", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("BatchSoftDelete", ctx, testUser, []string{"a"}).Return(nil)

		svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
		assert.NoError(t, svc.BatchDelete(ctx, testUser, []string{"a"}))
	})
}

func TestFileService_Restore(t *testing.T) {
	ctx := context.Background()

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("Restore", ctx, testUser, "file-id").Return(nil)
	mFiles.On("FindByID", ctx, testUser, "file-id").
		Return(fileFixture("file-id", "report.pdf", "files/uuid.pdf", nil), nil)

	svc := NewFileService(new(storeMocks.MockStorage), mFiles, new(repoMocks.MockFolderRepository), UploadLimits{})
	file, err := svc.Restore(ctx, testUser, "file-id")

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", file.Name)
}
