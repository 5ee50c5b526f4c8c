package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filebox/internal/model"
	repoMocks "filebox/internal/repository/mocks"
	"filebox/internal/repository/postgres"
)

const testUser = "7b7f2b2e-0c0f-4a2e-9c39-1f1b9f6f2a01"

func folderFixture(id, name, path string, parentID *string) *model.Folder {
	return &model.Folder{
		ID:             id,
		Name:           name,
		Path:           path,
		ParentFolderID: parentID,
		OwnerUserID:    testUser,
	}
}

func TestFolderService_Create(t *testing.T) {
	ctx := context.Background()
	parentID := "parent-id"

	tests := []struct {
		name       string
		folderName string
		parentID   *string
		setupMocks func(m *repoMocks.MockFolderRepository)
		wantErr    error
		wantPath   string
	}{
		{
			name:       "root folder",
			folderName: "Docs",
			setupMocks: func(m *repoMocks.MockFolderRepository) {
				m.On("Create", ctx, mock.MatchedBy(func(f *model.Folder) bool {
					return f.Path == "/Docs" && f.ParentFolderID == nil && f.OwnerUserID == testUser
				})).Return(nil)
			},
			wantPath: "/Docs",
		},
		{
			name:       "nested folder inherits parent path",
			folderName: "Work",
			parentID:   &parentID,
			setupMocks: func(m *repoMocks.MockFolderRepository) {
				m.On("FindByID", ctx, testUser, parentID).
					Return(folderFixture(parentID, "Docs", "/Docs", nil), nil)
				m.On("Create", ctx, mock.MatchedBy(func(f *model.Folder) bool {
					return f.Path == "/Docs/Work"
				})).Return(nil)
			},
			wantPath: "/Docs/Work",
		},
		{
			name:       "missing parent",
			folderName: "Work",
			parentID:   &parentID,
			setupMocks: func(m *repoMocks.MockFolderRepository) {
				m.On("FindByID", ctx, testUser, parentID).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "invalid name",
			folderName: "a/b",
			setupMocks: func(m *repoMocks.MockFolderRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "duplicate path",
			folderName: "Docs",
			setupMocks: func(m *repoMocks.MockFolderRepository) {
				m.On("Create", ctx, mock.Anything).Return(postgres.ErrDuplicatePath)
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockFolderRepository)
			tt.setupMocks(mRepo)
			svc := NewFolderService(mRepo)

			folder, err := svc.Create(ctx, testUser, tt.folderName, tt.parentID, nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, folder)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPath, folder.Path)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestFolderService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites own path and cascades with the old prefix", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, "docs-id").
			Return(folderFixture("docs-id", "Docs", "/Docs", nil), nil)
		mRepo.On("UpdateWithCascade", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.Name == "Documents" && f.Path == "/Documents"
		}), "/Docs").Return(nil)

		svc := NewFolderService(mRepo)
		folder, err := svc.Rename(ctx, testUser, "docs-id", "Documents")

		require.NoError(t, err)
		assert.Equal(t, "/Documents", folder.Path)
		mRepo.AssertExpectations(t)
	})

	t.Run("nested folder keeps its parent prefix", func(t *testing.T) {
		parentID := "docs-id"
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, "work-id").
			Return(folderFixture("work-id", "Work", "/Docs/Work", &parentID), nil)
		mRepo.On("UpdateWithCascade", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.Path == "/Docs/Projects"
		}), "/Docs/Work").Return(nil)

		svc := NewFolderService(mRepo)
		folder, err := svc.Rename(ctx, testUser, "work-id", "Projects")

		require.NoError(t, err)
		assert.Equal(t, "/Docs/Projects", folder.Path)
	})

	t.Run("invalid new name", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, "docs-id").
			Return(folderFixture("docs-id", "Docs", "/Docs", nil), nil)

		svc := NewFolderService(mRepo)
		_, err := svc.Rename(ctx, testUser, "docs-id", "bad|name")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rename collides with existing sibling", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, "docs-id").
			Return(folderFixture("docs-id", "Docs", "/Docs", nil), nil)
		mRepo.On("UpdateWithCascade", ctx, mock.Anything, "/Docs").
			Return(postgres.ErrDuplicatePath)

		svc := NewFolderService(mRepo)
		_, err := svc.Rename(ctx, testUser, "docs-id", "Photos")

		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestFolderService_Move(t *testing.T) {
	ctx := context.Background()
	docsID, workID, archiveID := "docs-id", "work-id", "archive-id"

	t.Run("move under new parent", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, workID).
			Return(folderFixture(workID, "Work", "/Docs/Work", &docsID), nil)
		mRepo.On("FindByID", ctx, testUser, archiveID).
			Return(folderFixture(archiveID, "Archive", "/Archive", nil), nil)
		mRepo.On("UpdateWithCascade", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.Path == "/Archive/Work" && *f.ParentFolderID == archiveID
		}), "/Docs/Work").Return(nil)

		svc := NewFolderService(mRepo)
		folder, err := svc.Move(ctx, testUser, workID, &archiveID)

		require.NoError(t, err)
		assert.Equal(t, "/Archive/Work", folder.Path)
		mRepo.AssertExpectations(t)
	})

	t.Run("move to root", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, workID).
			Return(folderFixture(workID, "Work", "/Docs/Work", &docsID), nil)
		mRepo.On("UpdateWithCascade", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.Path == "/Work" && f.ParentFolderID == nil
		}), "/Docs/Work").Return(nil)

		svc := NewFolderService(mRepo)
		folder, err := svc.Move(ctx, testUser, workID, nil)

		require.NoError(t, err)
		assert.Equal(t, "/Work", folder.Path)
	})

	t.Run("move into itself", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, docsID).
			Return(folderFixture(docsID, "Docs", "/Docs", nil), nil).Twice()

		svc := NewFolderService(mRepo)
		_, err := svc.Move(ctx, testUser, docsID, &docsID)

		assert.ErrorIs(t, err, ErrCircularMove)
	})

	t.Run("move into own descendant", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, docsID).
			Return(folderFixture(docsID, "Docs", "/Docs", nil), nil)
		mRepo.On("FindByID", ctx, testUser, workID).
			Return(folderFixture(workID, "Work", "/Docs/Work", &docsID), nil)

		svc := NewFolderService(mRepo)
		_, err := svc.Move(ctx, testUser, docsID, &workID)

		assert.ErrorIs(t, err, ErrCircularMove)
	})

	t.Run("move into descendant below a deleted folder", func(t *testing.T) {
		// Tree /Docs -> /Docs/Work -> /Docs/Work/2024 with Work soft-deleted.
		// The grandchild's path still places it inside /Docs, so moving Docs
		// under it must be rejected even though Work is invisible to live
		// listings.
		deletedID, grandchildID := "work-id", "y2024-id"
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, docsID).
			Return(folderFixture(docsID, "Docs", "/Docs", nil), nil)
		mRepo.On("FindByID", ctx, testUser, grandchildID).
			Return(folderFixture(grandchildID, "2024", "/Docs/Work/2024", &deletedID), nil)

		svc := NewFolderService(mRepo)
		_, err := svc.Move(ctx, testUser, docsID, &grandchildID)

		assert.ErrorIs(t, err, ErrCircularMove)
		mRepo.AssertNotCalled(t, "UpdateWithCascade", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing target", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("FindByID", ctx, testUser, workID).
			Return(folderFixture(workID, "Work", "/Docs/Work", &docsID), nil)
		mRepo.On("FindByID", ctx, testUser, "missing").Return(nil, sql.ErrNoRows)

		svc := NewFolderService(mRepo)
		missing := "missing"
		_, err := svc.Move(ctx, testUser, workID, &missing)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFolderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("SoftDelete", ctx, testUser, "docs-id").Return(nil)

		svc := NewFolderService(mRepo)
		assert.NoError(t, svc.Delete(ctx, testUser, "docs-id"))
		mRepo.AssertExpectations(t)
	})

	t.Run("missing folder", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("SoftDelete", ctx, testUser, "missing").Return(sql.ErrNoRows)

		svc := NewFolderService(mRepo)
		assert.ErrorIs(t, svc.Delete(ctx, testUser, "missing"), ErrNotFound)
	})

	t.Run("batch requires ids", func(t *testing.T) {
		svc := NewFolderService(new(repoMocks.MockFolderRepository))
		assert.ErrorIs(t, svc.BatchDelete(ctx, testUser, nil), ErrValidation)
	})

	t.Run("batch delegates", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("BatchSoftDelete", ctx, testUser, []string{"a", "b"}).Return(nil)

		svc := NewFolderService(mRepo)
		assert.NoError(t, svc.BatchDelete(ctx, testUser, []string{"a", "b"}))
		mRepo.AssertExpectations(t)
	})
}

func TestFolderService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("restores and reloads", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("Restore", ctx, testUser, "docs-id").Return(nil)
		mRepo.On("FindByID", ctx, testUser, "docs-id").
			Return(folderFixture("docs-id", "Docs", "/Docs", nil), nil)

		svc := NewFolderService(mRepo)
		folder, err := svc.Restore(ctx, testUser, "docs-id")

		require.NoError(t, err)
		assert.Equal(t, "/Docs", folder.Path)
	})

	t.Run("path now occupied", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("Restore", ctx, testUser, "docs-id").Return(postgres.ErrDuplicatePath)

		svc := NewFolderService(mRepo)
		_, err := svc.Restore(ctx, testUser, "docs-id")

		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestFolderService_UpdateTags(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockFolderRepository)
	mRepo.On("FindByID", ctx, testUser, "docs-id").
		Return(folderFixture("docs-id", "Docs", "/Docs", nil), nil)
	mRepo.On("Update", ctx, mock.MatchedBy(func(f *model.Folder) bool {
		return len(f.Tags) == 1 && f.Tags[0] == "report"
	})).Return(nil)

	svc := NewFolderService(mRepo)
	folder, err := svc.UpdateTags(ctx, testUser, "docs-id", []string{"  Report ", "report", "REPORT", ""})

	require.NoError(t, err)
	assert.Equal(t, model.Tags{"report"}, folder.Tags)
	mRepo.AssertExpectations(t)
}

func TestFolderService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("empty term rejected", func(t *testing.T) {
		svc := NewFolderService(new(repoMocks.MockFolderRepository))
		_, err := svc.Search(ctx, testUser, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("delegates to repository", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("Search", ctx, testUser, "tax").
			Return([]model.Folder{*folderFixture("a", "Taxes", "/Taxes", nil)}, nil)

		svc := NewFolderService(mRepo)
		folders, err := svc.Search(ctx, testUser, "tax")

		require.NoError(t, err)
		assert.Len(t, folders, 1)
	})
}

func TestFolderService_BuildTree(t *testing.T) {
	ctx := context.Background()
	docsID, workID := "docs-id", "work-id"

	t.Run("nests children under parents", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("ListAll", ctx, testUser).Return([]model.Folder{
			*folderFixture(docsID, "Docs", "/Docs", nil),
			*folderFixture(workID, "Work", "/Docs/Work", &docsID),
			*folderFixture("photos-id", "Photos", "/Photos", nil),
		}, nil)

		svc := NewFolderService(mRepo)
		tree, err := svc.BuildTree(ctx, testUser)

		require.NoError(t, err)
		require.Len(t, tree, 2)
		assert.Equal(t, "Docs", tree[0].Name)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "/Docs/Work", tree[0].Children[0].Path)
		assert.Empty(t, tree[1].Children)
	})

	t.Run("child of deleted parent is omitted", func(t *testing.T) {
		deletedParent := "gone-id"
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("ListAll", ctx, testUser).Return([]model.Folder{
			*folderFixture(workID, "Work", "/Gone/Work", &deletedParent),
		}, nil)

		svc := NewFolderService(mRepo)
		tree, err := svc.BuildTree(ctx, testUser)

		require.NoError(t, err)
		assert.Empty(t, tree)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockFolderRepository)
		mRepo.On("ListAll", ctx, testUser).Return(nil, errors.New("db down"))

		svc := NewFolderService(mRepo)
		_, err := svc.BuildTree(ctx, testUser)

		assert.Error(t, err)
	})
}
