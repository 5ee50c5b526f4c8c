package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"filebox/internal/model"
	"filebox/internal/service"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, ownerUserID string, r io.Reader, in service.UploadInput) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Download(ctx context.Context, ownerUserID, id string) (io.ReadCloser, *model.File, error) {
	args := m.Called(ctx, ownerUserID, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	file, _ := args.Get(1).(*model.File)
	return rc, file, args.Error(2)
}

func (m *MockFileService) PresignDownload(ctx context.Context, ownerUserID, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, ownerUserID, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, ownerUserID string, folderID *string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) ListFavorites(ctx context.Context, ownerUserID string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Search(ctx context.Context, ownerUserID, term string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Rename(ctx context.Context, ownerUserID, id, newName string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Move(ctx context.Context, ownerUserID, id string, newFolderID *string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id, newFolderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) UpdateTags(ctx context.Context, ownerUserID, id string, tags []string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) ToggleFavorite(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Archive(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, ownerUserID, id string) error {
	args := m.Called(ctx, ownerUserID, id)
	return args.Error(0)
}

func (m *MockFileService) BatchDelete(ctx context.Context, ownerUserID string, ids []string) error {
	args := m.Called(ctx, ownerUserID, ids)
	return args.Error(0)
}

func (m *MockFileService) Restore(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Copy(ctx context.Context, ownerUserID, sourceID, targetFolderID string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, sourceID, targetFolderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}
