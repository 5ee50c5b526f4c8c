package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filebox/internal/model"
)

type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) Create(ctx context.Context, ownerUserID, name string, parentFolderID *string, tags []string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, name, parentFolderID, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Get(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Rename(ctx context.Context, ownerUserID, id, newName string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Move(ctx context.Context, ownerUserID, id string, newParentFolderID *string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id, newParentFolderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, ownerUserID, id string) error {
	args := m.Called(ctx, ownerUserID, id)
	return args.Error(0)
}

func (m *MockFolderService) BatchDelete(ctx context.Context, ownerUserID string, ids []string) error {
	args := m.Called(ctx, ownerUserID, ids)
	return args.Error(0)
}

func (m *MockFolderService) Restore(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) UpdateTags(ctx context.Context, ownerUserID, id string, tags []string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) ToggleFavorite(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) ListChildren(ctx context.Context, ownerUserID string, parentID *string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) ListAll(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) ListFavorites(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) Search(ctx context.Context, ownerUserID, term string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) BuildTree(ctx context.Context, ownerUserID string) ([]*model.FolderNode, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FolderNode), args.Error(1)
}
