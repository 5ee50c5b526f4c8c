package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filebox/internal/model"
)

type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, folder *model.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) FindByID(ctx context.Context, ownerUserID, id string) (*model.Folder, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListAll(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListChildren(ctx context.Context, ownerUserID string, parentID *string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListFavorites(ctx context.Context, ownerUserID string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) Search(ctx context.Context, ownerUserID, term string) ([]model.Folder, error) {
	args := m.Called(ctx, ownerUserID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) Update(ctx context.Context, folder *model.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) UpdateWithCascade(ctx context.Context, folder *model.Folder, oldPath string) error {
	args := m.Called(ctx, folder, oldPath)
	return args.Error(0)
}

func (m *MockFolderRepository) SoftDelete(ctx context.Context, ownerUserID, id string) error {
	args := m.Called(ctx, ownerUserID, id)
	return args.Error(0)
}

func (m *MockFolderRepository) BatchSoftDelete(ctx context.Context, ownerUserID string, ids []string) error {
	args := m.Called(ctx, ownerUserID, ids)
	return args.Error(0)
}

func (m *MockFolderRepository) Restore(ctx context.Context, ownerUserID, id string) error {
	args := m.Called(ctx, ownerUserID, id)
	return args.Error(0)
}
