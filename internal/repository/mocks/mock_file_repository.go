package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"filebox/internal/model"
)

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *model.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) FindByID(ctx context.Context, ownerUserID, id string) (*model.File, error) {
	args := m.Called(ctx, ownerUserID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) ListAll(ctx context.Context, ownerUserID string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ListByFolder(ctx context.Context, ownerUserID string, folderID *string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ListFavorites(ctx context.Context, ownerUserID string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) Search(ctx context.Context, ownerUserID, term string) ([]model.File, error) {
	args := m.Called(ctx, ownerUserID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) Update(ctx context.Context, file *model.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) SoftDelete(ctx context.Context, ownerUserID, id string) error {
	args := m.Called(ctx, ownerUserID, id)
	return args.Error(0)
}

func (m *MockFileRepository) BatchSoftDelete(ctx context.Context, ownerUserID string, ids []string) error {
	args := m.Called(ctx, ownerUserID, ids)
	return args.Error(0)
}

func (m *MockFileRepository) Restore(ctx context.Context, ownerUserID, id string) error {
	args := m.Called(ctx, ownerUserID, id)
	return args.Error(0)
}
