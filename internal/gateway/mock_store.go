package gateway

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pah-access/internal/model"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindByCredentials(ctx context.Context, username string, password string) (model.User, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, data model.CreateUserData) (model.User, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, username string, password string, name string) error {
	args := m.Called(ctx, username, password, name)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockStore) Exists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
