// Package mocks provides testify mocks for the datasource package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

// MockAPI is a mock datasource.API.
type MockAPI struct {
	mock.Mock
}

// NewMockAPI creates a MockAPI whose expectations are asserted at test cleanup.
func NewMockAPI(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockAPI {
	m := &MockAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetDatasource mocks datasource.API.GetDatasource.
func (m *MockAPI) GetDatasource(
	ctx context.Context,
	project string,
	sel domain.DatasourceSelector,
) (*domain.Datasource, error) {
	args := m.Called(ctx, project, sel)
	ds, _ := args.Get(0).(*domain.Datasource)
	return ds, args.Error(1)
}

// GetGlobalDatasource mocks datasource.API.GetGlobalDatasource.
func (m *MockAPI) GetGlobalDatasource(
	ctx context.Context,
	sel domain.DatasourceSelector,
) (*domain.Datasource, error) {
	args := m.Called(ctx, sel)
	ds, _ := args.Get(0).(*domain.Datasource)
	return ds, args.Error(1)
}

// ListDatasources mocks datasource.API.ListDatasources.
func (m *MockAPI) ListDatasources(
	ctx context.Context,
	project, pluginKind string,
) ([]domain.Datasource, error) {
	args := m.Called(ctx, project, pluginKind)
	list, _ := args.Get(0).([]domain.Datasource)
	return list, args.Error(1)
}

// ListGlobalDatasources mocks datasource.API.ListGlobalDatasources.
func (m *MockAPI) ListGlobalDatasources(
	ctx context.Context,
	pluginKind string,
) ([]domain.Datasource, error) {
	args := m.Called(ctx, pluginKind)
	list, _ := args.Get(0).([]domain.Datasource)
	return list, args.Error(1)
}
