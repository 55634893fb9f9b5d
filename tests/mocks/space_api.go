// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"statdash/domain/analytics"
	"statdash/domain/core/entities"
)

// MockSpaceAPI is a mock implementation of ports.SpaceAPI
type MockSpaceAPI struct {
	mock.Mock
}

func (m *MockSpaceAPI) GetSpaceInfo(ctx context.Context) (*entities.SpaceInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SpaceInfo), args.Error(1)
}

func (m *MockSpaceAPI) GetObjectsByStructure(ctx context.Context, structureID string, limit int) (*entities.ObjectPage, error) {
	args := m.Called(ctx, structureID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ObjectPage), args.Error(1)
}

func (m *MockSpaceAPI) GetObject(ctx context.Context, objectID string) (*entities.DomainObject, error) {
	args := m.Called(ctx, objectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DomainObject), args.Error(1)
}

func (m *MockSpaceAPI) SearchObjects(ctx context.Context, query, structureID string, limit int) (*entities.ObjectPage, error) {
	args := m.Called(ctx, query, structureID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ObjectPage), args.Error(1)
}

func (m *MockSpaceAPI) GetCollections(ctx context.Context) (*entities.CollectionList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CollectionList), args.Error(1)
}

func (m *MockSpaceAPI) GetCollectionObjects(ctx context.Context, collectionID string, limit int) (*entities.ObjectPage, error) {
	args := m.Called(ctx, collectionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ObjectPage), args.Error(1)
}

func (m *MockSpaceAPI) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStatsPublisher is a mock implementation of ports.StatsPublisher
type MockStatsPublisher struct {
	mock.Mock
}

func (m *MockStatsPublisher) PublishSpaceStatistics(ctx context.Context, stats *analytics.SpaceStatistics) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}
