package ports

import (
	"context"

	"statdash/domain/analytics"
	"statdash/domain/core/entities"
)

// SpaceAPI is the read-only view of a Capacities space.
// This is a port in hexagonal architecture - the analytics engine does not know how the space is reached.
type SpaceAPI interface {
	// GetSpaceInfo lists the structures (and root collections) of the space
	GetSpaceInfo(ctx context.Context) (*entities.SpaceInfo, error)

	// GetObjectsByStructure returns at most limit objects of a structure
	GetObjectsByStructure(ctx context.Context, structureID string, limit int) (*entities.ObjectPage, error)

	// GetObject retrieves a single object by its ID
	GetObject(ctx context.Context, objectID string) (*entities.DomainObject, error)

	// SearchObjects runs a full-text search, optionally restricted to one structure
	SearchObjects(ctx context.Context, query, structureID string, limit int) (*entities.ObjectPage, error)

	// GetCollections lists the collections of the space
	GetCollections(ctx context.Context) (*entities.CollectionList, error)

	// GetCollectionObjects returns at most limit objects of a collection
	GetCollectionObjects(ctx context.Context, collectionID string, limit int) (*entities.ObjectPage, error)

	// TestConnection verifies the credentials and reachability of the space
	TestConnection(ctx context.Context) error
}

// StatsPublisher exports aggregated space statistics to an external sink
type StatsPublisher interface {
	PublishSpaceStatistics(ctx context.Context, stats *analytics.SpaceStatistics) error
}

// NoopStatsPublisher discards everything
type NoopStatsPublisher struct{}

// PublishSpaceStatistics implements StatsPublisher
func (NoopStatsPublisher) PublishSpaceStatistics(context.Context, *analytics.SpaceStatistics) error {
	return nil
}

// MultiStatsPublisher fans statistics out to several publishers.
// Every publisher is called; the first error is returned.
type MultiStatsPublisher []StatsPublisher

// PublishSpaceStatistics implements StatsPublisher
func (m MultiStatsPublisher) PublishSpaceStatistics(ctx context.Context, stats *analytics.SpaceStatistics) error {
	var first error
	for _, p := range m {
		if err := p.PublishSpaceStatistics(ctx, stats); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SpanAnnotator records details on the trace segment of the current request
type SpanAnnotator interface {
	AddAnnotation(ctx context.Context, key, value string)
	AddMetadata(ctx context.Context, key string, value interface{})
	RecordError(ctx context.Context, err error)
}

// NoopSpanAnnotator records nothing
type NoopSpanAnnotator struct{}

func (NoopSpanAnnotator) AddAnnotation(context.Context, string, string)    {}
func (NoopSpanAnnotator) AddMetadata(context.Context, string, interface{}) {}
func (NoopSpanAnnotator) RecordError(context.Context, error)               {}
