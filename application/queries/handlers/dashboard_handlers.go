package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"statdash/application/queries"
	"statdash/application/queries/bus"
	"statdash/application/services"
	"statdash/domain/analytics"
)

// AnalyticsReader is the part of the analytics service the query handlers use
type AnalyticsReader interface {
	GetSpaceStatistics(ctx context.Context) (*analytics.SpaceStatistics, error)
	GenerateFullReport(ctx context.Context) (*analytics.FullReport, error)
	AnalyzeStructure(ctx context.Context, structureID string) (*services.StructureAnalysis, error)
	AnalyzeNumericProperties(ctx context.Context, structureID string) (map[string]analytics.NumericPropertyStats, error)
	AnalyzeObjectReferences(ctx context.Context, structureID string) (analytics.ReferenceAnalysis, error)
	AnalyzeTemporalActivity(ctx context.Context, structureID string) (analytics.TemporalAnalysis, error)
	CompareStructures(ctx context.Context, structureIDs []string) (map[string]services.StructureComparison, error)
	GetCollectionStatistics(ctx context.Context) (*services.CollectionStatistics, error)
	SearchObjects(ctx context.Context, query, structureID string, limit int) (*services.SearchResult, error)
}

// DashboardHandlers answers every dashboard query from the analytics service
type DashboardHandlers struct {
	reader AnalyticsReader
	logger *zap.Logger
}

// NewDashboardHandlers creates the dashboard query handlers
func NewDashboardHandlers(reader AnalyticsReader, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{reader: reader, logger: logger}
}

// Register registers every dashboard query on the bus, decorated by the given middlewares
func (h *DashboardHandlers) Register(b *bus.QueryBus, middlewares ...bus.Middleware) error {
	routes := []struct {
		query   bus.Query
		handler bus.QueryHandlerFunc
	}{
		{queries.GetSpaceStatisticsQuery{}, h.spaceStatistics},
		{queries.GenerateReportQuery{}, h.fullReport},
		{queries.AnalyzeStructureQuery{}, h.structure},
		{queries.GetNumericPropertiesQuery{}, h.numericProperties},
		{queries.GetReferencesQuery{}, h.references},
		{queries.GetTemporalActivityQuery{}, h.temporal},
		{queries.CompareStructuresQuery{}, h.compare},
		{queries.GetCollectionStatisticsQuery{}, h.collections},
		{queries.SearchObjectsQuery{}, h.search},
	}

	for _, route := range routes {
		var handler bus.QueryHandler = route.handler
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i].Wrap(handler)
		}
		if err := b.Register(route.query, handler); err != nil {
			return err
		}
	}

	h.logger.Debug("Dashboard query handlers registered", zap.Int("count", len(routes)))
	return nil
}

func (h *DashboardHandlers) spaceStatistics(ctx context.Context, q bus.Query) (interface{}, error) {
	if _, ok := q.(queries.GetSpaceStatisticsQuery); !ok {
		return nil, unexpected(q)
	}
	return h.reader.GetSpaceStatistics(ctx)
}

func (h *DashboardHandlers) fullReport(ctx context.Context, q bus.Query) (interface{}, error) {
	if _, ok := q.(queries.GenerateReportQuery); !ok {
		return nil, unexpected(q)
	}
	return h.reader.GenerateFullReport(ctx)
}

func (h *DashboardHandlers) structure(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.AnalyzeStructureQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.AnalyzeStructure(ctx, query.StructureID)
}

func (h *DashboardHandlers) numericProperties(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetNumericPropertiesQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.AnalyzeNumericProperties(ctx, query.StructureID)
}

func (h *DashboardHandlers) references(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetReferencesQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.AnalyzeObjectReferences(ctx, query.StructureID)
}

func (h *DashboardHandlers) temporal(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetTemporalActivityQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.AnalyzeTemporalActivity(ctx, query.StructureID)
}

func (h *DashboardHandlers) compare(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.CompareStructuresQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.CompareStructures(ctx, query.StructureIDs)
}

func (h *DashboardHandlers) collections(ctx context.Context, q bus.Query) (interface{}, error) {
	if _, ok := q.(queries.GetCollectionStatisticsQuery); !ok {
		return nil, unexpected(q)
	}
	return h.reader.GetCollectionStatistics(ctx)
}

func (h *DashboardHandlers) search(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.SearchObjectsQuery)
	if !ok {
		return nil, unexpected(q)
	}
	return h.reader.SearchObjects(ctx, query.Query, query.StructureID, query.Limit)
}

func unexpected(q bus.Query) error {
	return fmt.Errorf("unexpected query type %T", q)
}
