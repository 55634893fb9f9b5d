package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"statdash/application/ports"
	"statdash/domain/analytics"
	"statdash/domain/config"
	"statdash/domain/core/entities"
	apperrors "statdash/pkg/errors"
)

// errUnsupportedResponse marks an object listing without an objects field
var errUnsupportedResponse = errors.New("unsupported objects response")

// AnalyticsService computes dashboard statistics for a single Capacities space.
// Every call fetches fresh data; nothing is cached between calls.
type AnalyticsService struct {
	api       ports.SpaceAPI
	publisher ports.StatsPublisher
	config    *config.DomainConfig
	tracer    ports.SpanAnnotator
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   analytics.RandomSource
}

// NewAnalyticsService creates a new analytics service.
// A nil rng disables the jitter applied to estimated counts.
func NewAnalyticsService(
	api ports.SpaceAPI,
	publisher ports.StatsPublisher,
	cfg *config.DomainConfig,
	rng analytics.RandomSource,
	tracer ports.SpanAnnotator,
	logger *zap.Logger,
) *AnalyticsService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if publisher == nil {
		publisher = ports.NoopStatsPublisher{}
	}
	if tracer == nil {
		tracer = ports.NoopSpanAnnotator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		api:       api,
		publisher: publisher,
		config:    cfg,
		rng:       rng,
		tracer:    tracer,
		logger:    logger,
	}
}

// GetSpaceStatistics aggregates every structure of the space.
// Failing to list the space is fatal; failing to fetch the objects of one
// structure only replaces its count with an estimate.
func (s *AnalyticsService) GetSpaceStatistics(ctx context.Context) (*analytics.SpaceStatistics, error) {
	info, err := s.api.GetSpaceInfo(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch space info", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch space info: %w", err)
	}

	stats := analytics.NewSpaceStatistics(len(info.Structures))
	for _, structure := range info.Structures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stats.Add(s.summarize(ctx, structure))
	}
	stats.Finalize(s.config.TopStructuresLimit)

	if err := s.publisher.PublishSpaceStatistics(ctx, stats); err != nil {
		s.logger.Warn("Failed to publish space statistics", zap.Error(err))
	}

	s.tracer.AddMetadata(ctx, "spaceStatistics", map[string]int{
		"structures":  stats.TotalStructures,
		"collections": stats.TotalCollections,
		"objects":     stats.TotalObjects,
	})
	s.logger.Debug("Space statistics computed",
		zap.Int("structures", stats.TotalStructures),
		zap.Int("objects", stats.TotalObjects),
	)
	return stats, nil
}

func (s *AnalyticsService) summarize(ctx context.Context, structure entities.Structure) analytics.StructureSummary {
	page, err := s.api.GetObjectsByStructure(ctx, structure.ID, s.config.FetchLimit)
	if err == nil && (page == nil || page.Objects == nil) {
		err = errUnsupportedResponse
	}
	if err != nil {
		estimate := s.estimate(structure)
		s.traceFallback(ctx, structure.ID, err)
		s.logger.Warn("Could not fetch objects, using estimate",
			zap.String("structureID", structure.ID),
			zap.String("reason", fallbackReason(err)),
			zap.Int("estimate", estimate),
			zap.Error(err),
		)
		return analytics.NewStructureSummary(structure, estimate, true)
	}
	return analytics.NewStructureSummary(structure, page.Len(), false)
}

// fallbackReason classifies why a structure's objects are unavailable
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, errUnsupportedResponse):
		return "unsupported_response"
	case apperrors.IsNotFound(err):
		return "not_found"
	default:
		return "fetch_failed"
	}
}

func (s *AnalyticsService) traceFallback(ctx context.Context, structureID string, err error) {
	s.tracer.AddAnnotation(ctx, "fallbackStructureID", structureID)
	s.tracer.RecordError(ctx, err)
}

func (s *AnalyticsService) estimate(structure entities.Structure) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return analytics.EstimateObjectCount(structure, s.rng, s.config.EstimationJitter)
}

// AnalyzeNumericProperties summarises the numeric properties of a structure's objects
func (s *AnalyticsService) AnalyzeNumericProperties(ctx context.Context, structureID string) (map[string]analytics.NumericPropertyStats, error) {
	objects, err := s.fetchObjects(ctx, structureID)
	if err != nil {
		return nil, err
	}
	return analytics.AnalyzeNumericProperties(objects), nil
}

// AnalyzeObjectReferences indexes the references held by a structure's objects
func (s *AnalyticsService) AnalyzeObjectReferences(ctx context.Context, structureID string) (analytics.ReferenceAnalysis, error) {
	objects, err := s.fetchObjects(ctx, structureID)
	if err != nil {
		return analytics.ReferenceAnalysis{}, err
	}
	return analytics.AnalyzeReferences(objects, s.config.ReferenceMarker), nil
}

// AnalyzeTemporalActivity buckets the creation and update times of a structure's objects
func (s *AnalyticsService) AnalyzeTemporalActivity(ctx context.Context, structureID string) (analytics.TemporalAnalysis, error) {
	objects, err := s.fetchObjects(ctx, structureID)
	if err != nil {
		return analytics.TemporalAnalysis{}, err
	}
	return analytics.AnalyzeTemporalActivity(objects), nil
}

// GenerateFullReport combines the space statistics with a detailed analysis
// of the largest structures. A structure whose objects cannot be fetched is
// left out of the report.
func (s *AnalyticsService) GenerateFullReport(ctx context.Context) (*analytics.FullReport, error) {
	space, err := s.GetSpaceStatistics(ctx)
	if err != nil {
		return nil, err
	}

	report := &analytics.FullReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Space:       space,
		Structures:  make(map[string]analytics.StructureReport),
	}

	for _, summary := range space.LargestStructures(s.config.ReportStructuresLimit) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		objects, err := s.fetchObjects(ctx, summary.ID)
		if err != nil {
			s.traceFallback(ctx, summary.ID, err)
			s.logger.Warn("Skipping structure in full report",
				zap.String("structureID", summary.ID),
				zap.Error(err),
			)
			continue
		}

		report.Structures[summary.ID] = analytics.StructureReport{
			Basic:             summary,
			NumericProperties: analytics.AnalyzeNumericProperties(objects),
			References:        analytics.AnalyzeReferences(objects, s.config.ReferenceMarker),
			Temporal:          analytics.AnalyzeTemporalActivity(objects),
		}
	}

	s.logger.Info("Full report generated",
		zap.String("reportID", report.ReportID),
		zap.Int("structures", len(report.Structures)),
	)
	return report, nil
}

// TestConnection probes the Capacities API
func (s *AnalyticsService) TestConnection(ctx context.Context) error {
	return s.api.TestConnection(ctx)
}

func (s *AnalyticsService) fetchObjects(ctx context.Context, structureID string) ([]entities.DomainObject, error) {
	page, err := s.api.GetObjectsByStructure(ctx, structureID, s.config.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch objects for structure %s: %w", structureID, err)
	}
	if page == nil {
		return nil, nil
	}
	return page.Objects, nil
}
