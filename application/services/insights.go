package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"statdash/domain/analytics"
	"statdash/domain/core/entities"
	apperrors "statdash/pkg/errors"
)

const defaultSearchLimit = 50

// AnalyzeStructure runs every analysis for one structure.
// Basic is nil when the structure is not part of the space. A failed object
// fetch is logged and leaves the analysis sections empty.
func (s *AnalyticsService) AnalyzeStructure(ctx context.Context, structureID string) (*StructureAnalysis, error) {
	if strings.TrimSpace(structureID) == "" {
		return nil, apperrors.NewValidationError("structure id is required")
	}

	info, err := s.api.GetSpaceInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch space info: %w", err)
	}

	result := &StructureAnalysis{
		NumericProperties: map[string]analytics.NumericPropertyStats{},
		References:        analytics.AnalyzeReferences(nil, s.config.ReferenceMarker),
		Temporal:          analytics.AnalyzeTemporalActivity(nil),
	}

	objects, err := s.fetchObjects(ctx, structureID)
	if err != nil {
		s.logger.Warn("Structure analysis without objects",
			zap.String("structureID", structureID),
			zap.Error(err),
		)
	} else {
		result.NumericProperties = analytics.AnalyzeNumericProperties(objects)
		result.References = analytics.AnalyzeReferences(objects, s.config.ReferenceMarker)
		result.Temporal = analytics.AnalyzeTemporalActivity(objects)
	}

	if structure, ok := info.FindStructure(structureID); ok {
		result.Basic = &StructureDetail{Structure: structure, ObjectCount: len(objects)}
	}
	return result, nil
}

// CompareStructures analyses several structures side by side. A structure
// that fails carries an error message instead of statistics.
func (s *AnalyticsService) CompareStructures(ctx context.Context, structureIDs []string) (map[string]StructureComparison, error) {
	if len(structureIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one structure id is required")
	}

	comparison := make(map[string]StructureComparison, len(structureIDs))
	for _, id := range structureIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, done := comparison[id]; done {
			continue
		}

		objects, err := s.fetchObjects(ctx, id)
		if err != nil {
			s.logger.Warn("Comparison entry failed",
				zap.String("structureID", id),
				zap.Error(err),
			)
			comparison[id] = StructureComparison{Error: err.Error()}
			continue
		}

		comparison[id] = StructureComparison{
			ObjectCount:       len(objects),
			NumericProperties: analytics.AnalyzeNumericProperties(objects),
			References:        analytics.AnalyzeReferences(objects, s.config.ReferenceMarker).TotalReferences,
		}
	}
	return comparison, nil
}

// GetCollectionStatistics counts the objects of every collection in the space.
// Collections whose objects cannot be fetched are skipped.
func (s *AnalyticsService) GetCollectionStatistics(ctx context.Context) (*CollectionStatistics, error) {
	list, err := s.api.GetCollections(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch collections", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}

	stats := &CollectionStatistics{Collections: []CollectionSummary{}}
	for _, collection := range list.Collections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := s.api.GetCollectionObjects(ctx, collection.ID, s.config.FetchLimit)
		if err != nil {
			s.logger.Warn("Skipping collection",
				zap.String("collectionID", collection.ID),
				zap.Error(err),
			)
			continue
		}

		stats.Collections = append(stats.Collections, CollectionSummary{
			ID:          collection.ID,
			Name:        collection.DisplayName(),
			ObjectCount: page.Len(),
			CreatedAt:   collection.CreatedAt,
			UpdatedAt:   collection.UpdatedAt,
		})
		stats.TotalObjects += page.Len()
	}
	stats.TotalCollections = len(stats.Collections)
	return stats, nil
}

// SearchObjects runs a search against the space. A non-positive limit uses the default.
func (s *AnalyticsService) SearchObjects(ctx context.Context, query, structureID string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > s.config.FetchLimit {
		limit = s.config.FetchLimit
	}

	page, err := s.api.SearchObjects(ctx, query, structureID, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	result := &SearchResult{Query: query, StructureID: structureID, Objects: []entities.DomainObject{}}
	if page != nil && page.Objects != nil {
		result.Objects = page.Objects
	}
	result.Count = len(result.Objects)
	return result, nil
}
