package queries

import (
	"statdash/pkg/utils"
)

// GetSpaceStatisticsQuery aggregates every structure of the space
type GetSpaceStatisticsQuery struct{}

// Validate validates the GetSpaceStatisticsQuery
func (q GetSpaceStatisticsQuery) Validate() error { return nil }

// GenerateReportQuery builds the full dashboard report
type GenerateReportQuery struct{}

// Validate validates the GenerateReportQuery
func (q GenerateReportQuery) Validate() error { return nil }

// AnalyzeStructureQuery runs every analysis for one structure
type AnalyzeStructureQuery struct {
	StructureID string `validate:"required"`
}

// Validate validates the AnalyzeStructureQuery
func (q AnalyzeStructureQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetNumericPropertiesQuery summarises numeric properties of a structure
type GetNumericPropertiesQuery struct {
	StructureID string `validate:"required"`
}

// Validate validates the GetNumericPropertiesQuery
func (q GetNumericPropertiesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetReferencesQuery indexes the references of a structure's objects
type GetReferencesQuery struct {
	StructureID string `validate:"required"`
}

// Validate validates the GetReferencesQuery
func (q GetReferencesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetTemporalActivityQuery buckets the activity of a structure's objects
type GetTemporalActivityQuery struct {
	StructureID string `validate:"required"`
}

// Validate validates the GetTemporalActivityQuery
func (q GetTemporalActivityQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CompareStructuresQuery analyses several structures side by side
type CompareStructuresQuery struct {
	StructureIDs []string `validate:"required,min=1,dive,required"`
}

// Validate validates the CompareStructuresQuery
func (q CompareStructuresQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetCollectionStatisticsQuery counts the objects of every collection
type GetCollectionStatisticsQuery struct{}

// Validate validates the GetCollectionStatisticsQuery
func (q GetCollectionStatisticsQuery) Validate() error { return nil }

// SearchObjectsQuery searches the space
type SearchObjectsQuery struct {
	Query       string `validate:"required"`
	StructureID string
	Limit       int `validate:"gte=0"`
}

// Validate validates the SearchObjectsQuery
func (q SearchObjectsQuery) Validate() error {
	return utils.ValidateStruct(q)
}
