package services

import (
	"statdash/domain/analytics"
	"statdash/domain/core/entities"
)

// StructureDetail is a structure together with the number of objects fetched for it
type StructureDetail struct {
	entities.Structure
	ObjectCount int `json:"objectCount"`
}

// StructureAnalysis is the drill-down view of one structure
type StructureAnalysis struct {
	Basic             *StructureDetail                          `json:"basic"`
	NumericProperties map[string]analytics.NumericPropertyStats `json:"numericProperties"`
	References        analytics.ReferenceAnalysis               `json:"references"`
	Temporal          analytics.TemporalAnalysis                `json:"temporal"`
}

// StructureComparison is one entry of a structure comparison.
// Error is set instead of the statistics when the structure could not be analysed.
type StructureComparison struct {
	ObjectCount       int                                       `json:"objectCount"`
	NumericProperties map[string]analytics.NumericPropertyStats `json:"numericProperties,omitempty"`
	References        int                                       `json:"references"`
	Error             string                                    `json:"error,omitempty"`
}

// CollectionSummary counts the objects of one collection
type CollectionSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ObjectCount int    `json:"objectCount"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// CollectionStatistics summarises the collections of a space
type CollectionStatistics struct {
	TotalCollections int                 `json:"totalCollections"`
	TotalObjects     int                 `json:"totalObjects"`
	Collections      []CollectionSummary `json:"collections"`
}

// SearchResult is the outcome of a search query
type SearchResult struct {
	Query       string                  `json:"query"`
	StructureID string                  `json:"structureId,omitempty"`
	Count       int                     `json:"count"`
	Objects     []entities.DomainObject `json:"objects"`
}
