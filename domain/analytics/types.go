// Package analytics holds the pure statistics computed over Capacities
// structures and objects. Nothing in this package performs I/O; results are
// built fresh for every request and never cached.
package analytics

import "time"

// NumericPropertyStats summarises the numeric values of one property
type NumericPropertyStats struct {
	Count             int     `json:"count"`
	Sum               float64 `json:"sum"`
	Average           float64 `json:"average"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"standardDeviation"`
}

// ReferenceSource identifies the object and property a reference came from
type ReferenceSource struct {
	ObjectID string `json:"objectId"`
	Property string `json:"property"`
}

// ReferenceAnalysis is the forward and backward index of object references
type ReferenceAnalysis struct {
	References      map[string]map[string]int    `json:"references"`
	ReferencedBy    map[string][]ReferenceSource `json:"referencedBy"`
	TotalReferences int                          `json:"totalReferences"`
}

// DailyBucket counts temporal events on one calendar date
type DailyBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WeeklyBucket counts temporal events in one week
type WeeklyBucket struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// TemporalAnalysis is the daily and weekly activity of a set of objects
type TemporalAnalysis struct {
	Daily  []DailyBucket  `json:"daily"`
	Weekly []WeeklyBucket `json:"weekly"`
	Total  int            `json:"total"`
}

// StructureSummary is the per-structure entry of SpaceStatistics
type StructureSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	Count         int    `json:"count"`
	ObjectCount   int    `json:"objectCount"`
	Estimated     bool   `json:"estimated"`
	Complexity    int    `json:"complexity"`
	Properties    int    `json:"properties"`
	PropertyCount int    `json:"propertyCount"`
	Collections   int    `json:"collections"`
	Color         string `json:"color"`
}

// SpaceStatistics aggregates every structure of a space
type SpaceStatistics struct {
	TotalStructures  int                         `json:"totalStructures"`
	TotalCollections int                         `json:"totalCollections"`
	TotalObjects     int                         `json:"totalObjects"`
	Structures       map[string]StructureSummary `json:"structures"`
	TopStructures    []StructureSummary          `json:"topStructures"`

	// listing order of Structures, used for stable ranking
	order []string
}

// StructureReport bundles every analysis of one structure
type StructureReport struct {
	Basic             StructureSummary                `json:"basic"`
	NumericProperties map[string]NumericPropertyStats `json:"numericProperties"`
	References        ReferenceAnalysis               `json:"references"`
	Temporal          TemporalAnalysis                `json:"temporal"`
}

// FullReport is the complete dashboard report of a space
type FullReport struct {
	ReportID    string                     `json:"reportId"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Space       *SpaceStatistics           `json:"space"`
	Structures  map[string]StructureReport `json:"structures"`
}
