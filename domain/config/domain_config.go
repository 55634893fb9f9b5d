package config

import (
	"fmt"

	"statdash/domain/core/valueobjects"
)

// DomainConfig holds the tunable limits of the analytics engine
type DomainConfig struct {
	// Maximum number of objects requested per structure or collection
	FetchLimit int

	// Number of entries kept in SpaceStatistics.TopStructures
	TopStructuresLimit int

	// Number of structures analysed by the full report, chosen by count
	ReportStructuresLimit int

	// URI marker identifying references inside text properties
	ReferenceMarker string

	// Maximum relative jitter applied to estimated object counts
	EstimationJitter float64
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		FetchLimit:            1000,
		TopStructuresLimit:    10,
		ReportStructuresLimit: 15,
		ReferenceMarker:       valueobjects.DefaultReferenceMarker,
		EstimationJitter:      0.15,
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch limit must be positive, got %d", c.FetchLimit)
	}
	if c.TopStructuresLimit <= 0 {
		return fmt.Errorf("top structures limit must be positive, got %d", c.TopStructuresLimit)
	}
	if c.ReportStructuresLimit <= 0 {
		return fmt.Errorf("report structures limit must be positive, got %d", c.ReportStructuresLimit)
	}
	if c.ReferenceMarker == "" {
		return fmt.Errorf("reference marker cannot be empty")
	}
	if c.EstimationJitter < 0 || c.EstimationJitter >= 1 {
		return fmt.Errorf("estimation jitter must be in [0,1), got %v", c.EstimationJitter)
	}
	return nil
}
