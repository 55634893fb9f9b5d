package analytics

import (
	"sort"

	"statdash/domain/core/entities"
)

// NewStructureSummary describes a structure given its object count
func NewStructureSummary(s entities.Structure, count int, estimated bool) StructureSummary {
	return StructureSummary{
		ID:            s.ID,
		Name:          DisplayName(s),
		Title:         firstNonEmpty(s.Title, s.Name, s.ID),
		Type:          firstNonEmpty(s.Type, estimatedType),
		Count:         count,
		ObjectCount:   count,
		Estimated:     estimated,
		Complexity:    Complexity(s),
		Properties:    s.PropertyCount(),
		PropertyCount: s.PropertyCount(),
		Collections:   s.CollectionCount(),
		Color:         firstNonEmpty(s.LabelColor, defaultColor),
	}
}

// NewSpaceStatistics starts an empty aggregation for a space listing
func NewSpaceStatistics(totalStructures int) *SpaceStatistics {
	return &SpaceStatistics{
		TotalStructures: totalStructures,
		Structures:      make(map[string]StructureSummary, totalStructures),
		TopStructures:   []StructureSummary{},
	}
}

// Add records one structure summary. Summaries must be added in listing order.
func (s *SpaceStatistics) Add(summary StructureSummary) {
	if _, exists := s.Structures[summary.ID]; !exists {
		s.order = append(s.order, summary.ID)
	} else {
		s.TotalObjects -= s.Structures[summary.ID].Count
	}
	s.Structures[summary.ID] = summary
	s.TotalObjects += summary.Count
	if summary.ID == CollectionStructureID {
		s.TotalCollections++
	}
}

// Finalize fills TopStructures with the first limit summaries ordered by
// display name. This is a navigation ordering, not a ranking by volume.
func (s *SpaceStatistics) Finalize(limit int) {
	sorted := s.Ordered()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	s.TopStructures = sorted
}

// Ordered returns the summaries in the order their structures were listed
func (s *SpaceStatistics) Ordered() []StructureSummary {
	out := make([]StructureSummary, 0, len(s.Structures))
	seen := make(map[string]bool, len(s.order))
	for _, id := range s.order {
		out = append(out, s.Structures[id])
		seen[id] = true
	}
	// summaries inserted directly into the map (e.g. decoded from JSON)
	var rest []string
	for id := range s.Structures {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, s.Structures[id])
	}
	return out
}

// LargestStructures returns at most limit summaries by descending count.
// Equal counts keep listing order.
func (s *SpaceStatistics) LargestStructures(limit int) []StructureSummary {
	ranked := s.Ordered()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
