package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdash/domain/core/entities"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		structure entities.Structure
		want      string
	}{
		{name: "title wins", structure: entities.Structure{ID: "RootPage", Title: "My Pages", Name: "n"}, want: "My Pages"},
		{name: "known id", structure: entities.Structure{ID: "RootAIChat"}, want: "AI Chats"},
		{name: "known id beats name", structure: entities.Structure{ID: "RootTag", Name: "tag"}, want: "Tags"},
		{name: "name", structure: entities.Structure{ID: "custom", Name: "Books"}, want: "Books"},
		{name: "raw id", structure: entities.Structure{ID: "custom"}, want: "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.structure))
		})
	}
}

func TestNewStructureSummary(t *testing.T) {
	s := entities.Structure{
		ID:                  "books",
		Name:                "Book",
		PropertyDefinitions: props(entities.PropertyTypeText, entities.PropertyTypeNumber),
		Collections:         []entities.Collection{{ID: "c"}},
		LabelColor:          "blue",
	}

	summary := NewStructureSummary(s, 12, false)

	assert.Equal(t, "books", summary.ID)
	assert.Equal(t, "Book", summary.Name)
	assert.Equal(t, "Book", summary.Title)
	assert.Equal(t, "estimated", summary.Type)
	assert.Equal(t, 12, summary.Count)
	assert.Equal(t, 12, summary.ObjectCount)
	assert.Equal(t, 2, summary.Properties)
	assert.Equal(t, 2, summary.PropertyCount)
	assert.Equal(t, 1, summary.Collections)
	assert.Equal(t, 4, summary.Complexity)
	assert.Equal(t, "blue", summary.Color)

	assert.Equal(t, "gray", NewStructureSummary(entities.Structure{ID: "x"}, 0, true).Color)
}

func TestSpaceStatistics_TopStructuresByName(t *testing.T) {
	stats := NewSpaceStatistics(2)
	stats.Add(NewStructureSummary(entities.Structure{ID: "A", Title: "Zebra"}, 1, false))
	stats.Add(NewStructureSummary(entities.Structure{ID: "B", Title: "Apple"}, 5, false))
	stats.Finalize(10)

	require.Len(t, stats.TopStructures, 2)
	assert.Equal(t, "B", stats.TopStructures[0].ID)
	assert.Equal(t, "A", stats.TopStructures[1].ID)
	assert.Equal(t, 6, stats.TotalObjects)
}

func TestSpaceStatistics_TruncatesTopStructures(t *testing.T) {
	stats := NewSpaceStatistics(12)
	for i := 11; i >= 0; i-- {
		stats.Add(NewStructureSummary(entities.Structure{ID: fmt.Sprintf("s%02d", i)}, i, false))
	}
	stats.Finalize(10)

	require.Len(t, stats.TopStructures, 10)
	assert.Equal(t, "s00", stats.TopStructures[0].ID)
	assert.Equal(t, "s09", stats.TopStructures[9].ID)
	assert.Len(t, stats.Structures, 12)
}

func TestSpaceStatistics_CountsCollections(t *testing.T) {
	stats := NewSpaceStatistics(3)
	stats.Add(NewStructureSummary(entities.Structure{ID: CollectionStructureID}, 3, false))
	stats.Add(NewStructureSummary(entities.Structure{ID: "RootPage"}, 4, false))
	stats.Finalize(10)

	assert.Equal(t, 1, stats.TotalCollections)
	assert.Equal(t, "Collections", stats.Structures[CollectionStructureID].Name)
}

func TestSpaceStatistics_LargestStructures(t *testing.T) {
	stats := NewSpaceStatistics(4)
	stats.Add(NewStructureSummary(entities.Structure{ID: "small"}, 1, false))
	stats.Add(NewStructureSummary(entities.Structure{ID: "tieA"}, 7, false))
	stats.Add(NewStructureSummary(entities.Structure{ID: "big"}, 20, false))
	stats.Add(NewStructureSummary(entities.Structure{ID: "tieB"}, 7, false))

	ranked := stats.LargestStructures(3)

	require.Len(t, ranked, 3)
	assert.Equal(t, "big", ranked[0].ID)
	assert.Equal(t, "tieA", ranked[1].ID)
	assert.Equal(t, "tieB", ranked[2].ID)
}
