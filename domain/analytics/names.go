package analytics

import "statdash/domain/core/entities"

// CollectionStructureID is the built-in structure backing database collections
const CollectionStructureID = "RootDatabase"

// estimatedType labels summaries of structures that carry no type of their own
const estimatedType = "estimated"

// defaultColor is used when a structure has no label color
const defaultColor = "gray"

var structureDisplayNames = map[string]string{
	"RootPage":         "Pages",
	"RootDatabase":     "Collections",
	"MediaImage":       "Images",
	"MediaPDF":         "PDFs",
	"RootTag":          "Tags",
	"RootQuery":        "Queries",
	"RootAIChat":       "AI Chats",
	"RootSimpleTable":  "Tables",
	"RootDailyNote":    "Daily Notes",
	"MediaAudio":       "Audio Files",
	"MediaVideo":       "Video Files",
	"MediaWebResource": "Web Links",
	"MediaFile":        "Files",
	"MediaTweet":       "Tweets",
	"RootStructure":    "Object Types",
	"RootSpace":        "Spaces",
}

// DisplayName resolves the label shown for a structure: its title, then the
// built-in label for well-known ids, then its name, then the raw id.
func DisplayName(s entities.Structure) string {
	if s.Title != "" {
		return s.Title
	}
	if label, ok := structureDisplayNames[s.ID]; ok {
		return label
	}
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// KnownDisplayName returns the built-in label for a well-known structure id
func KnownDisplayName(structureID string) (string, bool) {
	label, ok := structureDisplayNames[structureID]
	return label, ok
}
