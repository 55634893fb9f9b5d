package entities

// PropertyType is the declared type of a property definition
type PropertyType string

const (
	PropertyTypeText        PropertyType = "text"
	PropertyTypeNumber      PropertyType = "number"
	PropertyTypeDate        PropertyType = "date"
	PropertyTypeSelect      PropertyType = "select"
	PropertyTypeMultiSelect PropertyType = "multiSelect"
	PropertyTypeObject      PropertyType = "object"
	PropertyTypeEntity      PropertyType = "entity"
	PropertyTypeEntityTags  PropertyType = "entity_tags"
	PropertyTypeBlocks      PropertyType = "blocks"
	PropertyTypeEntityIcon  PropertyType = "entity_icon"
)

// IsComplex reports whether the type holds nested or linked content
func (t PropertyType) IsComplex() bool {
	switch t {
	case PropertyTypeBlocks, PropertyTypeEntity, PropertyTypeObject, PropertyTypeEntityTags:
		return true
	default:
		return false
	}
}

// Property is a field declaration on a Structure
type Property struct {
	ID          string       `json:"id"`
	Name        string       `json:"name,omitempty"`
	Type        PropertyType `json:"type"`
	Required    bool         `json:"required,omitempty"`
	Options     []string     `json:"options,omitempty"`
	StructureID string       `json:"structureId,omitempty"` // relationship target, if any
}

// Collection is a named grouping of objects
type Collection struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// DisplayName returns the collection's name, falling back to title and id
func (c Collection) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Title != "":
		return c.Title
	default:
		return c.ID
	}
}

// Structure is the schema of a class of objects in a space.
// Structures are consumed read-only as returned by the API.
type Structure struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title,omitempty"`
	Name                string       `json:"name,omitempty"`
	PluralName          string       `json:"pluralName,omitempty"`
	Type                string       `json:"type,omitempty"`
	PropertyDefinitions []Property   `json:"propertyDefinitions,omitempty"`
	Collections         []Collection `json:"collections,omitempty"`
	LabelColor          string       `json:"labelColor,omitempty"`
}

// PropertyCount returns the number of property definitions
func (s Structure) PropertyCount() int {
	return len(s.PropertyDefinitions)
}

// CollectionCount returns the number of collections attached to the structure
func (s Structure) CollectionCount() int {
	return len(s.Collections)
}

// ComplexPropertyCount counts properties whose type is complex
func (s Structure) ComplexPropertyCount() int {
	n := 0
	for _, p := range s.PropertyDefinitions {
		if p.Type.IsComplex() {
			n++
		}
	}
	return n
}

// RequiredPropertyCount counts required properties
func (s Structure) RequiredPropertyCount() int {
	n := 0
	for _, p := range s.PropertyDefinitions {
		if p.Required {
			n++
		}
	}
	return n
}

// SpaceInfo is the structural listing of a space
type SpaceInfo struct {
	Structures  []Structure  `json:"structures"`
	Collections []Collection `json:"collections,omitempty"`
}

// FindStructure returns the structure with the given id
func (s *SpaceInfo) FindStructure(id string) (Structure, bool) {
	for _, st := range s.Structures {
		if st.ID == id {
			return st, true
		}
	}
	return Structure{}, false
}

// CollectionList is the response of the collections listing
type CollectionList struct {
	Collections []Collection `json:"collections"`
}
