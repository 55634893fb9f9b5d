package entities

import (
	"time"

	"github.com/goccy/go-json"

	"statdash/domain/core/valueobjects"
)

// DomainObject is an instance of a Structure
type DomainObject struct {
	ID          string
	StructureID string
	Title       string
	Properties  map[string]valueobjects.PropertyValue
	CreatedAt   string
	UpdatedAt   string
}

type domainObjectJSON struct {
	ID          string          `json:"id"`
	StructureID string          `json:"structureId,omitempty"`
	Title       string          `json:"title,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt   json.RawMessage `json:"updatedAt,omitempty"`
}

// UnmarshalJSON classifies every property value into its PropertyValue variant.
// Values that cannot be classified are dropped and malformed timestamps are left
// empty, so one bad field never fails a whole page.
func (o *DomainObject) UnmarshalJSON(data []byte) error {
	var raw domainObjectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.ID = raw.ID
	o.StructureID = raw.StructureID
	o.Title = raw.Title
	o.CreatedAt = decodeTimestamp(raw.CreatedAt)
	o.UpdatedAt = decodeTimestamp(raw.UpdatedAt)

	var props map[string]json.RawMessage
	if len(raw.Properties) > 0 {
		_ = json.Unmarshal(raw.Properties, &props)
	}

	o.Properties = make(map[string]valueobjects.PropertyValue, len(props))
	for key, value := range props {
		pv, err := valueobjects.ParsePropertyValue(value)
		if err != nil {
			continue
		}
		o.Properties[key] = pv
	}
	return nil
}

// maxEpochMillis is the largest instant a JavaScript Date can hold
const maxEpochMillis = 8.64e15

// decodeTimestamp accepts a timestamp string or epoch milliseconds.
// Epoch values are rendered in UTC with millisecond precision.
func decodeTimestamp(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil && ms >= -maxEpochMillis && ms <= maxEpochMillis {
		return time.UnixMilli(int64(ms)).UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	return ""
}

// MarshalJSON implements json.Marshaler
func (o DomainObject) MarshalJSON() ([]byte, error) {
	props := make(map[string]interface{}, len(o.Properties))
	for key, value := range o.Properties {
		props[key] = valueobjects.ToInterface(value)
	}
	return json.Marshal(struct {
		ID          string                 `json:"id"`
		StructureID string                 `json:"structureId,omitempty"`
		Title       string                 `json:"title,omitempty"`
		Properties  map[string]interface{} `json:"properties,omitempty"`
		CreatedAt   string                 `json:"createdAt,omitempty"`
		UpdatedAt   string                 `json:"updatedAt,omitempty"`
	}{o.ID, o.StructureID, o.Title, props, o.CreatedAt, o.UpdatedAt})
}

// ObjectPage is a page of objects returned by a listing call
type ObjectPage struct {
	Objects []DomainObject `json:"objects"`
}

// Len returns the number of objects on the page
func (p *ObjectPage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Objects)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats returned by the Capacities API
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
