package analytics

import (
	"fmt"
	"time"

	"statdash/domain/core/entities"
)

// EventRole distinguishes creation from modification events
type EventRole string

const (
	RoleCreated EventRole = "created"
	RoleUpdated EventRole = "updated"
)

// TemporalEvent is one timestamp observed on an object
type TemporalEvent struct {
	ObjectID string
	Role     EventRole
	At       time.Time
}

// CollectTemporalEvents returns the created and updated events of objects in
// object order. Missing or unparseable timestamps produce no event.
func CollectTemporalEvents(objects []entities.DomainObject) []TemporalEvent {
	events := make([]TemporalEvent, 0, len(objects)*2)
	for _, obj := range objects {
		if at, ok := entities.ParseTimestamp(obj.CreatedAt); ok {
			events = append(events, TemporalEvent{ObjectID: obj.ID, Role: RoleCreated, At: at})
		}
		if at, ok := entities.ParseTimestamp(obj.UpdatedAt); ok {
			events = append(events, TemporalEvent{ObjectID: obj.ID, Role: RoleUpdated, At: at})
		}
	}
	return events
}

// DayKey is the calendar date of t in its own offset. Dashboards that bucketed
// by UTC date place late-evening events with negative offsets one day later.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey numbers weeks within the month as ceil((day + weekday of the 1st) / 7).
// This is not ISO-8601 week numbering and is kept for dashboard compatibility.
func WeekKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := int(first.Weekday())
	week := (t.Day() + offset + 6) / 7
	return fmt.Sprintf("%d-W%d", t.Year(), week)
}

// AnalyzeTemporalActivity buckets object events by day and by week. Buckets
// appear in order of first occurrence.
func AnalyzeTemporalActivity(objects []entities.DomainObject) TemporalAnalysis {
	events := CollectTemporalEvents(objects)

	days, dayOrder := groupEvents(events, DayKey)
	weeks, weekOrder := groupEvents(events, WeekKey)

	result := TemporalAnalysis{
		Daily:  make([]DailyBucket, 0, len(dayOrder)),
		Weekly: make([]WeeklyBucket, 0, len(weekOrder)),
		Total:  len(events),
	}
	for _, key := range dayOrder {
		result.Daily = append(result.Daily, DailyBucket{Date: key, Count: days[key]})
	}
	for _, key := range weekOrder {
		result.Weekly = append(result.Weekly, WeeklyBucket{Week: key, Count: weeks[key]})
	}
	return result
}

func groupEvents(events []TemporalEvent, keyFn func(time.Time) string) (map[string]int, []string) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, e := range events {
		key := keyFn(e.At)
		if _, exists := counts[key]; !exists {
			order = append(order, key)
		}
		counts[key]++
	}
	return counts, order
}
