package models

import (
	"fmt"
	"time"
)

// SessionExercise is what was logged for one exercise in a session.
type SessionExercise struct {
	ExerciseID string      `json:"exerciseId"`
	Sets       []LoggedSet `json:"sets"`
}

// Session is one logged workout. Date is an ISO date or date-time string and
// doubles as the storage key, so lexical order is chronological order.
type Session struct {
	Date      string            `json:"date"`
	PlanID    string            `json:"planId,omitempty"`
	Cycle     int               `json:"cycle,omitempty"`
	Day       int               `json:"day,omitempty"`
	RoutineID string            `json:"routineId,omitempty"`
	Exercises []SessionExercise `json:"exercises"`
}

// Exercise returns the logged sets for exerciseID, if present.
func (s *Session) Exercise(exerciseID string) (SessionExercise, bool) {
	for _, ex := range s.Exercises {
		if ex.ExerciseID == exerciseID {
			return ex, true
		}
	}
	return SessionExercise{}, false
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

// ParseDate parses a session or goal date key. Keys without a zone are read
// in loc (UTC when nil).
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, key, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", key)
}

// CalendarDate returns the YYYY-MM-DD part of a date key.
func CalendarDate(key string) string {
	if len(key) >= len(dateLayout) {
		return key[:len(dateLayout)]
	}
	return key
}

// FormatDate renders t as a calendar date key.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
