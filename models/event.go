package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for event dates (ISO calendar date).
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for event times (24h clock).
const TimeLayout = "15:04"

// Attendance is the user's RSVP decision for a simcha.
type Attendance string

const (
	AttendanceYes   Attendance = "yes"
	AttendanceMaybe Attendance = "maybe"
	AttendanceNo    Attendance = "no"
)

// ParseAttendance parses a user-provided attendance value.
func ParseAttendance(s string) (Attendance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return AttendanceYes, nil
	case "maybe":
		return AttendanceMaybe, nil
	case "no":
		return AttendanceNo, nil
	}
	return "", fmt.Errorf("invalid attendance value: %q", s)
}

// EventDraft is the normalized, editable representation of one simcha.
// After normalization Date and Time are always parseable; free-text fields
// may be empty.
type EventDraft struct {
	EventType      string `json:"eventType"`
	Celebrant      string `json:"celebrant"`
	Location       string `json:"location"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM local
	IsShabbosEvent bool   `json:"isShabbosEvent"`
}

// StartTime combines the draft's date and time into a naive local datetime.
// Returns an error only for drafts that bypassed normalization.
func (d EventDraft) StartTime() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, d.Date+" "+d.Time, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("combine draft date/time: %w", err)
	}
	return t, nil
}

// Event is one confirmed simcha as persisted to the event list.
type Event struct {
	ID        string             `json:"id"`
	Draft     EventDraft         `json:"draft"`
	Attending Attendance         `json:"attending"`
	WantGift  bool               `json:"wantGift"`
	Summary   string             `json:"summary,omitempty"`
	Intervals []CalendarInterval `json:"intervals"`
	CreatedAt time.Time          `json:"createdAt"`
}
