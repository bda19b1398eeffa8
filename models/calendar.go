package models

import "time"

// Interval kinds, recorded so exports can distinguish the simcha itself
// from its derived gift reminder.
const (
	IntervalKindEvent = "event"
	IntervalKindGift  = "gift"
)

// CalendarInterval is one resolved start/end range handed to calendar
// exports. Times are naive local time; End is always after Start.
type CalendarInterval struct {
	Kind     string    `json:"kind"` // "event" | "gift"
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Details  string    `json:"details,omitempty"`
}
