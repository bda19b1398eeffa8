package schedule

import (
	"fmt"
	"time"

	"github.com/Elistein70/simcha-manager/models"
)

const (
	// DefaultEventDuration is the length of the event calendar block.
	// Earlier releases used 2 hours; current releases use 3.
	DefaultEventDuration = 3 * time.Hour

	// Gift reminders are short morning blocks the day before the simcha
	// (or the preceding Friday for Shabbos events).
	giftReminderHour     = 10
	giftReminderDuration = 30 * time.Minute

	giftLocation = "Store"
	giftDetails  = "Reminder"
	eventDetails = "Simcha Manager"
)

// Resolver turns confirmed drafts into calendar intervals.
type Resolver struct {
	eventDuration time.Duration
}

// NewResolver creates a resolver. A non-positive duration selects
// DefaultEventDuration.
func NewResolver(eventDuration time.Duration) *Resolver {
	if eventDuration <= 0 {
		eventDuration = DefaultEventDuration
	}
	return &Resolver{eventDuration: eventDuration}
}

// Resolve computes the calendar intervals for a confirmed draft: the event
// itself, plus an optional gift reminder. Declined events produce nothing.
// Pure; the draft is re-normalized defensively so resolution cannot fail.
func (r *Resolver) Resolve(draft models.EventDraft, attending models.Attendance, wantGift bool) []models.CalendarInterval {
	if attending == models.AttendanceNo {
		return nil
	}

	draft = NormalizeDraft(draft)
	start, err := draft.StartTime()
	if err != nil {
		// Unreachable after NormalizeDraft.
		return nil
	}

	intervals := []models.CalendarInterval{{
		Kind:     models.IntervalKindEvent,
		Title:    fmt.Sprintf("%s: %s", draft.EventType, draft.Celebrant),
		Start:    start,
		End:      start.Add(r.eventDuration),
		Location: draft.Location,
		Details:  eventDetails,
	}}

	if !wantGift {
		return intervals
	}

	eventDate := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	giftDate := giftReminderDate(eventDate, draft.IsShabbosEvent)
	// Build from calendar components rather than adding a duration to
	// midnight, so a DST transition on the gift day cannot shift the
	// wall-clock reminder time.
	giftStart := time.Date(giftDate.Year(), giftDate.Month(), giftDate.Day(), giftReminderHour, 0, 0, 0, time.Local)

	return append(intervals, models.CalendarInterval{
		Kind:     models.IntervalKindGift,
		Title:    fmt.Sprintf("Buy Gift: %s", draft.Celebrant),
		Start:    giftStart,
		End:      giftStart.Add(giftReminderDuration),
		Location: giftLocation,
		Details:  giftDetails,
	})
}

// giftReminderDate picks the day to buy the gift. Shabbos events anchor to
// the most recent Friday on or before the event date so the gift is bought
// before sundown; everything else uses the previous day.
func giftReminderDate(eventDate time.Time, shabbos bool) time.Time {
	if !shabbos {
		return eventDate.AddDate(0, 0, -1)
	}

	// Monday=0..Sunday=6 ordinal puts Friday at 4.
	offset := (int(eventDate.Weekday())+6)%7 - 4
	d := eventDate.AddDate(0, 0, -offset)
	if d.After(eventDate) {
		// Events on Mon-Thu land on the following Friday; step back a week.
		d = d.AddDate(0, 0, -7)
	}
	return d
}
