package utils

import (
	"net/url"

	"github.com/Elistein70/simcha-manager/models"
)

const (
	gcalBaseURL    = "https://www.google.com/calendar/render?action=TEMPLATE"
	gcalDateLayout = "20060102T150405"
)

// GoogleCalendarLink builds a pre-filled Google Calendar event-creation URL
// for a resolved interval. Times are emitted without a timezone suffix so
// Google interprets them in the user's calendar timezone.
func GoogleCalendarLink(iv models.CalendarInterval) string {
	params := url.Values{}
	params.Set("text", iv.Title)
	params.Set("dates", iv.Start.Format(gcalDateLayout)+"/"+iv.End.Format(gcalDateLayout))
	params.Set("location", iv.Location)
	params.Set("details", iv.Details)
	return gcalBaseURL + "&" + params.Encode()
}
