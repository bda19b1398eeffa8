package utils

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Elistein70/simcha-manager/models"
)

func TestGoogleCalendarLink(t *testing.T) {
	t.Parallel()

	iv := models.CalendarInterval{
		Title:    "Wedding: Levy Family",
		Start:    time.Date(2025, 3, 14, 18, 30, 0, 0, time.Local),
		End:      time.Date(2025, 3, 14, 21, 30, 0, 0, time.Local),
		Location: "Grand Hall",
		Details:  "Simcha Manager",
	}

	link := GoogleCalendarLink(iv)

	if !strings.HasPrefix(link, "https://www.google.com/calendar/render?action=TEMPLATE&") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}

	q := parsed.Query()
	if q.Get("text") != "Wedding: Levy Family" {
		t.Errorf("unexpected text param: %q", q.Get("text"))
	}
	if q.Get("dates") != "20250314T183000/20250314T213000" {
		t.Errorf("unexpected dates param: %q", q.Get("dates"))
	}
	if q.Get("location") != "Grand Hall" {
		t.Errorf("unexpected location param: %q", q.Get("location"))
	}
	if q.Get("details") != "Simcha Manager" {
		t.Errorf("unexpected details param: %q", q.Get("details"))
	}
}
