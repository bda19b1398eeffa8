package handlers

import (
	"fmt"
	"net/http"

	ics "github.com/arran4/golang-ical"
)

// Feed serves every stored interval as an iCalendar feed, suitable for
// subscription from any calendar client.
func (h *EventsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//simcha-manager//EN")
	cal.SetXWRCalName("Simcha Manager")

	for _, event := range h.store.List() {
		for _, iv := range event.Intervals {
			ve := cal.AddEvent(fmt.Sprintf("%s-%s@simcha-manager", event.ID, iv.Kind))
			ve.SetDtStampTime(event.CreatedAt)
			ve.SetStartAt(iv.Start)
			ve.SetEndAt(iv.End)
			ve.SetSummary(iv.Title)
			if iv.Location != "" {
				ve.SetLocation(iv.Location)
			}
			if iv.Details != "" {
				ve.SetDescription(iv.Details)
			}
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="simchas.ics"`)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		// Client went away; nothing to do.
		return
	}
}
