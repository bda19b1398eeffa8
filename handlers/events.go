package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Elistein70/simcha-manager/models"
	"github.com/Elistein70/simcha-manager/services/events"
	"github.com/Elistein70/simcha-manager/services/schedule"
	"github.com/Elistein70/simcha-manager/utils"
)

// EventsHandler serves the confirmed-event endpoints: resolution, the
// persisted list, and calendar exports.
type EventsHandler struct {
	store    *events.Service
	resolver *schedule.Resolver
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(store *events.Service, resolver *schedule.Resolver) *EventsHandler {
	return &EventsHandler{store: store, resolver: resolver}
}

// CreateEventRequest is the confirm-and-save request body: the reviewed
// draft fields plus the user's two decisions.
type CreateEventRequest struct {
	EventType      string `json:"eventType"`
	Celebrant      string `json:"celebrant"`
	Location       string `json:"location"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	IsShabbosEvent bool   `json:"isShabbosEvent"`
	Attending      string `json:"attending"`
	WantGift       bool   `json:"wantGift"`
	Summary        string `json:"summary,omitempty"`
}

// IntervalPayload is a resolved interval plus its add-to-calendar link.
type IntervalPayload struct {
	models.CalendarInterval
	GoogleCalendarURL string `json:"googleCalendarUrl"`
}

// EventPayload is a stored event with per-interval calendar links.
type EventPayload struct {
	models.Event
	Intervals []IntervalPayload `json:"intervals"`
}

// CreateEventResponse reports whether a record was saved. Declined events
// resolve to no intervals and are deliberately not persisted.
type CreateEventResponse struct {
	Saved bool          `json:"saved"`
	Event *EventPayload `json:"event,omitempty"`
}

// EventListResponse is the API response for the event list endpoint.
type EventListResponse struct {
	Events []EventPayload `json:"events"`
	Total  int            `json:"total"`
}

func toPayload(e models.Event) EventPayload {
	payload := EventPayload{Event: e, Intervals: make([]IntervalPayload, 0, len(e.Intervals))}
	for _, iv := range e.Intervals {
		payload.Intervals = append(payload.Intervals, IntervalPayload{
			CalendarInterval:  iv,
			GoogleCalendarURL: utils.GoogleCalendarLink(iv),
		})
	}
	return payload
}

// Create resolves a confirmed draft into calendar intervals and persists it.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	attending, err := models.ParseAttendance(req.Attending)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft := schedule.NormalizeDraft(models.EventDraft{
		EventType:      strings.TrimSpace(req.EventType),
		Celebrant:      strings.TrimSpace(req.Celebrant),
		Location:       strings.TrimSpace(req.Location),
		Date:           req.Date,
		Time:           req.Time,
		IsShabbosEvent: req.IsShabbosEvent,
	})

	intervals := h.resolver.Resolve(draft, attending, req.WantGift)
	if len(intervals) == 0 {
		// Declined: a designed no-op, not an error.
		writeJSON(w, http.StatusOK, CreateEventResponse{Saved: false})
		return
	}

	saved, err := h.store.Save(models.Event{
		Draft:     draft,
		Attending: attending,
		WantGift:  req.WantGift,
		Summary:   strings.TrimSpace(req.Summary),
		Intervals: intervals,
	})
	if err != nil {
		log.Printf("[events] save failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save event")
		return
	}

	payload := toPayload(saved)
	writeJSON(w, http.StatusCreated, CreateEventResponse{Saved: true, Event: &payload})
}

// List returns all saved events, newest first. With ?upcoming=true it
// returns only events whose first interval has not started yet, soonest
// first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	var list []models.Event
	if r.URL.Query().Get("upcoming") == "true" {
		list = h.store.Upcoming(time.Now())
	} else {
		list = h.store.List()
	}
	payloads := make([]EventPayload, 0, len(list))
	for _, e := range list {
		payloads = append(payloads, toPayload(e))
	}

	writeJSON(w, http.StatusOK, EventListResponse{
		Events: payloads,
		Total:  len(payloads),
	})
}

// Get returns one saved event by ID.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	event, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return
	}

	writeJSON(w, http.StatusOK, toPayload(event))
}

// Delete removes one saved event by ID.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		log.Printf("[events] delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
