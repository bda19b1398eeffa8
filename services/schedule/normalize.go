package schedule

import (
	"strings"
	"time"

	"github.com/Elistein70/simcha-manager/models"
)

// DefaultEventTime is substituted when the extracted time is missing or
// unparseable.
const DefaultEventTime = "19:00"

// Normalize turns a raw extraction result into a well-formed draft. The
// extraction boundary enforces no schema: keys may be missing, wrong-typed,
// or malformed, so every field is validated and defaulted here. Never fails.
func Normalize(raw map[string]any) models.EventDraft {
	return NormalizeDraft(models.EventDraft{
		EventType:      stringField(raw, "event_type"),
		Celebrant:      stringField(raw, "celebrant"),
		Location:       stringField(raw, "location"),
		Date:           stringField(raw, "date"),
		Time:           stringField(raw, "time"),
		IsShabbosEvent: boolField(raw, "is_shabbos_event"),
	})
}

// NormalizeDraft re-validates an already-typed draft, substituting defaults
// for an unparseable date or time. Idempotent: normalizing a normalized
// draft is a no-op.
func NormalizeDraft(d models.EventDraft) models.EventDraft {
	if parsed, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(d.Date), time.Local); err != nil {
		d.Date = time.Now().Format(models.DateLayout)
	} else {
		d.Date = parsed.Format(models.DateLayout)
	}

	if parsed, err := time.Parse(models.TimeLayout, strings.TrimSpace(d.Time)); err != nil {
		d.Time = DefaultEventTime
	} else {
		d.Time = parsed.Format(models.TimeLayout)
	}

	return d
}

func stringField(raw map[string]any, key string) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// boolField coerces a duck-typed flag. The model occasionally returns the
// JSON booleans as strings, so "true"/"false" are accepted too.
func boolField(raw map[string]any, key string) bool {
	if raw == nil {
		return false
	}
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}
