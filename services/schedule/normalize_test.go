package schedule

import (
	"testing"
	"time"

	"github.com/Elistein70/simcha-manager/models"
)

func TestNormalize_WellFormedInput(t *testing.T) {
	t.Parallel()

	draft := Normalize(map[string]any{
		"event_type":       "Wedding",
		"celebrant":        "Levy Family",
		"location":         "Grand Hall",
		"date":             "2025-03-14",
		"time":             "18:30",
		"is_shabbos_event": false,
	})

	if draft.EventType != "Wedding" {
		t.Errorf("expected EventType Wedding, got %q", draft.EventType)
	}
	if draft.Celebrant != "Levy Family" {
		t.Errorf("expected Celebrant Levy Family, got %q", draft.Celebrant)
	}
	if draft.Location != "Grand Hall" {
		t.Errorf("expected Location Grand Hall, got %q", draft.Location)
	}
	if draft.Date != "2025-03-14" {
		t.Errorf("expected Date 2025-03-14, got %q", draft.Date)
	}
	if draft.Time != "18:30" {
		t.Errorf("expected Time 18:30, got %q", draft.Time)
	}
	if draft.IsShabbosEvent {
		t.Error("expected IsShabbosEvent false")
	}
}

func TestNormalize_MalformedFieldsFallBack(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"nil map", nil},
		{"empty map", map[string]any{}},
		{"wrong types", map[string]any{
			"event_type":       42,
			"celebrant":        []string{"x"},
			"date":             20250314,
			"time":             1830,
			"is_shabbos_event": "maybe",
		}},
		{"malformed strings", map[string]any{
			"date": "14th of Adar",
			"time": "evening",
		}},
		{"partial date", map[string]any{
			"date": "2025-03",
			"time": "25:99",
		}},
	}

	today := time.Now().Format(models.DateLayout)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := Normalize(tc.raw)

			if draft.Date != today {
				t.Errorf("expected fallback date %s, got %q", today, draft.Date)
			}
			if draft.Time != DefaultEventTime {
				t.Errorf("expected fallback time %s, got %q", DefaultEventTime, draft.Time)
			}
			if draft.IsShabbosEvent {
				t.Error("expected IsShabbosEvent false for absent/invalid flag")
			}
			if _, err := draft.StartTime(); err != nil {
				t.Fatalf("normalized draft must have a combinable date/time: %v", err)
			}
		})
	}
}

func TestNormalize_ShabbosFlagCoercion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{" true ", true},
		{"false", false},
		{"yes", false},
		{1, false},
		{nil, false},
	}

	for _, tc := range cases {
		draft := Normalize(map[string]any{"is_shabbos_event": tc.value})
		if draft.IsShabbosEvent != tc.want {
			t.Errorf("flag %#v: expected %v, got %v", tc.value, tc.want, draft.IsShabbosEvent)
		}
	}
}

func TestNormalizeDraft_Idempotent(t *testing.T) {
	t.Parallel()

	first := Normalize(map[string]any{
		"event_type": "Bris",
		"celebrant":  "Baby Cohen",
		"date":       "bad date",
		"time":       "08:00",
	})
	second := NormalizeDraft(first)

	if first != second {
		t.Fatalf("normalization is not a fixed point: %+v vs %+v", first, second)
	}
}
