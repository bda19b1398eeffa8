package events

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Elistein70/simcha-manager/models"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	return svc
}

func sampleEvent(start time.Time) models.Event {
	return models.Event{
		Draft: models.EventDraft{
			EventType: "Wedding",
			Celebrant: "Levy Family",
			Date:      start.Format(models.DateLayout),
			Time:      start.Format(models.TimeLayout),
		},
		Attending: models.AttendanceYes,
		WantGift:  true,
		Intervals: []models.CalendarInterval{{
			Kind:  models.IntervalKindEvent,
			Title: "Wedding: Levy Family",
			Start: start,
			End:   start.Add(3 * time.Hour),
		}},
	}
}

func TestNewService_RequiresStorageDir(t *testing.T) {
	t.Parallel()

	if _, err := NewService(""); err != ErrStorageDirRequired {
		t.Fatalf("expected ErrStorageDirRequired, got %v", err)
	}

	if _, err := NewService("   "); err != ErrStorageDirRequired {
		t.Fatalf("expected ErrStorageDirRequired for whitespace, got %v", err)
	}
}

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	svc := setupService(t)
	saved, err := svc.Save(sampleEvent(time.Date(2025, 3, 14, 18, 30, 0, 0, time.Local)))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if saved.ID == "" {
		t.Fatal("expected non-empty event ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := svc.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Draft.Celebrant != "Levy Family" {
		t.Fatalf("expected stored celebrant, got %q", got.Draft.Celebrant)
	}
}

func TestSave_RejectsEventWithoutIntervals(t *testing.T) {
	t.Parallel()

	svc := setupService(t)
	ev := sampleEvent(time.Now())
	ev.Intervals = nil

	if _, err := svc.Save(ev); err != ErrNoIntervals {
		t.Fatalf("expected ErrNoIntervals, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	t.Parallel()

	svc := setupService(t)
	older, err := svc.Save(sampleEvent(time.Date(2025, 3, 14, 18, 30, 0, 0, time.Local)))
	if err != nil {
		t.Fatalf("Save older failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	newer, err := svc.Save(sampleEvent(time.Date(2025, 4, 2, 19, 0, 0, 0, time.Local)))
	if err != nil {
		t.Fatalf("Save newer failed: %v", err)
	}

	list := svc.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 events, got %d", len(list))
	}
	if list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("expected newest first ordering, got %q then %q", list[0].ID, list[1].ID)
	}

	if err := svc.Delete(older.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(older.ID); err != ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound on second delete, got %v", err)
	}
}

func TestUpcoming_FiltersAndSortsByStart(t *testing.T) {
	t.Parallel()

	svc := setupService(t)
	past := time.Date(2020, 1, 10, 12, 0, 0, 0, time.Local)
	near := time.Date(2030, 1, 10, 12, 0, 0, 0, time.Local)
	far := time.Date(2031, 1, 10, 12, 0, 0, 0, time.Local)

	for _, start := range []time.Time{far, past, near} {
		if _, err := svc.Save(sampleEvent(start)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	upcoming := svc.Upcoming(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(upcoming))
	}
	if !upcoming[0].Intervals[0].Start.Equal(near) || !upcoming[1].Intervals[0].Start.Equal(far) {
		t.Fatal("expected soonest-first ordering")
	}
}

func TestNewService_LoadsPersistedEvents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	svc1, err := NewService(dir)
	if err != nil {
		t.Fatalf("first NewService failed: %v", err)
	}

	saved, err := svc1.Save(sampleEvent(time.Date(2025, 3, 14, 18, 30, 0, 0, time.Local)))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	svc2, err := NewService(dir)
	if err != nil {
		t.Fatalf("second NewService failed: %v", err)
	}

	loaded, err := svc2.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get on reloaded service failed: %v", err)
	}
	if loaded.Draft.Celebrant != saved.Draft.Celebrant {
		t.Fatalf("expected loaded celebrant %q, got %q", saved.Draft.Celebrant, loaded.Draft.Celebrant)
	}
}

func TestNewService_FailsOnInvalidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "events.json"), []byte("{invalid"), 0o644); err != nil {
		t.Fatalf("failed to write invalid events file: %v", err)
	}

	if _, err := NewService(dir); err == nil {
		t.Fatal("expected NewService to fail on invalid JSON")
	}
}
