package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Elistein70/simcha-manager/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrEventNotFound      = errors.New("event not found")
	ErrNoIntervals        = errors.New("event has no calendar intervals")
)

// Service manages the persisted simcha list. Storage is a single JSON file,
// appended to once per saved decision.
type Service struct {
	mu     sync.RWMutex
	path   string
	events map[string]models.Event
}

// NewService creates an events service storing data inside the provided directory.
func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create events dir: %w", err)
	}

	svc := &Service{
		path:   filepath.Join(storageDir, "events.json"),
		events: make(map[string]models.Event),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	return svc, nil
}

// Save persists a resolved event, assigning its ID and creation time.
func (s *Service) Save(event models.Event) (models.Event, error) {
	if len(event.Intervals) == 0 {
		return models.Event{}, ErrNoIntervals
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()
	s.events[event.ID] = event

	if err := s.saveLocked(); err != nil {
		delete(s.events, event.ID)
		return models.Event{}, err
	}

	return event, nil
}

// Get returns a single saved event by ID.
func (s *Service) Get(id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return models.Event{}, ErrEventNotFound
	}
	return event, nil
}

// List returns all saved events, sorted by creation time (newest first).
func (s *Service) List() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		list = append(list, e)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return list
}

// Upcoming returns saved events whose start is on or after the given time,
// soonest first.
func (s *Service) Upcoming(after time.Time) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Event
	for _, e := range s.events {
		if len(e.Intervals) > 0 && !e.Intervals[0].Start.Before(after) {
			list = append(list, e)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Intervals[0].Start.Before(list[j].Intervals[0].Start)
	})

	return list
}

// Delete removes a saved event.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return ErrEventNotFound
	}

	delete(s.events, id)
	return s.saveLocked()
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer file.Close()

	var stored []models.Event
	if err := json.NewDecoder(file).Decode(&stored); err != nil {
		return fmt.Errorf("decode events: %w", err)
	}

	s.events = make(map[string]models.Event, len(stored))
	for _, e := range stored {
		if strings.TrimSpace(e.ID) == "" {
			continue
		}
		s.events[e.ID] = e
	}

	return nil
}

func (s *Service) saveLocked() error {
	list := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		list = append(list, e)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create events temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode events: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync events: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close events temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace events file: %w", err)
	}

	return nil
}
