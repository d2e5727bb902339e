package services

import (
	"context"
	"fmt"

	"github.com/yyw794/badminton-score/pkg/clients/sheetsclient"
	"github.com/yyw794/badminton-score/pkg/db"
)

// mockEventStore keeps events in memory
type mockEventStore struct {
	events  []db.Event
	matches map[string][]db.Match
	players []db.Player
	stats   []db.PlayerStats
	deleted []string

	findErr error
	saveErr error
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{matches: make(map[string][]db.Match)}
}

func (m *mockEventStore) SaveEvent(ctx context.Context, event *db.Event, matches []db.Match, players []db.Player) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	db.AssignIDs(event, matches)
	m.events = append(m.events, *event)
	m.matches[event.ID] = matches
	m.players = players
	return nil
}

func (m *mockEventStore) GetEvents(ctx context.Context, limit int) ([]db.Event, error) {
	if limit < len(m.events) {
		return m.events[:limit], nil
	}
	return m.events, nil
}

func (m *mockEventStore) GetEventDetails(ctx context.Context, eventID string) (*db.EventDetails, error) {
	for _, e := range m.events {
		if e.ID == eventID {
			return &db.EventDetails{Event: e, Matches: m.matches[eventID]}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
}

func (m *mockEventStore) FindEvent(ctx context.Context, name, date string) (*db.Event, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].Name == name && m.events[i].Date == date {
			e := m.events[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *mockEventStore) DeleteEvent(ctx context.Context, eventID string) error {
	for i, e := range m.events {
		if e.ID == eventID {
			m.events = append(m.events[:i], m.events[i+1:]...)
			delete(m.matches, eventID)
			m.deleted = append(m.deleted, eventID)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", db.ErrEventNotFound, eventID)
}

func (m *mockEventStore) GetPlayerStats(ctx context.Context, name string) ([]db.PlayerStats, error) {
	if name == "" {
		return m.stats, nil
	}
	var out []db.PlayerStats
	for _, s := range m.stats {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out, nil
}

// mockPublisher records the published lineup
type mockPublisher struct {
	spreadsheetID string
	published     *sheetsclient.PublishedLineup
	err           error
}

func (m *mockPublisher) PublishLineup(ctx context.Context, spreadsheetID string, lineup *sheetsclient.PublishedLineup) error {
	m.spreadsheetID = spreadsheetID
	m.published = lineup
	return m.err
}
