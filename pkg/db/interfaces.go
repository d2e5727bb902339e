package db

import (
	"context"
	"errors"
)

// ErrEventNotFound is returned when an event ID does not exist
var ErrEventNotFound = errors.New("event not found")

// EventStore defines the interface for event archive operations
type EventStore interface {
	// SaveEvent stores the event, its matches, any new players and the derived
	// participations in one transaction. Empty IDs are filled in on event and matches
	// only when the save succeeds.
	SaveEvent(ctx context.Context, event *Event, matches []Match, players []Player) error
	GetEvents(ctx context.Context, limit int) ([]Event, error)
	GetEventDetails(ctx context.Context, eventID string) (*EventDetails, error)
	// FindEvent returns nil without error when no event matches
	FindEvent(ctx context.Context, name, date string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// StatsStore defines the interface for player statistics queries
type StatsStore interface {
	// GetPlayerStats returns every player when name is empty
	GetPlayerStats(ctx context.Context, name string) ([]PlayerStats, error)
}

// Database defines the interface for all database operations.
// Both the SQLite-backed sqlite.DB and postgres.DB implement this interface.
type Database interface {
	EventStore
	StatsStore
	RunMigrations(ctx context.Context) error
	Close()
}
