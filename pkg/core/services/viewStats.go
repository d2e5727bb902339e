package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/pkg/db"
)

// DefaultHistoryLimit is the number of events listed when no count is given
const DefaultHistoryLimit = 10

// ViewPlayerStats returns archived statistics for one player, or for every player when name is empty
func ViewPlayerStats(ctx context.Context, store db.StatsStore, logger *zap.Logger, name string) ([]db.PlayerStats, error) {
	logger.Debug("Fetching player stats", zap.String("name", name))

	stats, err := store.GetPlayerStats(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player stats: %w", err)
	}
	if name != "" && len(stats) == 0 {
		return nil, fmt.Errorf("no archived matches for player %s", name)
	}

	logger.Debug("Player stats fetched", zap.Int("players", len(stats)))
	return stats, nil
}

// ViewEventHistory returns the most recent archived events, newest first
func ViewEventHistory(ctx context.Context, store db.EventStore, logger *zap.Logger, limit int) ([]db.Event, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	logger.Debug("Fetching event history", zap.Int("limit", limit))

	events, err := store.GetEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// ViewEvent returns an archived event with its matches
func ViewEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, eventID string) (*db.EventDetails, error) {
	logger.Debug("Fetching event", zap.String("event_id", eventID))

	details, err := store.GetEventDetails(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	return details, nil
}

// DeleteEvent removes an archived event
func DeleteEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, eventID string) error {
	if err := store.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	logger.Info("Event deleted", zap.String("event_id", eventID))
	return nil
}
