package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/internal/config"
	"github.com/yyw794/badminton-score/pkg/db"
	"github.com/yyw794/badminton-score/pkg/export/web"
)

// ErrEventExists is returned when an event with the same name and date is already archived
// and the import was asked neither to replace it nor to keep both
var ErrEventExists = errors.New("event already archived")

// updatedSuffix marks a second import of the same event kept alongside the first
const updatedSuffix = " (更新)"

// ImportMode decides what happens when the event is already archived
type ImportMode int

const (
	// ImportFailIfExists refuses to import over an archived event
	ImportFailIfExists ImportMode = iota
	// ImportReplace deletes the archived event first
	ImportReplace
	// ImportKeepBoth archives the import as a new event with an "(更新)" suffix
	ImportKeepBoth
)

// ImportScoresResult represents the result of importing a scored lineup
type ImportScoresResult struct {
	Event    *db.Event
	Finished int

	// Replaced is the ID of the event deleted in ImportReplace mode
	Replaced string
}

// ImportScores archives a lineup exported by the scorekeeping page, scores included.
// The event date comes from a YYYY-MM-DD in the event name, or today.
func ImportScores(ctx context.Context, store db.EventStore, cfg *config.Config, logger *zap.Logger, lineup *web.Lineup, mode ImportMode, today time.Time) (*ImportScoresResult, error) {
	if len(lineup.Matches) == 0 {
		return nil, fmt.Errorf("lineup %q has no matches", lineup.EventName)
	}

	eventName := lineup.EventName
	if eventName == "" {
		eventName = "未知活动"
	}
	date := eventDate(eventName, today)

	logger.Debug("Importing scores",
		zap.String("event", eventName),
		zap.String("date", date),
		zap.Int("matches", len(lineup.Matches)))

	result := &ImportScoresResult{}

	existing, err := store.FindEvent(ctx, eventName, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up event: %w", err)
	}
	if existing != nil {
		logger.Info("Event already archived", zap.String("event_id", existing.ID), zap.String("event", existing.Name))
		switch mode {
		case ImportReplace:
			if err := store.DeleteEvent(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to replace event: %w", err)
			}
			result.Replaced = existing.ID
		case ImportKeepBoth:
			eventName += updatedSuffix
		default:
			return nil, fmt.Errorf("%w: %s on %s (id %s)", ErrEventExists, eventName, date, existing.ID)
		}
	}

	matches, err := toDBMatches(lineup, db.StatusFinished)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.Status == db.StatusFinished {
			result.Finished++
		}
	}

	courtCount := lineup.CourtCount
	if courtCount <= 0 {
		courtCount = 3
	}

	event := &db.Event{Name: eventName, Date: date, CourtCount: courtCount}
	if err := store.SaveEvent(ctx, event, matches, directoryPlayers(cfg)); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	result.Event = event

	logger.Info("Scores imported",
		zap.String("event_id", event.ID),
		zap.String("event", event.Name),
		zap.Int("finished", result.Finished))

	return result, nil
}
