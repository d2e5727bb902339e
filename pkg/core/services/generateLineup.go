package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yyw794/badminton-score/internal/config"
	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/stats"
	"github.com/yyw794/badminton-score/pkg/db"
	"github.com/yyw794/badminton-score/pkg/export/excel"
	"github.com/yyw794/badminton-score/pkg/export/web"
	"github.com/yyw794/badminton-score/pkg/signup"
)

// GenerateLineupOptions controls one lineup generation
type GenerateLineupOptions struct {
	SignupText string
	Seed       int64

	// From is the earliest session date; the session rrule picks the actual day
	From time.Time

	// ExcelPath and JSONPath are skipped when empty
	ExcelPath string
	JSONPath  string

	// Save archives the unscored lineup as a new event
	Save bool
}

// GenerateLineupResult represents the result of generating a lineup
type GenerateLineupResult struct {
	EventName  string
	EventDate  string
	CourtCount int
	Signup     *signup.Result
	Outcome    *allocator.AllocationOutcome
	Summary    *stats.Summary
	Lineup     *web.Lineup

	// Event is set when the lineup was archived
	Event *db.Event
}

// GenerateLineup parses the signup list, allocates the lineup, writes the exports
// concurrently and optionally archives the event
func GenerateLineup(ctx context.Context, store db.EventStore, cfg *config.Config, logger *zap.Logger, opts GenerateLineupOptions) (*GenerateLineupResult, error) {
	logger.Debug("Generating lineup", zap.Int64("seed", opts.Seed), zap.Bool("save", opts.Save))

	parsed, err := signup.Parse(opts.SignupText, signup.Directory{
		Males:   cfg.Players.Males,
		Females: cfg.Players.Females,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse signup list: %w", err)
	}
	for _, name := range parsed.Unknown {
		logger.Warn("Ignoring unknown player in signup list", zap.String("name", name))
	}
	for _, name := range parsed.Duplicates {
		logger.Info("Player signed up more than once", zap.String("name", name))
	}
	if parsed.Players() < 4 {
		return nil, fmt.Errorf("need at least 4 known players, got %d", parsed.Players())
	}

	courtCount := cfg.Schedule.CourtCount
	if courtCount == 0 {
		courtCount = signup.CourtCountFor(parsed.Players())
		logger.Debug("Derived court count from signup", zap.Int("players", parsed.Players()), zap.Int("courts", courtCount))
	}

	sessionDate, err := cfg.NextSession(opts.From)
	if err != nil {
		return nil, err
	}
	eventName := cfg.EventName(sessionDate)

	allocConfig, err := cfg.ToAllocationConfig(parsed.Roster, courtCount, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to build allocation config: %w", err)
	}
	allocConfig.Logger = logger

	outcome, err := allocator.Allocate(allocConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate lineup: %w", err)
	}

	if !outcome.Complete {
		logger.Warn("Lineup is shorter than requested",
			zap.Int("requested", outcome.Requested),
			zap.Int("scheduled", len(outcome.Matches)))
	}
	for _, verr := range outcome.ValidationErrors {
		logger.Warn("Lineup validation",
			zap.String("criterion", verr.CriterionName),
			zap.Int("round", verr.Round),
			zap.String("description", verr.Description))
	}

	summary := stats.Summarise(outcome.Matches, parsed.Roster)
	lineup := web.FromSchedule(eventName, courtCount, outcome.Matches, summary, time.Now())

	result := &GenerateLineupResult{
		EventName:  eventName,
		EventDate:  sessionDate.Format(dateLayout),
		CourtCount: courtCount,
		Signup:     parsed,
		Outcome:    outcome,
		Summary:    summary,
		Lineup:     lineup,
	}

	if err := writeExports(ctx, cfg, logger, opts, result); err != nil {
		return nil, err
	}

	if opts.Save {
		event, err := archiveLineup(ctx, store, cfg, logger, result)
		if err != nil {
			return nil, err
		}
		result.Event = event
	}

	return result, nil
}

// writeExports writes the workbook and the JSON lineup concurrently
func writeExports(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts GenerateLineupOptions, result *GenerateLineupResult) error {
	g, _ := errgroup.WithContext(ctx)

	if opts.ExcelPath != "" {
		g.Go(func() error {
			excelOpts := excel.Options{
				Title:         fmt.Sprintf("%s - 对阵表", result.EventName),
				CourtCount:    result.CourtCount,
				DurationHours: cfg.Session.DurationHours,
				Format:        cfg.Session.Format,
			}
			if err := excel.Save(opts.ExcelPath, excelOpts, result.Outcome.Matches, result.Summary); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			logger.Info("Workbook written", zap.String("path", opts.ExcelPath))
			return nil
		})
	}

	if opts.JSONPath != "" {
		g.Go(func() error {
			if err := web.Save(opts.JSONPath, result.Lineup); err != nil {
				return fmt.Errorf("failed to write lineup json: %w", err)
			}
			logger.Info("Lineup JSON written", zap.String("path", opts.JSONPath))
			return nil
		})
	}

	return g.Wait()
}

func archiveLineup(ctx context.Context, store db.EventStore, cfg *config.Config, logger *zap.Logger, result *GenerateLineupResult) (*db.Event, error) {
	matches, err := toDBMatches(result.Lineup, db.StatusPending)
	if err != nil {
		return nil, err
	}

	event := &db.Event{
		Name:       result.EventName,
		Date:       result.EventDate,
		CourtCount: result.CourtCount,
	}
	if err := store.SaveEvent(ctx, event, matches, directoryPlayers(cfg)); err != nil {
		return nil, fmt.Errorf("failed to archive lineup: %w", err)
	}

	logger.Info("Lineup archived", zap.String("event_id", event.ID), zap.String("event", event.Name))
	return event, nil
}
