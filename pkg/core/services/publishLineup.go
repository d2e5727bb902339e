package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/internal/config"
	"github.com/yyw794/badminton-score/pkg/clients/sheetsclient"
	"github.com/yyw794/badminton-score/pkg/export/excel"
	"github.com/yyw794/badminton-score/pkg/export/web"
)

// LineupPublisher defines the sheets operations needed to publish a lineup
type LineupPublisher interface {
	PublishLineup(ctx context.Context, spreadsheetID string, lineup *sheetsclient.PublishedLineup) error
}

// PublishLineup pushes a lineup to a Google Sheet tab named after the event
func PublishLineup(ctx context.Context, publisher LineupPublisher, cfg *config.Config, logger *zap.Logger, lineup *web.Lineup) (*sheetsclient.PublishedLineup, error) {
	if cfg.Publish.SpreadsheetID == "" {
		return nil, errors.New("publish.spreadsheetID is not configured")
	}

	published := &sheetsclient.PublishedLineup{
		Title: lineup.EventName,
		Info: excel.Options{
			CourtCount:    lineup.CourtCount,
			DurationHours: cfg.Session.DurationHours,
			Format:        cfg.Session.Format,
		}.InfoLine(),
		Matches: make([]sheetsclient.PublishedMatch, 0, len(lineup.Matches)),
	}

	for _, m := range lineup.Matches {
		pm := sheetsclient.PublishedMatch{
			Round: m.Round,
			Court: m.Court,
			Type:  m.Type,
			TeamA: strings.Join(m.TeamA, "/"),
			TeamB: strings.Join(m.TeamB, "/"),
		}
		if m.HasScore() {
			pm.ScoreA = fmt.Sprintf("%d/%d", m.ScoreA[0], m.ScoreA[1])
			pm.ScoreB = fmt.Sprintf("%d/%d", m.ScoreB[0], m.ScoreB[1])
		}
		published.Matches = append(published.Matches, pm)
	}

	logger.Debug("Publishing lineup",
		zap.String("spreadsheet_id", cfg.Publish.SpreadsheetID),
		zap.String("tab", published.Title),
		zap.Int("matches", len(published.Matches)))

	if err := publisher.PublishLineup(ctx, cfg.Publish.SpreadsheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish lineup: %w", err)
	}

	logger.Info("Lineup published", zap.String("tab", published.Title))
	return published, nil
}
