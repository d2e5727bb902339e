package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/pkg/core/services"
	"github.com/yyw794/badminton-score/pkg/db"
)

// StatsCmd creates the stats command
func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [name]",
		Short: "View archived player statistics (all players when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}

			app.Logger.Debug("stats command", zap.String("name", name))

			playerStats, err := services.ViewPlayerStats(app.Ctx, app.Database, app.Logger, name)
			if err != nil {
				return err
			}
			if len(playerStats) == 0 {
				fmt.Println("No archived matches yet.")
				return nil
			}

			fmt.Println()
			fmt.Printf("%-10s %6s %7s %5s %7s %5s %5s %5s\n", "Player", "Events", "Matches", "Wins", "Win %", "男双", "女双", "混双")
			fmt.Println(strings.Repeat("-", 62))
			for _, s := range playerStats {
				fmt.Println(statsLine(s))
			}
			fmt.Println()

			return nil
		},
	}
}

func statsLine(s db.PlayerStats) string {
	return fmt.Sprintf("%-10s %6d %7d %5d %6.1f%% %5d %5d %5d",
		s.Name, s.Events, s.Matches, s.Wins, s.WinRate()*100, s.Mens, s.Womens, s.Mixed)
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history [count]",
		Short: fmt.Sprintf("List the most recent archived events (default %d)", services.DefaultHistoryLimit),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := services.DefaultHistoryLimit
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("count must be a positive integer, got: %s", args[0])
				}
				count = n
			}

			app.Logger.Debug("history command", zap.Int("count", count))

			events, err := services.ViewEventHistory(app.Ctx, app.Database, app.Logger, count)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No archived events yet.")
				return nil
			}

			fmt.Printf("\nLast %d events:\n\n", len(events))
			for _, e := range events {
				fmt.Printf("  %s  %-24s %2d courts %3d matches  (%s)\n", e.Date, e.Name, e.CourtCount, e.TotalMatches, e.ID)
			}
			fmt.Println()

			return nil
		},
	}
}

// EventCmd creates the event command
func EventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "event <event_id>",
		Short: "Show an archived event with its matches and scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := services.ViewEvent(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (%s)\n", details.Event.Name, details.Event.Date)
			fmt.Printf("Courts: %d | Matches: %d\n\n", details.Event.CourtCount, len(details.Matches))
			for _, m := range details.Matches {
				fmt.Println(matchLine(m))
			}
			fmt.Println()

			return nil
		},
	}
}

func matchLine(m db.Match) string {
	line := fmt.Sprintf("  R%d C%d %s  %s/%s vs %s/%s", m.Round, m.Court, m.Type, m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1])
	if m.TotalA()+m.TotalB() == 0 {
		return line + "  " + m.Status
	}
	return fmt.Sprintf("%s  %d-%d, %d-%d  %s", line, m.ScoreA[0], m.ScoreB[0], m.ScoreA[1], m.ScoreB[1], m.Status)
}

// DeleteEventCmd creates the deleteEvent command
func DeleteEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteEvent <event_id>",
		Short: "Delete an archived event and its matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteEvent(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("\n✓ Event %s deleted\n\n", args[0])
			return nil
		},
	}
}
