package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/pkg/core/services"
	"github.com/yyw794/badminton-score/pkg/export/web"
)

// ImportScoresCmd creates the importScores command
func ImportScoresCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importScores <file.json>",
		Short: "Archive the scores exported from the scorekeeping page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")
			keepBoth, _ := cmd.Flags().GetBool("keep-both")

			mode, err := importMode(replace, keepBoth)
			if err != nil {
				return err
			}

			app.Logger.Debug("importScores command", zap.String("file", args[0]), zap.Int("mode", int(mode)))

			lineup, err := web.Load(args[0])
			if err != nil {
				return err
			}

			result, err := services.ImportScores(app.Ctx, app.Database, app.Cfg, app.Logger, lineup, mode, time.Now())
			if errors.Is(err, services.ErrEventExists) {
				return fmt.Errorf("%w\nrerun with --replace to overwrite it or --keep-both to archive a second copy", err)
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Scores imported!\n\n")
			fmt.Printf("Event:    %s\n", result.Event.Name)
			fmt.Printf("Event ID: %s\n", result.Event.ID)
			fmt.Printf("Date:     %s\n", result.Event.Date)
			fmt.Printf("Matches:  %d (%d finished)\n", result.Event.TotalMatches, result.Finished)
			if result.Replaced != "" {
				fmt.Printf("Replaced: %s\n", result.Replaced)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("replace", false, "Replace an archived event with the same name and date")
	cmd.Flags().Bool("keep-both", false, "Keep an archived event with the same name and date and add this one alongside")

	return cmd
}

func importMode(replace, keepBoth bool) (services.ImportMode, error) {
	switch {
	case replace && keepBoth:
		return 0, errors.New("--replace and --keep-both cannot be used together")
	case replace:
		return services.ImportReplace, nil
	case keepBoth:
		return services.ImportKeepBoth, nil
	default:
		return services.ImportFailIfExists, nil
	}
}
