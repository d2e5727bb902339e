package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/pkg/core/services"
	"github.com/yyw794/badminton-score/pkg/export/web"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <file.json>",
		Short: "Publish a lineup to the configured Google Sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("publish command", zap.String("file", args[0]))

			lineup, err := web.Load(args[0])
			if err != nil {
				return err
			}

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishLineup(app.Ctx, client, app.Cfg, app.Logger, lineup)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Lineup published to tab %q (%d matches)\n\n", published.Title, len(published.Matches))
			return nil
		},
	}
}
