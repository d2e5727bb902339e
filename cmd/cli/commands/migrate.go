package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrationLister is implemented by archives that record applied steps by name
type migrationLister interface {
	AppliedMigrations(ctx context.Context) ([]string, error)
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Database.RunMigrations(app.Ctx); err != nil {
				return err
			}

			if lister, ok := app.Database.(migrationLister); ok {
				applied, err := lister.AppliedMigrations(app.Ctx)
				if err != nil {
					return err
				}
				app.Logger.Debug("Applied migrations", zap.Strings("migrations", applied))
				fmt.Printf("\n✓ Database schema is up to date (%s, %d migrations applied)\n\n", app.Cfg.Database.Driver, len(applied))
				return nil
			}

			fmt.Printf("\n✓ Database schema is up to date (%s)\n\n", app.Cfg.Database.Driver)
			return nil
		},
	}
}
