package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/services"
	"github.com/yyw794/badminton-score/pkg/core/stats"
)

const (
	defaultWorkbookPath = "对阵表.xlsx"
	defaultJSONPath     = "data.json"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <signup.txt>",
		Short: "Generate the lineup for the next session from a signup list",
		Long: `Generate the lineup for the next session from a pasted signup list.

The signup file holds one name per line. Numbering such as "3." and date headers are ignored.
The workbook and the scorekeeping JSON are written unless --dry-run is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			out, _ := cmd.Flags().GetString("out")
			jsonOut, _ := cmd.Flags().GetString("json")
			save, _ := cmd.Flags().GetBool("save")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read signup list: %w", err)
			}

			app.Logger.Debug("generate command",
				zap.String("signup", args[0]),
				zap.Int64("seed", seed),
				zap.Bool("save", save),
				zap.Bool("dry_run", dryRun))

			opts := services.GenerateLineupOptions{
				SignupText: string(text),
				Seed:       seed,
				From:       time.Now(),
			}
			if !dryRun {
				opts.ExcelPath = out
				opts.JSONPath = jsonOut
				opts.Save = save
			}

			result, err := services.GenerateLineup(app.Ctx, app.Database, app.Cfg, app.Logger, opts)
			if err != nil {
				return err
			}

			printLineup(result)

			fmt.Printf("Seed: %d (rerun with --seed %d for the same lineup)\n", seed, seed)
			if dryRun {
				fmt.Println("Dry run: nothing written")
			} else {
				fmt.Printf("Workbook: %s\n", out)
				fmt.Printf("JSON:     %s\n", jsonOut)
			}
			if result.Event != nil {
				fmt.Printf("Archived as event %s\n", result.Event.ID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for random decisions (random when unset)")
	cmd.Flags().String("out", defaultWorkbookPath, "Path of the lineup workbook")
	cmd.Flags().String("json", defaultJSONPath, "Path of the scorekeeping JSON")
	cmd.Flags().Bool("save", false, "Archive the unscored lineup in the database")
	cmd.Flags().Bool("dry-run", false, "Print the lineup without writing files or saving")

	return cmd
}

func printLineup(result *services.GenerateLineupResult) {
	outcome := result.Outcome

	fmt.Printf("\n%s\n", result.EventName)
	fmt.Printf("Courts: %d | Players: %d", result.CourtCount, result.Signup.Players())
	fmt.Printf(" | Matches: %d/%d\n", len(outcome.Matches), outcome.Requested)

	if len(result.Signup.Unknown) > 0 {
		fmt.Printf("⚠️  Not in the player list: %s\n", strings.Join(result.Signup.Unknown, ", "))
	}
	if !outcome.Complete {
		fmt.Println("⚠️  Not enough eligible players to fill every court")
	}
	fmt.Println()

	round := 0
	for _, m := range outcome.Matches {
		if m.Round != round {
			round = m.Round
			fmt.Printf("Round %d\n", round)
		}
		fmt.Printf("  Court %d  %s  %s vs %s\n", m.Court, m.Type.DisplayName(), m.TeamA, m.TeamB)
	}
	fmt.Println()

	printSummary(result.Summary)

	for _, verr := range outcome.ValidationErrors {
		fmt.Printf("⚠️  %s\n", validationLine(verr))
	}
}

func printSummary(summary *stats.Summary) {
	fmt.Printf("%-10s %5s %5s %5s %5s\n", "Player", "Total",
		allocator.MensDoubles.DisplayName(),
		allocator.WomensDoubles.DisplayName(),
		allocator.MixedDoubles.DisplayName())
	for _, p := range summary.Players {
		fmt.Printf("%-10s %5d %5d %5d %5d\n", p.Name, p.Total,
			p.ByType[allocator.MensDoubles],
			p.ByType[allocator.WomensDoubles],
			p.ByType[allocator.MixedDoubles])
	}
	fmt.Println()
}

func validationLine(verr allocator.MatchValidationError) string {
	if verr.Round > 0 {
		return fmt.Sprintf("[%s] round %d: %s", verr.CriterionName, verr.Round, verr.Description)
	}
	return fmt.Sprintf("[%s] %s", verr.CriterionName, verr.Description)
}
