package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/services"
	"github.com/yyw794/badminton-score/pkg/db"
)

func TestImportMode(t *testing.T) {
	tests := []struct {
		name     string
		replace  bool
		keepBoth bool
		expected services.ImportMode
		wantErr  bool
	}{
		{"default fails if exists", false, false, services.ImportFailIfExists, false},
		{"replace", true, false, services.ImportReplace, false},
		{"keep both", false, true, services.ImportKeepBoth, false},
		{"both flags", true, true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := importMode(tt.replace, tt.keepBoth)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}

func TestMatchLine(t *testing.T) {
	m := db.Match{
		Round: 2, Court: 1, Type: "混双",
		TeamA: [2]string{"林锋", "田茜"}, TeamB: [2]string{"王小波", "高洁"},
		Status: db.StatusPending,
	}
	assert.Equal(t, "  R2 C1 混双  林锋/田茜 vs 王小波/高洁  pending", matchLine(m))

	m.ScoreA = [2]int{15, 13}
	m.ScoreB = [2]int{11, 15}
	m.Status = db.StatusFinished
	assert.Equal(t, "  R2 C1 混双  林锋/田茜 vs 王小波/高洁  15-11, 13-15  finished", matchLine(m))
}

func TestStatsLine(t *testing.T) {
	line := statsLine(db.PlayerStats{Name: "林锋", Events: 2, Matches: 8, Wins: 6, Mens: 3, Mixed: 5})
	assert.Contains(t, line, "75.0%")
	assert.True(t, strings.HasPrefix(line, "林锋"))
}

func TestValidationLine(t *testing.T) {
	assert.Equal(t, "[NoIdle] 田茜 was not scheduled",
		validationLine(allocator.MatchValidationError{CriterionName: "NoIdle", Description: "田茜 was not scheduled"}))
	assert.Equal(t, "[EarlyDeparture] round 4: 林锋 plays after leaving",
		validationLine(allocator.MatchValidationError{CriterionName: "EarlyDeparture", Round: 4, Court: 2, Description: "林锋 plays after leaving"}))
}

func newTestRoot() (*cobra.Command, *[]string) {
	var calls []string
	root := &cobra.Command{Use: "lineup"}

	importScores := &cobra.Command{
		Use:  "importScores <file.json>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			call := "importScores:" + strings.Join(args, ",")
			if replace, _ := cmd.Flags().GetBool("replace"); replace {
				call += ":replace"
			}
			calls = append(calls, call)
			return nil
		},
	}
	importScores.Flags().Bool("replace", false, "")

	root.AddCommand(importScores)
	root.AddCommand(InteractiveCmd(&AppContext{}))
	return root, &calls
}

func TestSiblingCommands_SkipsInteractive(t *testing.T) {
	root, _ := newTestRoot()
	interactive, _, err := root.Find([]string{"interactive"})
	require.NoError(t, err)

	commands := siblingCommands(interactive)
	assert.Contains(t, commands, "importScores")
	assert.NotContains(t, commands, "interactive")
}

func TestRunSession(t *testing.T) {
	root, calls := newTestRoot()
	interactive, _, err := root.Find([]string{"interactive"})
	require.NoError(t, err)

	input := strings.Join([]string{
		"",
		"importScores a.json --replace",
		"importScores b.json",
		"importScores",
		"unknown",
		"help",
		"quit",
		"importScores c.json",
	}, "\n")

	require.NoError(t, runSession(strings.NewReader(input), siblingCommands(interactive)))

	// Flags reset between runs; the arg error and the unknown command don't stop the session
	assert.Equal(t, []string{"importScores:a.json:replace", "importScores:b.json"}, *calls)
}
