package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Lineup column headers, matching the printed workbook
var lineupHeader = []interface{}{"轮次", "场地", "类型", "对阵 A", "比分 A", "比分 B", "对阵 B"}

const (
	scoreACol = 4
	scoreBCol = 5
	teamACol  = 3
	teamBCol  = 6

	// Rows above the first match: title, info line and header
	lineupHeaderRows = 3
)

// PublishedMatch is one row of a published lineup
type PublishedMatch struct {
	Round  int
	Court  int
	Type   string // 男双, 女双 or 混双
	TeamA  string // "Alan/Emma"
	TeamB  string
	ScoreA string // Blank until scores are entered
	ScoreB string
}

// PublishedLineup is the content of one lineup tab
type PublishedLineup struct {
	Title   string // Tab title, normally the event name
	Info    string
	Matches []PublishedMatch
}

// PublishLineup writes a lineup to a tab named after the event.
// A new tab is created when missing. Republishing an existing tab keeps scores
// already typed into rows whose teams are unchanged.
func (c *Client) PublishLineup(ctx context.Context, spreadsheetID string, lineup *PublishedLineup) error {
	exists, err := c.hasTab(ctx, spreadsheetID, lineup.Title)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = c.readTab(ctx, spreadsheetID, lineup.Title)
		if err != nil {
			return err
		}
	} else if err := c.addTab(ctx, spreadsheetID, lineup.Title); err != nil {
		return err
	}

	valueRange := &sheets.ValueRange{
		Values: BuildLineupRows(lineup, existing),
	}

	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, tabRange(lineup.Title, "A1"), valueRange).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write lineup: %w", err)
	}

	return nil
}

func (c *Client) hasTab(ctx context.Context, spreadsheetID, title string) (bool, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// readTab returns the lineup columns of an existing tab, scores included
func (c *Client) readTab(ctx context.Context, spreadsheetID, title string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, tabRange(title, "A1:G")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read existing tab data: %w", err)
	}
	return resp.Values, nil
}

func (c *Client) addTab(ctx context.Context, spreadsheetID, title string) error {
	update := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create tab %q: %w", title, err)
	}
	return nil
}

// tabRange quotes the tab title since event names contain spaces
func tabRange(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}

// BuildLineupRows lays out the tab: title, info, header, then one row per match.
// Scores are carried over from existing rows at the same position with the same teams.
func BuildLineupRows(lineup *PublishedLineup, existing [][]interface{}) [][]interface{} {
	rows := [][]interface{}{
		{lineup.Title},
		{lineup.Info},
		lineupHeader,
	}

	for i, m := range lineup.Matches {
		scoreA, scoreB := m.ScoreA, m.ScoreB
		if old := existingRow(existing, i+lineupHeaderRows); old != nil &&
			cellString(old, teamACol) == m.TeamA && cellString(old, teamBCol) == m.TeamB {
			if scoreA == "" {
				scoreA = cellString(old, scoreACol)
			}
			if scoreB == "" {
				scoreB = cellString(old, scoreBCol)
			}
		}

		rows = append(rows, []interface{}{
			m.Round,
			fmt.Sprintf("%d号", m.Court),
			m.Type,
			m.TeamA,
			scoreA,
			scoreB,
			m.TeamB,
		})
	}

	// Blank out leftover rows from a longer previous lineup
	for i := len(rows); i < len(existing); i++ {
		rows = append(rows, make([]interface{}, len(lineupHeader)))
		for j := range rows[i] {
			rows[i][j] = ""
		}
	}

	return rows
}

func existingRow(existing [][]interface{}, index int) []interface{} {
	if index < len(existing) {
		return existing[index]
	}
	return nil
}

func cellString(row []interface{}, col int) string {
	if col >= len(row) {
		return ""
	}
	if s, ok := row[col].(string); ok {
		return s
	}
	return fmt.Sprint(row[col])
}
