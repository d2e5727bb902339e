// Package excel renders a lineup as a printable workbook.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/stats"
)

const (
	LineupSheet = "对阵表"
	StatsSheet  = "球员统计"

	fontFamily  = "微软雅黑"
	headerColor = "#C6EFCE"
)

// Options controls the title and info rows of the lineup sheet
type Options struct {
	Title         string
	CourtCount    int
	DurationHours float64
	Format        string
}

// LineupHeaders are the column headers of the lineup sheet
var LineupHeaders = []string{"轮次", "场地", "类型", "对阵 A", "比分 A", "比分 B", "对阵 B"}

// StatsHeaders are the column headers of the player statistics sheet
var StatsHeaders = []string{"姓名", "总场次", "男双", "女双", "混双"}

// Generate creates a workbook with the lineup sheet and a per-player statistics sheet.
func Generate(opts Options, matches []allocator.ScheduledMatch, summary *stats.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", LineupSheet); err != nil {
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}

	if err := writeLineupSheet(f, opts, matches); err != nil {
		return nil, fmt.Errorf("writing lineup sheet: %w", err)
	}

	if summary != nil {
		if err := writeStatsSheet(f, summary); err != nil {
			return nil, fmt.Errorf("writing stats sheet: %w", err)
		}
	}

	return f, nil
}

// Save generates the workbook and writes it to path
func Save(path string, opts Options, matches []allocator.ScheduledMatch, summary *stats.Summary) error {
	f, err := Generate(opts, matches, summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook to %s: %w", path, err)
	}
	return nil
}

// InfoLine describes the session below the title
func (o Options) InfoLine() string {
	return fmt.Sprintf("场地数：%d个 | 时长：%g 小时 | 赛制：%s | 项目：男双、女双、混双", o.CourtCount, o.DurationHours, o.Format)
}

type styles struct {
	title   int
	info    int
	header  int
	content int
}

func newStyles(f *excelize.File, titleSize float64) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: titleSize, Family: fontFamily},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.info, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10, Family: fontFamily},
		Alignment: center,
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Family: fontFamily},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerColor}},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.content, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10, Family: fontFamily},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, err
	}
	return s, nil
}

func writeLineupSheet(f *excelize.File, opts Options, matches []allocator.ScheduledMatch) error {
	sheet := LineupSheet
	st, err := newStyles(f, 18)
	if err != nil {
		return err
	}

	lastCol := colLetter(len(LineupHeaders))

	// Title and info rows span every column
	f.MergeCell(sheet, "A1", lastCol+"1")
	f.SetCellValue(sheet, "A1", opts.Title)
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)

	f.MergeCell(sheet, "A2", lastCol+"2")
	f.SetCellValue(sheet, "A2", opts.InfoLine())
	f.SetCellStyle(sheet, "A2", lastCol+"2", st.info)

	for i, h := range LineupHeaders {
		f.SetCellValue(sheet, cellRef(i+1, 3), h)
	}
	f.SetCellStyle(sheet, "A3", lastCol+"3", st.header)

	for i, m := range matches {
		row := i + 4
		f.SetCellValue(sheet, cellRef(1, row), m.Round)
		f.SetCellValue(sheet, cellRef(2, row), fmt.Sprintf("%d号", m.Court))
		f.SetCellValue(sheet, cellRef(3, row), m.Type.DisplayName())
		f.SetCellValue(sheet, cellRef(4, row), m.TeamA.String())
		f.SetCellValue(sheet, cellRef(5, row), "")
		f.SetCellValue(sheet, cellRef(6, row), "")
		f.SetCellValue(sheet, cellRef(7, row), m.TeamB.String())
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(LineupHeaders), row), st.content)
	}

	widths := []float64{7, 9, 9, 22, 12, 12, 22}
	for i, w := range widths {
		col := colLetter(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	for row := 1; row <= len(matches)+3; row++ {
		f.SetRowHeight(sheet, row, 32)
	}

	// A4 landscape with narrow margins so a full session fits one page
	size := 9
	orientation := "landscape"
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{Size: &size, Orientation: &orientation}); err != nil {
		return fmt.Errorf("setting page layout: %w", err)
	}
	side, topBottom := 0.3, 0.5
	if err := f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left:   &side,
		Right:  &side,
		Top:    &topBottom,
		Bottom: &topBottom,
	}); err != nil {
		return fmt.Errorf("setting page margins: %w", err)
	}

	return nil
}

func writeStatsSheet(f *excelize.File, summary *stats.Summary) error {
	sheet := StatsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st, err := newStyles(f, 14)
	if err != nil {
		return err
	}

	lastCol := colLetter(len(StatsHeaders))
	f.MergeCell(sheet, "A1", lastCol+"1")
	f.SetCellValue(sheet, "A1", "球员参赛场次统计")
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)

	for i, h := range StatsHeaders {
		f.SetCellValue(sheet, cellRef(i+1, 2), h)
	}
	f.SetCellStyle(sheet, "A2", lastCol+"2", st.header)

	for i, p := range summary.Players {
		row := i + 3
		f.SetCellValue(sheet, cellRef(1, row), p.Name)
		f.SetCellValue(sheet, cellRef(2, row), p.Total)
		f.SetCellValue(sheet, cellRef(3, row), p.ByType[allocator.MensDoubles])
		f.SetCellValue(sheet, cellRef(4, row), p.ByType[allocator.WomensDoubles])
		f.SetCellValue(sheet, cellRef(5, row), p.ByType[allocator.MixedDoubles])
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(StatsHeaders), row), st.content)
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", lastCol, 10)

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
