// Package export writes ranking results to Excel workbooks.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/recruitment-manager/internal/types"
)

// Sheet names
const (
	SummarySheet  = "Summary"
	RankingsSheet = "Rankings"
)

// RankingHeaders are the column titles of the rankings sheet
var RankingHeaders = []string{
	"Rank", "Resume", "Score", "Recommendation", "Matched Skills",
	"Missing Skills", "Experience", "Education", "Error",
}

// score bands used for row colors, matching the recommendation thresholds
var bandColors = []struct {
	min   float64
	color string
}{
	{80, "C6EFCE"},
	{65, "E2EFDA"},
	{50, "FFEB9C"},
	{0, "FFC7CE"},
}

// WriteRankings saves results, already in rank order, to an .xlsx file and
// returns the path written. ".xlsx" is appended when missing.
func WriteRankings(path, jdLabel string, results []types.SimilarityResult) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(RankingsSheet); err != nil {
		return "", fmt.Errorf("failed to create rankings sheet: %w", err)
	}

	if err := writeSummary(f, jdLabel, results); err != nil {
		return "", fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeRankings(f, results); err != nil {
		return "", fmt.Errorf("failed to write rankings sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func writeSummary(f *excelize.File, jdLabel string, results []types.SimilarityResult) error {
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 50); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	scored := 0
	var total, best float64
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		scored++
		total += r.Score
		if r.Score > best {
			best = r.Score
		}
	}
	average := 0.0
	if scored > 0 {
		average = total / float64(scored)
	}

	rows := [][2]any{
		{"Job Description:", jdLabel},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Resumes Ranked:", len(results)},
		{"Failed:", len(results) - scored},
		{"Average Score:", fmt.Sprintf("%.2f", average)},
		{"Highest Score:", fmt.Sprintf("%.2f", best)},
	}
	for i, kv := range rows {
		label := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(SummarySheet, label, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeRankings(f *excelize.File, results []types.SimilarityResult) error {
	widths := []float64{8, 30, 10, 38, 40, 30, 14, 14, 30}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(RankingsSheet, col, col, w); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	bandStyles := make([]int, len(bandColors))
	for i, band := range bandColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{band.color}, Pattern: 1},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		})
		if err != nil {
			return err
		}
		bandStyles[i] = style
	}

	header := make([]any, len(RankingHeaders))
	for i, h := range RankingHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(RankingsSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(RankingHeaders))
	if err := f.SetCellStyle(RankingsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, r := range results {
		row := i + 2
		values := []any{i + 1, r.Resume, r.Score, "", "", "", "", "", r.Error}
		if a := r.Analysis; a != nil {
			values[3] = a.Recommendation
			values[4] = strings.Join(a.MatchedSkills, ", ")
			values[5] = strings.Join(a.MissingSkills, ", ")
			values[6] = a.ExperienceYears
			values[7] = a.Education
		}

		start := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(RankingsSheet, start, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(RankingsSheet, start, fmt.Sprintf("%s%d", lastCol, row), bandStyle(r.Score, bandStyles)); err != nil {
			return err
		}
	}

	if len(results) > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(results)+1)
		if err := f.AutoFilter(RankingsSheet, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(RankingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func bandStyle(score float64, styles []int) int {
	for i, band := range bandColors {
		if score >= band.min {
			return styles[i]
		}
	}
	return styles[len(styles)-1]
}
