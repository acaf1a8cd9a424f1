package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/clinch/internal/config"
	"github.com/derekprior/clinch/internal/league"
	"github.com/derekprior/clinch/internal/scenario"
	"github.com/derekprior/clinch/internal/standings"
)

// Generate creates an Excel workbook for one analysis: a summary sheet, the
// example qualifying scenario, and the current standings.
func Generate(lg *league.League, an *scenario.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := writeAnalysisSheet(f, lg, an); err != nil {
		return nil, fmt.Errorf("writing analysis sheet: %w", err)
	}
	if an.Example != nil {
		if err := writeExampleSheet(f, lg, an.Example); err != nil {
			return nil, fmt.Errorf("writing example sheet: %w", err)
		}
	}
	if err := writeStandingsSheet(f, lg); err != nil {
		return nil, fmt.Errorf("writing standings sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), style)
		}
	}
}

func matchupText(lg *league.League, mi int) string {
	m := lg.Matchups()[mi]
	return fmt.Sprintf("%s vs %s", lg.Name(m.Home), lg.Name(m.Away))
}

func writeAnalysisSheet(f *excelize.File, lg *league.League, an *scenario.Analysis) error {
	sheet := "Analysis"
	f.NewSheet(sheet)
	writeHeaders(f, sheet, []string{"Section", "Detail"})

	row := 2
	put := func(section, detail string) {
		f.SetCellValue(sheet, cellRef(1, row), section)
		f.SetCellValue(sheet, cellRef(2, row), detail)
		row++
	}

	put("Team", an.Team.Name)
	put("Cutoff", fmt.Sprintf("top %d", an.Cutoff))
	put("Verdict", an.Verdict.String())
	for _, w := range an.Warnings {
		put("Warning", w)
	}

	for _, c := range an.Necessary {
		detail := fmt.Sprintf("%s must win (%s)", lg.Name(c.Winner), matchupText(lg, c.Matchup))
		if c.MarginCenti > 0 {
			detail = fmt.Sprintf("%s must win by at least %s (%s)",
				lg.Name(c.Winner), config.FormatPoints(c.MarginCenti), matchupText(lg, c.Matchup))
		}
		if c.TieDependent {
			detail += " — unless a tiebreak falls their way"
		}
		put("Necessary", detail)
	}

	for i, comb := range an.Sufficient {
		if comb.Guaranteed() {
			put("Sufficient", "Already guaranteed")
			continue
		}
		detail := ""
		for mi, o := range comb.Outcomes {
			m := lg.Matchups()[mi]
			var winner league.TeamID
			switch o {
			case scenario.OutcomeHome:
				winner = m.Home
			case scenario.OutcomeAway:
				winner = m.Away
			default:
				continue
			}
			if detail != "" {
				detail += " AND "
			}
			detail += fmt.Sprintf("%s wins", lg.Name(winner))
		}
		put(fmt.Sprintf("Sufficient case %d", i+1), detail)
	}

	if an.BestRank > 0 {
		put("Best rank", fmt.Sprintf("%d", an.BestRank))
		put("Worst qualifying rank", fmt.Sprintf("%d", an.WorstQualifyingRank))
	}
	for _, q := range an.Incomplete {
		put("Incomplete", q)
	}

	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 70)
	return nil
}

func writeExampleSheet(f *excelize.File, lg *league.League, ex *scenario.Example) error {
	sheet := "Example Scenario"
	f.NewSheet(sheet)
	writeHeaders(f, sheet, []string{"Matchup", "Winner", "Score"})

	row := 2
	for _, r := range ex.Results {
		m := lg.Matchups()[r.Matchup]
		winner := "tie"
		score := fmt.Sprintf("%s - %s", config.FormatPoints(r.HomeScore), config.FormatPoints(r.AwayScore))
		switch r.Winner {
		case m.Home:
			winner = lg.Name(m.Home)
		case m.Away:
			winner = lg.Name(m.Away)
			score = fmt.Sprintf("%s - %s", config.FormatPoints(r.AwayScore), config.FormatPoints(r.HomeScore))
		}
		f.SetCellValue(sheet, cellRef(1, row), matchupText(lg, r.Matchup))
		f.SetCellValue(sheet, cellRef(2, row), winner)
		f.SetCellValue(sheet, cellRef(3, row), score)
		row++
	}

	row++
	f.SetCellValue(sheet, cellRef(1, row), "Projected standings")
	row++
	for i, p := range ex.Standings.Order {
		f.SetCellValue(sheet, cellRef(1, row), i+1)
		f.SetCellValue(sheet, cellRef(2, row), lg.Name(p.Team))
		f.SetCellValue(sheet, cellRef(3, row), fmt.Sprintf("%d wins, %s", p.Wins, config.FormatPoints(p.Points)))
		row++
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "C", 20)
	return nil
}

func writeStandingsSheet(f *excelize.File, lg *league.League) error {
	sheet := "Standings"
	f.NewSheet(sheet)
	writeHeaders(f, sheet, []string{"Rank", "Team", "Wins", "Points"})

	ranking, err := standings.Rank(lg, make(standings.Assignment, lg.Size()))
	if err != nil {
		return err
	}

	for i, p := range ranking.Order {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), ranking.Position(p.Team))
		f.SetCellValue(sheet, cellRef(2, row), lg.Name(p.Team))
		f.SetCellValue(sheet, cellRef(3, row), p.Wins)
		f.SetCellValue(sheet, cellRef(4, row), config.FormatPoints(p.Points))
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "C", 8)
	f.SetColWidth(sheet, "D", "D", 14)
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
