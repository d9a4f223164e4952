package stats

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// pctMultiplier converts a ratio to a percentage.
const pctMultiplier = 100

// renderText writes a human-readable report. Sections mirror the report
// fields: overall tally, map/mode breakdown, players, team sizes,
// partnerships, streaks, dates.
func renderText(report *Report, writer io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	heading := color.New(color.FgBlue, color.Bold)

	heading.Fprintln(writer, "=== REPLAY CORPUS ANALYSIS ===")
	fmt.Fprintf(writer, "Files processed: %d/%d\n", report.ProcessedFiles, report.TotalFiles)
	fmt.Fprintf(writer, "Matches analyzed: %d\n\n", report.TotalMatches)

	writeTallySection(writer, heading, report)
	writeMapSection(writer, heading, report)
	writePlayerSection(writer, heading, report)
	writeTeamSizeSection(writer, heading, report)
	writePartnershipSection(writer, heading, report)
	writeStreakSection(writer, heading, report)
	writeDateSection(writer, heading, report)

	return nil
}

func writeTallySection(writer io.Writer, heading *color.Color, report *Report) {
	heading.Fprintln(writer, "=== MATCH RESULTS ===")
	fmt.Fprintf(writer, "Wins: %d\n", report.Results.Wins)
	fmt.Fprintf(writer, "Losses: %d\n", report.Results.Losses)
	fmt.Fprintf(writer, "Unknown/Invalid: %d\n", report.Results.Unknown)
	fmt.Fprintf(writer, "Win Ratio: %s\n\n", formatPct(report.Results.WinRatio))
}

func writeMapSection(writer io.Writer, heading *color.Color, report *Report) {
	if len(report.Maps) == 0 {
		return
	}

	heading.Fprintln(writer, "=== MAP STATISTICS ===")

	tbl := newTable(writer)
	tbl.AppendHeader(table.Row{"Map (Mode)", "Matches", "Wins", "Losses", "Unknown", "Win Rate"})

	for _, group := range report.Maps {
		winRate := "N/A"
		if group.Wins+group.Losses > 0 {
			winRate = formatPct(group.WinRate)
		}

		tbl.AppendRow(table.Row{group.Key, group.Total, group.Wins, group.Losses, group.Unknown, winRate})
	}

	tbl.Render()
	fmt.Fprintln(writer)
}

func writePlayerSection(writer io.Writer, heading *color.Color, report *Report) {
	heading.Fprintln(writer, "=== PLAYER STATISTICS ===")
	fmt.Fprintf(writer, "Total unique players: %d\n\n", report.UniquePlayers)

	if len(report.MostActive) > 0 {
		fmt.Fprintf(writer, "Top %d Most Active Players:\n", len(report.MostActive))

		tbl := newTable(writer)
		tbl.AppendHeader(table.Row{"Player", "Matches", "Win Rate", "Unknown"})

		for _, player := range report.MostActive {
			tbl.AppendRow(table.Row{player.Player, player.Matches, formatPct(player.WinRate), player.Unknown})
		}

		tbl.Render()
		fmt.Fprintln(writer)
	}

	if len(report.BestWinRate) > 0 {
		fmt.Fprintf(writer, "Top %d Players by Win Rate:\n", len(report.BestWinRate))

		tbl := newTable(writer)
		tbl.AppendHeader(table.Row{"Player", "Win Rate", "Record", "Unknown"})

		for _, player := range report.BestWinRate {
			record := fmt.Sprintf("%d-%d", player.Wins, player.Losses)
			tbl.AppendRow(table.Row{player.Player, formatPct(player.WinRate), record, player.Unknown})
		}

		tbl.Render()
		fmt.Fprintln(writer)
	}
}

func writeTeamSizeSection(writer io.Writer, heading *color.Color, report *Report) {
	heading.Fprintln(writer, "=== PLAYERS PER MATCH ===")
	fmt.Fprintf(writer, "Average: %.1f  Min: %d  Max: %d\n", report.TeamSizes.Average, report.TeamSizes.Min, report.TeamSizes.Max)

	for _, bucket := range report.TeamSizes.Distribution {
		fmt.Fprintf(writer, "  %d players: %d matches (%.1f%%)\n", bucket.Size, bucket.Matches, bucket.Percent)
	}

	fmt.Fprintln(writer)
}

func writePartnershipSection(writer io.Writer, heading *color.Color, report *Report) {
	if len(report.Partnerships) == 0 {
		return
	}

	heading.Fprintln(writer, "=== PLAYER PARTNERSHIPS ===")

	tbl := newTable(writer)
	tbl.AppendHeader(table.Row{"Pair", "Matches Together"})

	for _, pair := range report.Partnerships {
		tbl.AppendRow(table.Row{fmt.Sprintf("%s & %s", pair.PlayerA, pair.PlayerB), pair.Matches})
	}

	tbl.Render()
	fmt.Fprintln(writer)
}

func writeStreakSection(writer io.Writer, heading *color.Color, report *Report) {
	heading.Fprintln(writer, "=== STREAKS ===")
	fmt.Fprintf(writer, "Longest win streak: %d\n", report.Streaks.MaxWinStreak)
	fmt.Fprintf(writer, "Longest loss streak: %d\n\n", report.Streaks.MaxLossStreak)
}

func writeDateSection(writer io.Writer, heading *color.Color, report *Report) {
	heading.Fprintln(writer, "=== TIME ANALYSIS ===")

	if report.Dates.MostActiveDate != "" {
		fmt.Fprintf(writer, "Most active date: %s (%d matches)\n", report.Dates.MostActiveDate, report.Dates.MostActiveMatches)
		fmt.Fprintf(writer, "Days with matches: %d\n", report.Dates.ActiveDays)
	} else {
		fmt.Fprintln(writer, "No valid dates found in filenames")
	}

	if report.Dates.Problematic > 0 {
		fmt.Fprintf(writer, "Problematic filenames (excluded from date stats): %d\n", report.Dates.Problematic)
	}
}

func newTable(writer io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	return tbl
}

func formatPct(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*pctMultiplier)
}
