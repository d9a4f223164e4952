package stats

import (
	"fmt"
	"sort"

	"github.com/HEATLabs/replaylab/pkg/corpus"
	"github.com/HEATLabs/replaylab/pkg/replay"
)

// resultField is the end-of-game marker recovered from a match's first
// segment. Some extractions nest it under a "details" object; both shapes
// are accepted.
const (
	resultField        = "m_endGameType"
	resultDetailsField = "details"
)

// unknownGroup keys records whose filename encodes no map or mode.
const unknownGroup = "unknown (unknown)"

// Compute derives a full statistics report from a corpus snapshot. No single
// malformed record aborts the computation: absent match details count as
// Unknown, absent players contribute to no player stats, and unparseable
// filenames are tallied as problematic.
func Compute(doc *corpus.Corpus, opts Options) *Report {
	opts = opts.withDefaults()

	report := &Report{
		TotalFiles:     doc.TotalFiles,
		ProcessedFiles: doc.ProcessedFiles,
		TotalMatches:   len(doc.Results),
	}

	ordered := chronological(doc)

	tallyResults(report, ordered)
	groupByMapMode(report, ordered)
	accumulatePlayers(report, ordered, opts)
	distributeTeamSizes(report, ordered)
	countPartnerships(report, ordered, opts)
	walkStreaks(report, ordered)
	analyzeDates(report, ordered)

	return report
}

// match is one record with its derived per-match facts.
type match struct {
	filename string
	result   MatchResult
	players  []string
	meta     replay.FileMeta
	dated    bool
}

// chronological orders the corpus records by their filename-encoded date;
// undated records follow, in filename order. The ordering is deterministic
// across runs, which the streak walk depends on.
func chronological(doc *corpus.Corpus) []match {
	matches := make([]match, 0, len(doc.Results))

	for _, name := range doc.Filenames() {
		record := doc.Results[name]
		meta, dated := replay.ParseFilename(name)

		matches = append(matches, match{
			filename: name,
			result:   recordResult(record),
			players:  record.Players,
			meta:     meta,
			dated:    dated,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]

		if a.dated != b.dated {
			return a.dated
		}

		if a.dated && b.dated {
			if a.meta.Year != b.meta.Year {
				return a.meta.Year < b.meta.Year
			}

			if a.meta.Month != b.meta.Month {
				return a.meta.Month < b.meta.Month
			}

			if a.meta.Day != b.meta.Day {
				return a.meta.Day < b.meta.Day
			}
		}

		return a.filename < b.filename
	})

	return matches
}

// recordResult pulls the end-game marker from the record's first segment.
func recordResult(record corpus.MatchRecord) MatchResult {
	if len(record.MatchDetails) == 0 {
		return ResultUnknown
	}

	first := record.MatchDetails[0]

	if value, ok := first.Field(resultField); ok {
		return classifyResult(value.StringValue())
	}

	if details, ok := first.Field(resultDetailsField); ok {
		if value, ok := details.Field(resultField); ok {
			return classifyResult(value.StringValue())
		}
	}

	return ResultUnknown
}

func classifyResult(raw string) MatchResult {
	switch MatchResult(raw) {
	case ResultWin:
		return ResultWin
	case ResultLoss:
		return ResultLoss
	default:
		return ResultUnknown
	}
}

func tallyResults(report *Report, matches []match) {
	for _, m := range matches {
		switch m.result {
		case ResultWin:
			report.Results.Wins++
		case ResultLoss:
			report.Results.Losses++
		default:
			report.Results.Unknown++
		}
	}

	report.Results.WinRatio = safeRatio(report.Results.Wins, report.Results.Losses)
}

func groupByMapMode(report *Report, matches []match) {
	groups := make(map[string]*MapModeStats)

	for _, m := range matches {
		key := unknownGroup
		if m.dated {
			key = fmt.Sprintf("%s (%s)", m.meta.Map, m.meta.Mode)
		}

		group, ok := groups[key]
		if !ok {
			group = &MapModeStats{Key: key}
			groups[key] = group
		}

		group.Total++

		switch m.result {
		case ResultWin:
			group.Wins++
		case ResultLoss:
			group.Losses++
		default:
			group.Unknown++
		}
	}

	report.Maps = make([]MapModeStats, 0, len(groups))

	for _, group := range groups {
		group.WinRate = safeRatio(group.Wins, group.Losses)
		report.Maps = append(report.Maps, *group)
	}

	sort.Slice(report.Maps, func(i, j int) bool {
		return report.Maps[i].Key < report.Maps[j].Key
	})
}

func accumulatePlayers(report *Report, matches []match, opts Options) {
	byPlayer := make(map[string]*PlayerStats)

	for _, m := range matches {
		for _, player := range m.players {
			stats, ok := byPlayer[player]
			if !ok {
				stats = &PlayerStats{Player: player}
				byPlayer[player] = stats
			}

			stats.Matches++

			switch m.result {
			case ResultWin:
				stats.Wins++
			case ResultLoss:
				stats.Losses++
			default:
				stats.Unknown++
			}
		}
	}

	report.UniquePlayers = len(byPlayer)

	all := make([]PlayerStats, 0, len(byPlayer))

	for _, stats := range byPlayer {
		stats.WinRate = safeRatio(stats.Wins, stats.Losses)
		all = append(all, *stats)
	}

	report.MostActive = topPlayers(all, opts.TopActivePlayers, func(a, b PlayerStats) bool {
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}

		return a.Player < b.Player
	})

	qualified := make([]PlayerStats, 0, len(all))

	for _, stats := range all {
		if stats.Wins+stats.Losses >= opts.MinQualifyingMatches {
			qualified = append(qualified, stats)
		}
	}

	report.BestWinRate = topPlayers(qualified, opts.TopWinRatePlayers, func(a, b PlayerStats) bool {
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}

		return a.Player < b.Player
	})
}

// topPlayers sorts a copy of players with less and truncates to n.
func topPlayers(players []PlayerStats, n int, less func(a, b PlayerStats) bool) []PlayerStats {
	ranked := make([]PlayerStats, len(players))
	copy(ranked, players)

	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

func distributeTeamSizes(report *Report, matches []match) {
	if len(matches) == 0 {
		return
	}

	counts := make(map[int]int)
	total := 0
	minSize := len(matches[0].players)
	maxSize := minSize

	for _, m := range matches {
		size := len(m.players)
		counts[size]++
		total += size

		if size < minSize {
			minSize = size
		}

		if size > maxSize {
			maxSize = size
		}
	}

	sizes := make([]int, 0, len(counts))
	for size := range counts {
		sizes = append(sizes, size)
	}

	sort.Ints(sizes)

	distribution := make([]TeamSizeBucket, 0, len(sizes))

	for _, size := range sizes {
		distribution = append(distribution, TeamSizeBucket{
			Size:    size,
			Matches: counts[size],
			Percent: float64(counts[size]) / float64(len(matches)) * 100,
		})
	}

	report.TeamSizes = TeamSizeStats{
		Average:      float64(total) / float64(len(matches)),
		Min:          minSize,
		Max:          maxSize,
		Distribution: distribution,
	}
}

func countPartnerships(report *Report, matches []match, opts Options) {
	type pair struct {
		a, b string
	}

	counts := make(map[pair]int)

	for _, m := range matches {
		for i := 0; i < len(m.players); i++ {
			for j := i + 1; j < len(m.players); j++ {
				a, b := m.players[i], m.players[j]
				if b < a {
					a, b = b, a
				}

				counts[pair{a, b}]++
			}
		}
	}

	ranked := make([]Partnership, 0, len(counts))

	for p, count := range counts {
		ranked = append(ranked, Partnership{PlayerA: p.a, PlayerB: p.b, Matches: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Matches != ranked[j].Matches {
			return ranked[i].Matches > ranked[j].Matches
		}

		if ranked[i].PlayerA != ranked[j].PlayerA {
			return ranked[i].PlayerA < ranked[j].PlayerA
		}

		return ranked[i].PlayerB < ranked[j].PlayerB
	})

	if len(ranked) > opts.TopPartnerships {
		ranked = ranked[:opts.TopPartnerships]
	}

	report.Partnerships = ranked
}

// walkStreaks maintains a signed run counter over the chronological order:
// wins extend or start a positive run, losses a negative one, and unknown
// results reset the counter, breaking both streak kinds.
func walkStreaks(report *Report, matches []match) {
	current := 0

	for _, m := range matches {
		switch m.result {
		case ResultWin:
			if current >= 0 {
				current++
			} else {
				current = 1
			}

			if current > report.Streaks.MaxWinStreak {
				report.Streaks.MaxWinStreak = current
			}
		case ResultLoss:
			if current <= 0 {
				current--
			} else {
				current = -1
			}

			if -current > report.Streaks.MaxLossStreak {
				report.Streaks.MaxLossStreak = -current
			}
		default:
			current = 0
		}
	}
}

func analyzeDates(report *Report, matches []match) {
	type day struct {
		year, month, d int
	}

	counts := make(map[day]int)

	for _, m := range matches {
		if !m.dated {
			report.Dates.Problematic++

			continue
		}

		counts[day{m.meta.Year, m.meta.Month, m.meta.Day}]++
	}

	report.Dates.ActiveDays = len(counts)

	var best day

	bestCount := 0

	for d, count := range counts {
		if count > bestCount || (count == bestCount && earlier(d.year, d.month, d.d, best.year, best.month, best.d)) {
			best = d
			bestCount = count
		}
	}

	if bestCount > 0 {
		report.Dates.MostActiveDate = fmt.Sprintf("%04d-%02d-%02d", best.year, best.month, best.d)
		report.Dates.MostActiveMatches = bestCount
	}
}

func earlier(y1, m1, d1, y2, m2, d2 int) bool {
	if y1 != y2 {
		return y1 < y2
	}

	if m1 != m2 {
		return m1 < m2
	}

	return d1 < d2
}
