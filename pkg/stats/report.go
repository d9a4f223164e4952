// Package stats computes corpus-wide match statistics from an aggregated
// replay corpus. The analyzer is read-only over a point-in-time snapshot;
// reports are derived on demand and never persisted.
package stats

// MatchResult is the outcome recovered from a match record. Replays encode
// wins as "Win" and losses as "Loose"; everything else, including absent
// match details, is Unknown.
type MatchResult string

// Recognized match results.
const (
	ResultWin     MatchResult = "Win"
	ResultLoss    MatchResult = "Loose"
	ResultUnknown MatchResult = "Unknown"
)

// Options tunes report depth. Zero values fall back to the defaults.
type Options struct {
	TopActivePlayers     int
	TopWinRatePlayers    int
	TopPartnerships      int
	MinQualifyingMatches int
}

// Default report depths.
const (
	DefaultTopActivePlayers     = 10
	DefaultTopWinRatePlayers    = 5
	DefaultTopPartnerships      = 10
	DefaultMinQualifyingMatches = 2
)

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.TopActivePlayers <= 0 {
		o.TopActivePlayers = DefaultTopActivePlayers
	}

	if o.TopWinRatePlayers <= 0 {
		o.TopWinRatePlayers = DefaultTopWinRatePlayers
	}

	if o.TopPartnerships <= 0 {
		o.TopPartnerships = DefaultTopPartnerships
	}

	if o.MinQualifyingMatches <= 0 {
		o.MinQualifyingMatches = DefaultMinQualifyingMatches
	}

	return o
}

// ResultTally counts match outcomes. WinRatio is wins/(wins+losses), or 0
// when no match has a known result; it is always within [0, 1].
type ResultTally struct {
	Wins     int     `json:"wins" yaml:"wins"`
	Losses   int     `json:"losses" yaml:"losses"`
	Unknown  int     `json:"unknown" yaml:"unknown"`
	WinRatio float64 `json:"win_ratio" yaml:"win_ratio"`
}

// MapModeStats is the outcome breakdown for one (map, mode) group.
type MapModeStats struct {
	Key     string  `json:"key" yaml:"key"`
	Total   int     `json:"total" yaml:"total"`
	Wins    int     `json:"wins" yaml:"wins"`
	Losses  int     `json:"losses" yaml:"losses"`
	Unknown int     `json:"unknown" yaml:"unknown"`
	WinRate float64 `json:"win_rate" yaml:"win_rate"`
}

// PlayerStats accumulates one player's appearances and outcomes.
type PlayerStats struct {
	Player  string  `json:"player" yaml:"player"`
	Matches int     `json:"matches" yaml:"matches"`
	Wins    int     `json:"wins" yaml:"wins"`
	Losses  int     `json:"losses" yaml:"losses"`
	Unknown int     `json:"unknown" yaml:"unknown"`
	WinRate float64 `json:"win_rate" yaml:"win_rate"`
}

// TeamSizeBucket is one bar of the players-per-match histogram.
type TeamSizeBucket struct {
	Size    int     `json:"size" yaml:"size"`
	Matches int     `json:"matches" yaml:"matches"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// TeamSizeStats summarizes the players-per-match distribution.
type TeamSizeStats struct {
	Average      float64          `json:"average" yaml:"average"`
	Min          int              `json:"min" yaml:"min"`
	Max          int              `json:"max" yaml:"max"`
	Distribution []TeamSizeBucket `json:"distribution" yaml:"distribution"`
}

// Partnership is an unordered pair of players with their co-occurrence count.
type Partnership struct {
	PlayerA string `json:"player_a" yaml:"player_a"`
	PlayerB string `json:"player_b" yaml:"player_b"`
	Matches int    `json:"matches" yaml:"matches"`
}

// StreakStats reports the longest runs of consecutive same-signed results in
// chronological order. Unknown results reset both streaks.
type StreakStats struct {
	MaxWinStreak  int `json:"max_win_streak" yaml:"max_win_streak"`
	MaxLossStreak int `json:"max_loss_streak" yaml:"max_loss_streak"`
}

// DateStats summarizes filename-encoded activity dates. Filenames that don't
// follow the underscore convention are excluded from the date counters but
// reported as problematic rather than silently dropped.
type DateStats struct {
	MostActiveDate    string `json:"most_active_date,omitempty" yaml:"most_active_date,omitempty"`
	MostActiveMatches int    `json:"most_active_matches" yaml:"most_active_matches"`
	ActiveDays        int    `json:"active_days" yaml:"active_days"`
	Problematic       int    `json:"problematic_filenames" yaml:"problematic_filenames"`
}

// Report is the full statistics output over one corpus snapshot.
type Report struct {
	TotalFiles     int            `json:"total_files" yaml:"total_files"`
	ProcessedFiles int            `json:"processed_files" yaml:"processed_files"`
	TotalMatches   int            `json:"total_matches" yaml:"total_matches"`
	Results        ResultTally    `json:"results" yaml:"results"`
	Maps           []MapModeStats `json:"maps" yaml:"maps"`
	UniquePlayers  int            `json:"unique_players" yaml:"unique_players"`
	MostActive     []PlayerStats  `json:"most_active_players" yaml:"most_active_players"`
	BestWinRate    []PlayerStats  `json:"best_win_rate_players" yaml:"best_win_rate_players"`
	TeamSizes      TeamSizeStats  `json:"team_sizes" yaml:"team_sizes"`
	Partnerships   []Partnership  `json:"partnerships" yaml:"partnerships"`
	Streaks        StreakStats    `json:"streaks" yaml:"streaks"`
	Dates          DateStats      `json:"dates" yaml:"dates"`
}

// safeRatio returns wins/(wins+losses), or 0 when the denominator is zero.
// Never NaN.
func safeRatio(wins, losses int) float64 {
	known := wins + losses
	if known == 0 {
		return 0
	}

	return float64(wins) / float64(known)
}
