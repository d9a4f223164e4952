package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HEATLabs/replaylab/pkg/corpus"
	"github.com/HEATLabs/replaylab/pkg/stats"
)

// StatsCommand computes the statistics report over the corpus document.
type StatsCommand struct {
	app *App

	corpusPath string
	format     string
	noColor    bool

	topActive       int
	topWinRate      int
	topPartnerships int
	minQualifying   int
}

// NewStatsCommand creates the stats subcommand.
func NewStatsCommand(app *App) *cobra.Command {
	st := &StatsCommand{app: app}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute match statistics from the corpus document",
		Long: `Stats reads the corpus document and prints win/loss tallies, per-map
and per-player breakdowns, team size distribution, partnerships,
streaks and date activity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st.applyConfig(cmd)

			return st.run()
		},
	}

	cmd.Flags().StringVarP(&st.corpusPath, "corpus", "c", "", "path to the corpus document")
	cmd.Flags().StringVarP(&st.format, "format", "f", stats.FormatText, "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&st.noColor, "no-color", false, "disable colored output")
	cmd.Flags().IntVar(&st.topActive, "top-active", 0, "most active players to list")
	cmd.Flags().IntVar(&st.topWinRate, "top-win-rate", 0, "best win rate players to list")
	cmd.Flags().IntVar(&st.topPartnerships, "top-partnerships", 0, "most common partnerships to list")
	cmd.Flags().IntVar(&st.minQualifying, "min-qualifying", 0, "matches required for the win rate ranking")

	return cmd
}

func (st *StatsCommand) applyConfig(cmd *cobra.Command) {
	cfg := st.app.Config

	if !cmd.Flags().Changed("corpus") {
		st.corpusPath = cfg.Corpus.Path
	}

	if !cmd.Flags().Changed("top-active") {
		st.topActive = cfg.Report.TopActivePlayers
	}

	if !cmd.Flags().Changed("top-win-rate") {
		st.topWinRate = cfg.Report.TopWinRatePlayers
	}

	if !cmd.Flags().Changed("top-partnerships") {
		st.topPartnerships = cfg.Report.TopPartnerships
	}

	if !cmd.Flags().Changed("min-qualifying") {
		st.minQualifying = cfg.Report.MinQualifyingMatches
	}
}

func (st *StatsCommand) run() error {
	doc, err := corpus.LoadSnapshot(st.corpusPath)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	report := stats.Compute(doc, stats.Options{
		TopActivePlayers:     st.topActive,
		TopWinRatePlayers:    st.topWinRate,
		TopPartnerships:      st.topPartnerships,
		MinQualifyingMatches: st.minQualifying,
	})

	return stats.Render(report, st.format, os.Stdout, st.noColor)
}
