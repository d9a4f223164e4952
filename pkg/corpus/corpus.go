// Package corpus persists one extracted record per replay file into a single
// aggregated JSON document and keeps that document valid on disk at all
// times.
package corpus

import (
	"sort"

	"github.com/HEATLabs/replaylab/pkg/replay"
)

// ErrorFileNotFound is the record error stored when an input file vanished
// between discovery and processing.
const ErrorFileNotFound = "File not found"

// MatchRecord is the extraction result for one replay file. Reprocessing a
// file replaces its record wholesale. Error is set instead of the data fields
// when the input could not be read at all.
type MatchRecord struct {
	MatchDetails []replay.Value    `json:"match_details,omitempty"`
	GameVersion  *replay.BuildInfo `json:"game_version,omitempty"`
	Players      []string          `json:"players,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// Corpus is the aggregated document: one MatchRecord per processed replay
// file. ProcessedFiles is always recomputed from len(Results), never
// incremented, so it cannot drift.
type Corpus struct {
	TotalFiles     int                    `json:"total_files"`
	ProcessedFiles int                    `json:"processed_files"`
	Results        map[string]MatchRecord `json:"results"`
}

// NewCorpus returns an empty corpus document.
func NewCorpus() *Corpus {
	return &Corpus{Results: make(map[string]MatchRecord)}
}

// Filenames returns the record keys in lexicographic order.
func (c *Corpus) Filenames() []string {
	names := make([]string, 0, len(c.Results))
	for name := range c.Results {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
