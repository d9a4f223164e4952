package replay

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Replay filenames conventionally look like
// 05_friendshipdam_conquest_2025_03_01_19_17_51_9147c5c8.replay: map and mode
// at fixed positions, a YYYY_MM_DD date, then time tokens and a trailing
// hash. The convention is advisory only; names that don't match are reported
// as problematic rather than rejected.
const (
	filenameMinParts = 7
	filenameMapPart  = 1
	filenameModePart = 2
	filenameYearPart = 3
	// Month and day follow the year token.
)

// FileMeta is the metadata encoded in a conventional replay filename.
type FileMeta struct {
	Map   string
	Mode  string
	Year  int
	Month int
	Day   int
}

// ParseFilename extracts map, mode, and date tokens from a replay filename.
// The extension is stripped and the base name split on underscores; names
// with too few tokens or non-numeric date tokens report ok = false.
func ParseFilename(name string) (FileMeta, bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(base, "_")
	if len(parts) < filenameMinParts {
		return FileMeta{}, false
	}

	year, errYear := strconv.Atoi(parts[filenameYearPart])
	month, errMonth := strconv.Atoi(parts[filenameYearPart+1])
	day, errDay := strconv.Atoi(parts[filenameYearPart+2])

	if errYear != nil || errMonth != nil || errDay != nil {
		return FileMeta{}, false
	}

	return FileMeta{
		Map:   parts[filenameMapPart],
		Mode:  parts[filenameModePart],
		Year:  year,
		Month: month,
		Day:   day,
	}, true
}
