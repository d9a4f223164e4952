// Package version exposes build metadata stamped in at link time.
package version

import "fmt"

// Set via -ldflags at build time.
var (
	// Version is the semantic version of this build.
	Version = "dev"

	// Commit is the Git hash of the replaylab binary which is executing.
	Commit = "<unknown>"
)

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("replaylab %s (%s)", Version, Commit)
}
