package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HEATLabs/replaylab/pkg/replay"
)

// InspectCommand dumps the recoverable contents of a single replay file.
type InspectCommand struct {
	showStrings bool
	showZlib    bool
	minStrLen   int
	noColor     bool
}

// NewInspectCommand creates the inspect subcommand.
func NewInspectCommand() *cobra.Command {
	ic := &InspectCommand{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Dump the recoverable contents of one replay file",
		Long: `Inspect scans a single replay file and prints every embedded JSON
segment with its byte offsets, plus the build metadata and player
handles found in the raw bytes. Printable string runs and zlib
streams are printed on request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return ic.run(args[0])
		},
	}

	cmd.Flags().BoolVar(&ic.showStrings, "strings", false, "print printable string runs")
	cmd.Flags().BoolVar(&ic.showZlib, "zlib", false, "print embedded zlib streams")
	cmd.Flags().IntVar(&ic.minStrLen, "min-string-length", replay.DefaultMinStringLength, "minimum string run length")
	cmd.Flags().BoolVar(&ic.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (ic *InspectCommand) run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading replay file: %w", err)
	}

	if ic.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	heading := color.New(color.FgCyan, color.Bold)

	out := os.Stdout

	heading.Fprintf(out, "File: %s (%s)\n", path, humanize.Bytes(uint64(len(raw))))

	ic.printBuildInfo(out, heading, raw)
	ic.printPlayers(out, heading, raw)
	ic.printSegments(out, heading, raw)

	if ic.showStrings {
		ic.printStrings(out, heading, raw)
	}

	if ic.showZlib {
		ic.printZlib(out, heading, raw)
	}

	return nil
}

func (ic *InspectCommand) printBuildInfo(out *os.File, heading *color.Color, raw []byte) {
	info := replay.ExtractBuildInfo(raw)

	heading.Fprintln(out, "\nBuild info")

	if info.Build != nil {
		fmt.Fprintf(out, "  build:  %s\n", *info.Build)
	}

	if info.Branch != nil {
		fmt.Fprintf(out, "  branch: %s\n", *info.Branch)
	}

	if info.Build == nil && info.Branch == nil {
		fmt.Fprintln(out, "  (none found)")
	}
}

func (ic *InspectCommand) printPlayers(out *os.File, heading *color.Color, raw []byte) {
	players := replay.ExtractPlayerHandles(raw)

	heading.Fprintf(out, "\nPlayer handles (%d)\n", len(players))

	for _, player := range players {
		fmt.Fprintf(out, "  %s\n", player)
	}
}

func (ic *InspectCommand) printSegments(out *os.File, heading *color.Color, raw []byte) {
	segments := replay.Scan(raw)

	heading.Fprintf(out, "\nJSON segments (%d)\n", len(segments))

	for idx, seg := range segments {
		fmt.Fprintf(out, "  [%d] bytes %d..%d\n", idx, seg.Start, seg.End)

		encoded, err := json.Marshal(seg.Value)
		if err != nil {
			continue
		}

		var pretty bytes.Buffer

		indentErr := json.Indent(&pretty, encoded, "  ", "  ")
		if indentErr != nil {
			continue
		}

		fmt.Fprintf(out, "  %s\n", pretty.String())
	}
}

func (ic *InspectCommand) printStrings(out *os.File, heading *color.Color, raw []byte) {
	runs := replay.ExtractStrings(raw, ic.minStrLen)

	heading.Fprintf(out, "\nPrintable strings (%d)\n", len(runs))

	for _, run := range runs {
		fmt.Fprintf(out, "  %s\n", run)
	}
}

func (ic *InspectCommand) printZlib(out *os.File, heading *color.Color, raw []byte) {
	chunks := replay.ScanZlib(raw)

	heading.Fprintf(out, "\nZlib streams (%d)\n", len(chunks))

	for idx, chunk := range chunks {
		fmt.Fprintf(out, "  [%d] bytes %d..%d, %s inflated\n",
			idx, chunk.Start, chunk.End, humanize.Bytes(uint64(len(chunk.Data))))

		if utf8.Valid(chunk.Data) {
			fmt.Fprintf(out, "  %s\n", chunk.Data)
		} else {
			fmt.Fprintln(out, "  [binary non-UTF8 data]")
		}
	}
}
