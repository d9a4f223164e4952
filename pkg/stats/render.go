package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for output formats the renderer does not know.
var ErrUnknownFormat = errors.New("unknown report format")

// jsonIndent matches the corpus document indentation.
const jsonIndent = "  "

// Render writes the report in the requested format.
func Render(report *Report, format string, writer io.Writer, noColor bool) error {
	switch format {
	case FormatJSON:
		return renderJSON(report, writer)
	case FormatYAML:
		return renderYAML(report, writer)
	case FormatText:
		return renderText(report, writer, noColor)
	default:
		return fmt.Errorf("%w: %s (expected text, json, or yaml)", ErrUnknownFormat, format)
	}
}

func renderJSON(report *Report, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndent)

	err := encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}

	return nil
}

func renderYAML(report *Report, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)

	err := encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encode report yaml: %w", err)
	}

	closeErr := encoder.Close()
	if closeErr != nil {
		return fmt.Errorf("close report yaml encoder: %w", closeErr)
	}

	return nil
}
