package corpus

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation indicates a stored corpus document that parses as JSON
// but does not match the expected shape.
var ErrSchemaViolation = errors.New("corpus document schema violation")

// documentSchema constrains the corpus document shape. A stored file that
// fails validation is treated exactly like a corrupt one: discarded with a
// recovery warning.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["total_files", "processed_files", "results"],
  "properties": {
    "total_files": {"type": "integer", "minimum": 0},
    "processed_files": {"type": "integer", "minimum": 0},
    "results": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "match_details": {"type": "array"},
          "game_version": {
            "type": "object",
            "properties": {
              "build": {"type": ["string", "null"]},
              "branch": {"type": ["string", "null"]}
            }
          },
          "players": {"type": "array", "items": {"type": "string"}},
          "error": {"type": "string"}
        }
      }
    }
  }
}`

// validateDocument checks raw JSON against the corpus schema.
func validateDocument(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate corpus document: %w", err)
	}

	if !result.Valid() {
		if issues := result.Errors(); len(issues) > 0 {
			return fmt.Errorf("%w: %s", ErrSchemaViolation, issues[0])
		}

		return ErrSchemaViolation
	}

	return nil
}
