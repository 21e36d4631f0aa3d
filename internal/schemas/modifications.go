// Package schemas provides JSON Schema validation for wire payloads received
// from the generation service.
package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-studio/internal/types"
)

// modificationSchema validates a single modification operation. Validation
// is deliberately shallow: it checks the action/target vocabulary and field
// types, while positional validity stays with the applier, which knows the
// document the indices refer to.
const modificationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["action", "target"],
  "properties": {
    "action": {"enum": ["add", "update", "delete", "replace", "move"]},
    "target": {"enum": ["personalInfo", "section", "item", "bullet"]},
    "path": {"type": "string"},
    "sectionIndex": {"type": "integer", "minimum": 0},
    "itemIndex": {"type": "integer", "minimum": 0},
    "bulletIndex": {"type": "integer", "minimum": 0},
    "toIndex": {"type": "integer", "minimum": 0},
    "field": {"type": "string"},
    "newSection": {"type": "object"}
  }
}`

var modificationLoader = gojsonschema.NewStringLoader(modificationSchema)

// FilterModifications parses a wire batch and drops operations that fail
// schema validation, returning the surviving operations plus one warning per
// dropped op. A batch that is not a JSON array at all is a hard error.
func FilterModifications(data []byte) ([]types.ResumeModification, []string, error) {
	var rawOps []json.RawMessage
	if err := json.Unmarshal(data, &rawOps); err != nil {
		return nil, nil, fmt.Errorf("modification batch is not a JSON array: %w", err)
	}

	var (
		kept     []json.RawMessage
		warnings []string
	)
	for i, rawOp := range rawOps {
		result, err := gojsonschema.Validate(modificationLoader, gojsonschema.NewBytesLoader(rawOp))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("op %d: %v", i, err))
			continue
		}
		if !result.Valid() {
			warnings = append(warnings, fmt.Sprintf("op %d: %s", i, firstIssue(result)))
			continue
		}
		kept = append(kept, rawOp)
	}
	if len(kept) == 0 {
		return nil, warnings, nil
	}

	// Surviving operations are schema-valid, so the typed decode of the
	// filtered batch cannot fail on field shapes.
	batch, err := json.Marshal(kept)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to reassemble modification batch: %w", err)
	}
	ops, err := types.ParseModificationBatch(batch)
	if err != nil {
		return nil, warnings, err
	}
	return ops, warnings, nil
}

func firstIssue(result *gojsonschema.Result) string {
	for _, desc := range result.Errors() {
		return desc.String()
	}
	return "schema validation failed"
}
