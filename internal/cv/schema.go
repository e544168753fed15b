package cv

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordSchema constrains what the model may return: one flat object whose
// values are scalars. Nested structures would not round-trip through the
// review editor or the sync payload.
var recordSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": []string{"string", "number", "boolean", "integer", "null"},
	},
}

// ValidateObject checks a parsed model response against the record schema.
func ValidateObject(raw map[string]any) error {
	b, err := json.Marshal(recordSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through json so the validator sees plain decoded values.
	doc, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal response object: %w", err)
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("unmarshal response object: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response does not match record schema: %w", err)
	}
	return nil
}
