package shifts

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks constructed payloads against the shift JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the JSON Schema document at path.
func NewValidator(path string) (*Validator, error) {
	schema, err := jsonschema.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compiling shift schema %s: %w", path, err)
	}
	return &Validator{schema: schema}, nil
}

// Validate reports whether the serialized payload conforms to the schema.
// Violations collapse to false with no partial diagnostics: validation is
// an advisory pre-flight check, and the caller decides whether a failure is
// fatal. It runs on the exact bytes that will be submitted, never on an
// earlier pipeline stage.
func (v *Validator) Validate(raw []byte) bool {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	return v.schema.Validate(doc) == nil
}
