// Package schema validates raw ruleset documents against the published
// JSON schema.
//
// This is a CLI-side convenience for hand-edited documents; the library
// load path in [github.com/macropower/synrule/pkg/document] stays
// lenient and never requires schema validity.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	_ "embed"
)

//go:generate go run ../../internal/schemagen -o ruleset.v1.json

const schemaURL = "https://raw.githubusercontent.com/macropower/synrule/refs/heads/main/pkg/schema/ruleset.v1.json"

//go:embed ruleset.v1.json
var schemaJSON []byte

// ValidationError reports a schema violation at a specific location in
// the document.
type ValidationError struct {
	Err      error
	Location string // JSON-pointer-ish path to the most specific failure.
	Detail   string
}

func (e *ValidationError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("error at %s: %s", e.Location, e.Detail)
	}

	return "validation error: " + e.Detail
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validator validates data against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a [Validator] from raw JSON schema data.
func NewValidator(schemaData []byte) (*Validator, error) {
	var schema any
	if err := json.Unmarshal(schemaData, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schema); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

// Default returns a [Validator] for the embedded ruleset schema.
func Default() (*Validator, error) {
	return NewValidator(schemaJSON)
}

// Validate checks decoded document data (as produced by
// [encoding/json.Unmarshal] into any) against the schema.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &ValidationError{
		Err:      errors.New("schema validation"),
		Location: formatLocation(findMostSpecificLocation(validationErr)),
		Detail:   validationErr.Error(),
	}
}

// findMostSpecificLocation recursively searches through all causes to
// find the one with the longest InstanceLocation.
func findMostSpecificLocation(err *jsonschema.ValidationError) []string {
	longest := err.InstanceLocation

	for _, cause := range err.Causes {
		candidate := findMostSpecificLocation(cause)
		if len(candidate) > len(longest) {
			longest = candidate
		}
	}

	return longest
}

func formatLocation(location []string) string {
	if len(location) == 0 {
		return "$"
	}

	return "$." + strings.Join(location, ".")
}
