package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/macropower/synrule/pkg/ruleset"
)

// Document is the canonical on-disk shape of a ruleset.
type Document struct {
	// Domains holds every domain type, in display order.
	Domains []ruleset.DomainType `json:"domains" jsonschema:"title=Domain Types"`
	// Rules holds every rule, in display order.
	Rules []ruleset.Rule `json:"rules" jsonschema:"title=Rules"`
}

// ParseError reports text that is not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ruleset document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports well-formed JSON that does not have the shape of
// a ruleset document.
type SchemaError struct {
	Err error
	// Missing lists absent required top-level keys, if that is the cause.
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("ruleset document missing required key(s): %s",
			strings.Join(e.Missing, ", "))
	}

	return fmt.Sprintf("ruleset document: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Marshal serializes a ruleset to the canonical JSON document. Only the
// two entity collections are written; the hierarchy is derived data and
// is always recomputed from parent links on load.
func Marshal(rs ruleset.Ruleset) ([]byte, error) {
	data, err := json.MarshalIndent(Document{
		Domains: rs.Domains,
		Rules:   rs.Rules,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ruleset document: %w", err)
	}

	return data, nil
}

// Unmarshal parses a canonical JSON document back into a ruleset.
//
// It returns a [*ParseError] if data is not well-formed JSON, and a
// [*SchemaError] if the JSON is not an object carrying both the
// "domains" and "rules" keys, or if either collection has the wrong
// shape. No deeper validation is performed. A rule parent of JSON null
// loads as [ruleset.NoParent].
func Unmarshal(data []byte) (ruleset.Ruleset, error) {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return ruleset.Ruleset{}, classify(err)
	}

	var missing []string
	for _, key := range []string{"domains", "rules"} {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return ruleset.Ruleset{}, &SchemaError{Missing: missing}
	}

	rs := ruleset.New()

	err = json.Unmarshal(raw["domains"], &rs.Domains)
	if err != nil {
		return ruleset.Ruleset{}, &SchemaError{Err: fmt.Errorf("domains: %w", err)}
	}

	err = json.Unmarshal(raw["rules"], &rs.Rules)
	if err != nil {
		return ruleset.Ruleset{}, &SchemaError{Err: fmt.Errorf("rules: %w", err)}
	}

	// JSON null collections decode as nil; normalize so that a loaded
	// empty document equals ruleset.New().
	if rs.Domains == nil {
		rs.Domains = []ruleset.DomainType{}
	}
	if rs.Rules == nil {
		rs.Rules = []ruleset.Rule{}
	}

	return rs, nil
}

// classify splits top-level decode failures into the two error kinds:
// syntax problems are [*ParseError], everything else (e.g. a top-level
// array) is well-formed JSON of the wrong shape, a [*SchemaError].
func classify(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &typeErr):
		return &SchemaError{Err: err}
	case errors.As(err, &syntaxErr):
		return &ParseError{Err: err}
	}

	// Truncated input and similar decode failures.
	return &ParseError{Err: err}
}
