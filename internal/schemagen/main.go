// Command schemagen generates the JSON schema for ruleset documents.
// It is invoked by go:generate in pkg/schema.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/pflag"

	"github.com/macropower/synrule/pkg/document"
)

func main() {
	outFile := pflag.StringP("out", "o", "ruleset.v1.json", "Output file for the generated schema")
	pflag.Parse()

	data, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate JSON schema: %v\n", err)
		os.Exit(1)
	}

	err = os.WriteFile(*outFile, data, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write schema file: %v\n", err)
		os.Exit(1)
	}
}

func generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: false,
	}

	err := r.AddGoComments("github.com/macropower/synrule", "../../pkg")
	if err != nil {
		return nil, fmt.Errorf("add go comments: %w", err)
	}

	s := r.Reflect(&document.Document{})
	s.ID = "https://raw.githubusercontent.com/macropower/synrule/refs/heads/main/pkg/schema/ruleset.v1.json"

	allowNullParent(s)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// allowNullParent rewrites the Rule "parent" property to accept JSON
// null alongside a rule id, which the reflector cannot express from the
// Go string field. Loaders normalize null to the no-parent marker.
func allowNullParent(s *jsonschema.Schema) {
	rule, ok := s.Definitions["Rule"]
	if !ok {
		panic("Rule definition not found in schema")
	}

	parent, ok := rule.Properties.Get("parent")
	if !ok {
		panic("parent property not found in Rule schema")
	}

	parent.Type = ""
	parent.OneOf = []*jsonschema.Schema{
		{Type: "string"},
		{Type: "null"},
	}

	_, _ = rule.Properties.Set("parent", parent)

	// Parent may be null or absent, so it cannot stay required.
	required := rule.Required[:0]
	for _, field := range rule.Required {
		if field != "parent" {
			required = append(required, field)
		}
	}

	rule.Required = required
}
