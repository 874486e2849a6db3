package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/macropower/synrule/pkg/document"
	"github.com/macropower/synrule/pkg/ruleset"
)

// isYAMLPath reports whether path should be treated as a YAML document.
// The canonical persistence format is JSON; YAML is accepted at the CLI
// boundary as a hand-editing convenience.
func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}

	return false
}

// readDocument reads a ruleset file and returns its contents as
// canonical JSON bytes, converting from YAML when the extension calls
// for it.
func readDocument(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if isYAMLPath(path) {
		jsonData, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("convert %s from yaml: %w", path, err)
		}

		return jsonData, nil
	}

	return data, nil
}

// readRuleset loads a ruleset leniently through the serialization
// gateway. On failure the caller's state is untouched; the prior file
// contents are never modified.
func readRuleset(path string) (ruleset.Ruleset, error) {
	data, err := readDocument(path)
	if err != nil {
		return ruleset.Ruleset{}, err
	}

	rs, err := document.Unmarshal(data)
	if err != nil {
		return ruleset.Ruleset{}, fmt.Errorf("load %s: %w", path, err)
	}

	return rs, nil
}

// resolveRule finds a rule by id or, failing that, by name. Names are
// resolved in display order, first match wins.
func resolveRule(rs ruleset.Ruleset, nameOrID string) (ruleset.Rule, bool) {
	if r, ok := rs.Rule(nameOrID); ok {
		return r, true
	}

	for _, r := range rs.Rules {
		if r.Name == nameOrID {
			return r, true
		}
	}

	return ruleset.Rule{}, false
}

// resolveDomainType finds a domain type by id or, failing that, by
// name. Names are resolved in display order, first match wins.
func resolveDomainType(rs ruleset.Ruleset, nameOrID string) (ruleset.DomainType, bool) {
	if dt, ok := rs.DomainType(nameOrID); ok {
		return dt, true
	}

	for _, dt := range rs.Domains {
		if dt.Name == nameOrID {
			return dt, true
		}
	}

	return ruleset.DomainType{}, false
}

// writeRuleset serializes a ruleset back to path, in YAML when the
// extension calls for it.
func writeRuleset(path string, rs ruleset.Ruleset) error {
	data, err := document.Marshal(rs)
	if err != nil {
		return err
	}

	if isYAMLPath(path) {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("convert %s to yaml: %w", path, err)
		}
	} else {
		data = append(data, '\n')
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
