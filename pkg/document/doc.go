// Package document reads and writes the canonical JSON ruleset
// document, the sole persistence format and the interchange format
// consumed by the external classification engine.
//
// The document shape overloads the "domains" key: on a domain type it
// holds the family list, on a rule it holds domain type references.
// That shape is load-bearing for the external engine and must not
// change.
//
// Loading is deliberately lenient: beyond well-formed JSON and the two
// required top-level keys, nothing is validated. Dangling ids,
// duplicate ids, and parent cycles are accepted as-is and absorbed by
// the tolerant behavior of [github.com/macropower/synrule/pkg/hierarchy].
// Use [github.com/macropower/synrule/pkg/lint] for an optional strict
// pass.
package document
