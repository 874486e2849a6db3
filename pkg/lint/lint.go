// Package lint implements an optional strict integrity pass over a
// ruleset.
//
// Loading and hierarchy construction are tolerant on purpose: ruleset
// documents are expected to be hand-edited, so dangling references,
// duplicate ids, and parent cycles are absorbed rather than rejected.
// This package surfaces those inconsistencies as warnings for callers
// that want them, without ever failing a load. Evaluator expression
// text is opaque here and is never checked.
package lint

import (
	"fmt"

	"github.com/macropower/synrule/pkg/ruleset"
)

// Code identifies a class of integrity problem.
type Code string

const (
	// CodeDuplicateID is reported when two entities in the same
	// collection share an id.
	CodeDuplicateID Code = "duplicate-id"
	// CodeDanglingParent is reported when a rule's parent id matches no
	// rule.
	CodeDanglingParent Code = "dangling-parent"
	// CodeParentCycle is reported when a rule is its own ancestor.
	CodeParentCycle Code = "parent-cycle"
	// CodeDanglingDomain is reported when a rule references a domain
	// type id that matches no domain type.
	CodeDanglingDomain Code = "dangling-domain"
	// CodeEmptyName is reported when an entity has no name; the ruleset
	// still loads but is not complete.
	CodeEmptyName Code = "empty-name"
)

// Problem is one integrity warning. Problems never abort anything; a
// ruleset with problems still loads, serializes, and nests.
type Problem struct {
	Code    Code   // Class of problem.
	ID      string // Id of the offending entity.
	Message string // Human-readable description.
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %s", p.Code, p.ID, p.Message)
}

// Check scans a ruleset and returns every integrity problem found, in
// document order. An empty result means the ruleset is fully
// consistent.
func Check(rs ruleset.Ruleset) []Problem {
	var problems []Problem

	domainIDs := make(map[string]bool, len(rs.Domains))
	for _, dt := range rs.Domains {
		if domainIDs[dt.UUID] {
			problems = append(problems, Problem{
				Code:    CodeDuplicateID,
				ID:      dt.UUID,
				Message: "multiple domain types share this id",
			})
		}

		domainIDs[dt.UUID] = true

		if dt.Name == "" {
			problems = append(problems, Problem{
				Code:    CodeEmptyName,
				ID:      dt.UUID,
				Message: "domain type has no name",
			})
		}
	}

	ruleIDs := make(map[string]bool, len(rs.Rules))
	for _, r := range rs.Rules {
		if ruleIDs[r.UUID] {
			problems = append(problems, Problem{
				Code:    CodeDuplicateID,
				ID:      r.UUID,
				Message: "multiple rules share this id",
			})
		}

		ruleIDs[r.UUID] = true
	}

	for _, r := range rs.Rules {
		problems = append(problems, checkRule(rs, r, domainIDs)...)
	}

	return problems
}

func checkRule(rs ruleset.Ruleset, r ruleset.Rule, domainIDs map[string]bool) []Problem {
	var problems []Problem

	if r.Name == "" {
		problems = append(problems, Problem{
			Code:    CodeEmptyName,
			ID:      r.UUID,
			Message: "rule has no name",
		})
	}

	if r.ParentID != ruleset.NoParent {
		if _, ok := rs.Rule(r.ParentID); !ok {
			problems = append(problems, Problem{
				Code:    CodeDanglingParent,
				ID:      r.UUID,
				Message: fmt.Sprintf("parent %q matches no rule", r.ParentID),
			})
		}
	}

	if onCycle(rs, r) {
		problems = append(problems, Problem{
			Code:    CodeParentCycle,
			ID:      r.UUID,
			Message: "rule is its own ancestor",
		})
	}

	for i, id := range r.DomainRefs {
		if !domainIDs[id] {
			problems = append(problems, Problem{
				Code:    CodeDanglingDomain,
				ID:      r.UUID,
				Message: fmt.Sprintf("domain slot %d references unknown domain type %q", i, id),
			})
		}
	}

	return problems
}

// onCycle walks the parent chain of r and reports whether it revisits
// r. The seen set bounds the walk on chains that cycle elsewhere.
func onCycle(rs ruleset.Ruleset, r ruleset.Rule) bool {
	seen := map[string]bool{r.UUID: true}

	current := r
	for current.ParentID != ruleset.NoParent {
		parent, ok := rs.Rule(current.ParentID)
		if !ok {
			return false
		}

		if parent.UUID == r.UUID {
			return true
		}

		if seen[parent.UUID] {
			return false
		}

		seen[parent.UUID] = true
		current = parent
	}

	return false
}
