package ruleset

import (
	"slices"

	"github.com/google/uuid"
)

// NoParent marks a rule as a root of the hierarchy.
const NoParent = ""

// DomainType is a user-defined category of sequence domain, e.g. "KS",
// together with the conserved-domain families that count as a match.
type DomainType struct {
	// UUID uniquely identifies this domain type. Assigned at creation,
	// never changed.
	UUID string `json:"uuid" jsonschema:"title=UUID"`
	// Name is the user-supplied label, e.g. "KS".
	Name string `json:"name" jsonschema:"title=Name"`
	// Families lists acceptable domain-family matches, in order. Empty
	// means any family is acceptable.
	Families []string `json:"domains" jsonschema:"title=Families"`
}

// NewDomainType returns an empty domain type with a fresh id.
func NewDomainType() DomainType {
	return DomainType{
		UUID:     uuid.NewString(),
		Families: []string{},
	}
}

// Clone returns a deep copy.
func (dt DomainType) Clone() DomainType {
	dt.Families = slices.Clone(dt.Families)

	return dt
}

// Filter narrows one of a rule's domain slots to a single family.
type Filter struct {
	// Domain references the constrained slot, by domain type id.
	Domain string `json:"domain" jsonschema:"title=Domain"`
	// Family is the only family that satisfies the slot.
	Family string `json:"family" jsonschema:"title=Family"`
}

// Rename relabels a matched domain after classification.
type Rename struct {
	// From references the source domain, by domain type id.
	From string `json:"from" jsonschema:"title=From"`
	// To is the replacement label.
	To string `json:"to" jsonschema:"title=To"`
}

// Rule is a single classification rule. It requires some boolean
// combination of domain types, stated by the Evaluator expression over
// positional indices into DomainRefs.
type Rule struct {
	// UUID uniquely identifies this rule. Assigned at creation, never
	// changed.
	UUID string `json:"uuid" jsonschema:"title=UUID"`
	// Name is the user-supplied label, e.g. "HR-PKS".
	Name string `json:"name" jsonschema:"title=Name"`
	// DomainRefs lists the ids of the domain types this rule uses.
	// Order matters: the evaluator addresses entries by index.
	DomainRefs []string `json:"domains" jsonschema:"title=Domain References"`
	// Filters constrain individual domain slots to specific families.
	Filters []Filter `json:"filters" jsonschema:"title=Filters"`
	// Renames relabel matched domains after classification.
	Renames []Rename `json:"renames" jsonschema:"title=Renames"`
	// Evaluator is a boolean expression over indices 0..len(DomainRefs)-1,
	// combined with and/or/parentheses. Stored as text; evaluated by the
	// external classification engine, never by this module.
	Evaluator string `json:"evaluator" jsonschema:"title=Evaluator Expression"`
	// ParentID is the id of the rule gating this one, or [NoParent] for
	// a root rule.
	ParentID string `json:"parent" jsonschema:"title=Parent"`
}

// NewRule returns an empty root rule with a fresh id.
func NewRule() Rule {
	return Rule{
		UUID:       uuid.NewString(),
		DomainRefs: []string{},
		Filters:    []Filter{},
		Renames:    []Rename{},
		ParentID:   NoParent,
	}
}

// Clone returns a deep copy.
func (r Rule) Clone() Rule {
	r.DomainRefs = slices.Clone(r.DomainRefs)
	r.Filters = slices.Clone(r.Filters)
	r.Renames = slices.Clone(r.Renames)

	return r
}

// Ruleset is the complete, persistable aggregate of domain types and
// rules. Slice order is insertion order and is preserved for display
// and serialization.
type Ruleset struct {
	Domains []DomainType `json:"domains"`
	Rules   []Rule       `json:"rules"`
}

// New returns an empty ruleset.
func New() Ruleset {
	return Ruleset{
		Domains: []DomainType{},
		Rules:   []Rule{},
	}
}

// Clone returns a deep copy.
func (rs Ruleset) Clone() Ruleset {
	domains := make([]DomainType, len(rs.Domains))
	for i, dt := range rs.Domains {
		domains[i] = dt.Clone()
	}

	rules := make([]Rule, len(rs.Rules))
	for i, r := range rs.Rules {
		rules[i] = r.Clone()
	}

	return Ruleset{Domains: domains, Rules: rules}
}

// DomainType returns the domain type with the given id.
func (rs Ruleset) DomainType(id string) (DomainType, bool) {
	for _, dt := range rs.Domains {
		if dt.UUID == id {
			return dt, true
		}
	}

	return DomainType{}, false
}

// Rule returns the rule with the given id.
func (rs Ruleset) Rule(id string) (Rule, bool) {
	for _, r := range rs.Rules {
		if r.UUID == id {
			return r, true
		}
	}

	return Rule{}, false
}
