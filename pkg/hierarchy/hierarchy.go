package hierarchy

import (
	"github.com/macropower/synrule/pkg/ruleset"
)

// Node is one rule in the reconstructed forest: a copy of the rule plus
// the subtree of rules whose parent reference points at it.
type Node struct {
	ruleset.Rule

	Children []Node `json:"children"`
}

// Nest builds the forest rooted at parentID from a flat rule list,
// usually the full [ruleset.Ruleset] rule list with
// [ruleset.NoParent] as the root marker.
//
// Within each level, nodes keep the order in which their rules occur in
// the input; nothing is sorted. A rule whose parent id matches no rule
// in the list is unreachable from any root and appears nowhere in the
// result. The input is never mutated; returned nodes hold copies.
//
// Rules are grouped by parent id in a single pass before recursing, so
// construction is O(n) in the number of rules. Each rule is emitted at
// most once per call, which also bounds recursion when an imported
// document carries a parent cycle.
func Nest(rules []ruleset.Rule, parentID string) []Node {
	byParent := make(map[string][]ruleset.Rule, len(rules))
	for _, r := range rules {
		byParent[r.ParentID] = append(byParent[r.ParentID], r)
	}

	b := builder{
		byParent: byParent,
		emitted:  make(map[string]bool, len(rules)),
	}

	return b.nest(parentID)
}

type builder struct {
	byParent map[string][]ruleset.Rule
	emitted  map[string]bool
}

func (b builder) nest(parentID string) []Node {
	children := b.byParent[parentID]
	if len(children) == 0 {
		return nil
	}

	nodes := make([]Node, 0, len(children))
	for _, r := range children {
		if b.emitted[r.UUID] {
			// Duplicate id or parent cycle in an imported document.
			continue
		}

		b.emitted[r.UUID] = true

		nodes = append(nodes, Node{
			Rule:     r.Clone(),
			Children: b.nest(r.UUID),
		})
	}

	return nodes
}

// Walk visits every node of the forest in depth-first, source order,
// which is the deterministic order the external classification engine
// evaluates rules in.
func Walk(forest []Node, visit func(depth int, n Node)) {
	walk(forest, 0, visit)
}

func walk(nodes []Node, depth int, visit func(depth int, n Node)) {
	for _, n := range nodes {
		visit(depth, n)
		walk(n.Children, depth+1, visit)
	}
}

// Orphans returns the rules that appear nowhere in the forest rooted at
// [ruleset.NoParent]: rules whose parent chain never reaches a root,
// either because a parent id is dangling or because the chain cycles.
func Orphans(rules []ruleset.Rule) []ruleset.Rule {
	reachable := make(map[string]bool, len(rules))
	Walk(Nest(rules, ruleset.NoParent), func(_ int, n Node) {
		reachable[n.UUID] = true
	})

	var orphans []ruleset.Rule
	for _, r := range rules {
		if !reachable[r.UUID] {
			orphans = append(orphans, r.Clone())
		}
	}

	return orphans
}
