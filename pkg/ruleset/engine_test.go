package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/synrule/pkg/ruleset"
)

func TestAddDomainTypePrepends(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType()
	first := rs.Domains[0].UUID

	rs = rs.AddDomainType()

	require.Len(t, rs.Domains, 2)
	assert.Equal(t, first, rs.Domains[1].UUID)
}

func TestAddRulePrepends(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddRule()
	first := rs.Rules[0].UUID

	rs = rs.AddRule()

	require.Len(t, rs.Rules, 2)
	assert.Equal(t, first, rs.Rules[1].UUID)
}

func TestRemoveDomainTypeLeavesRulesUntouched(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType().AddRule()
	domainID := rs.Domains[0].UUID
	ruleID := rs.Rules[0].UUID
	rs = rs.UpdateRule(ruleID, func(r *ruleset.Rule) {
		r.DomainRefs = []string{domainID}
	})

	rs = rs.RemoveDomainType(domainID)

	assert.Empty(t, rs.Domains)

	// The reference dangles on purpose; removal does not cascade.
	r, ok := rs.Rule(ruleID)
	require.True(t, ok)
	assert.Equal(t, []string{domainID}, r.DomainRefs)
}

func TestRemoveRulePromotesChildren(t *testing.T) {
	t.Parallel()

	// A (root) <- B <- C.
	rs := ruleset.New().AddRule()
	a := rs.Rules[0].UUID
	rs = rs.AddRule()
	b := rs.Rules[0].UUID
	rs = rs.AddRule()
	c := rs.Rules[0].UUID

	rs = rs.
		UpdateRule(b, func(r *ruleset.Rule) { r.ParentID = a }).
		UpdateRule(c, func(r *ruleset.Rule) { r.ParentID = b })

	rs = rs.RemoveRule(a)

	require.Len(t, rs.Rules, 2)

	_, ok := rs.Rule(a)
	assert.False(t, ok)

	rb, ok := rs.Rule(b)
	require.True(t, ok)
	assert.Equal(t, ruleset.NoParent, rb.ParentID, "B should be promoted to a root")

	rc, ok := rs.Rule(c)
	require.True(t, ok)
	assert.Equal(t, b, rc.ParentID, "C should still be under B")
}

func TestRemoveRuleIsPure(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddRule()
	a := rs.Rules[0].UUID
	rs = rs.AddRule()
	b := rs.Rules[0].UUID
	rs = rs.UpdateRule(b, func(r *ruleset.Rule) { r.ParentID = a })

	next := rs.RemoveRule(a)

	// The prior snapshot is untouched.
	require.Len(t, rs.Rules, 2)
	rb, ok := rs.Rule(b)
	require.True(t, ok)
	assert.Equal(t, a, rb.ParentID)

	require.Len(t, next.Rules, 1)
}

func TestUpdateRuleIsolation(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType().AddRule().AddRule()
	target := rs.Rules[0].UUID
	other := rs.Rules[1]

	rs = rs.UpdateRule(target, func(r *ruleset.Rule) {
		r.DomainRefs = []string{rs.Domains[0].UUID}
		r.Evaluator = "0"
	})

	next := rs.UpdateRule(target, func(r *ruleset.Rule) {
		r.Name = "PKS"
	})

	got, ok := next.Rule(target)
	require.True(t, ok)
	assert.Equal(t, "PKS", got.Name)

	// Every other field of the target is unchanged.
	want, _ := rs.Rule(target)
	want.Name = "PKS"
	assert.Equal(t, want, got)

	// Other rules are unchanged, value and all.
	assert.Equal(t, other, next.Rules[1])

	// The prior snapshot never sees the update.
	prior, _ := rs.Rule(target)
	assert.Empty(t, prior.Name)
}

func TestUpdateRulePreservesIdentity(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddRule()
	id := rs.Rules[0].UUID

	rs = rs.UpdateRule(id, func(r *ruleset.Rule) {
		r.UUID = "hijacked"
		r.Name = "KS"
	})

	r, ok := rs.Rule(id)
	require.True(t, ok, "identity must survive update")
	assert.Equal(t, "KS", r.Name)

	_, ok = rs.Rule("hijacked")
	assert.False(t, ok)
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType().AddRule()

	gotRules := rs.UpdateRule("missing", func(r *ruleset.Rule) { r.Name = "X" })
	assert.Equal(t, rs, gotRules)

	gotDomains := rs.UpdateDomainType("missing", func(dt *ruleset.DomainType) { dt.Name = "X" })
	assert.Equal(t, rs, gotDomains)
}

func TestRemoveMissingIDIsNoop(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType().AddRule()

	assert.Equal(t, rs, rs.RemoveRule("missing"))
	assert.Equal(t, rs, rs.RemoveDomainType("missing"))
}

func TestUpdateDomainType(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType()
	id := rs.Domains[0].UUID

	rs = rs.UpdateDomainType(id, func(dt *ruleset.DomainType) {
		dt.Name = "KS"
		dt.Families = []string{"PKS_KS", "CLF"}
	})

	dt, ok := rs.DomainType(id)
	require.True(t, ok)
	assert.Equal(t, "KS", dt.Name)
	assert.Equal(t, []string{"PKS_KS", "CLF"}, dt.Families)
}

func TestResetIsIdempotent(t *testing.T) {
	t.Parallel()

	rs := ruleset.New().AddDomainType().AddRule()

	once := rs.Reset()
	twice := once.Reset()

	assert.Equal(t, ruleset.New(), once)
	assert.Equal(t, once, twice)
}
