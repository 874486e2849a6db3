package ruleset

// Editing operations. Each is a pure function of (snapshot, arguments):
// the receiver is never mutated, and the returned [Ruleset] is a full
// replacement snapshot. Operations on ids that do not exist are no-ops
// that return an equivalent snapshot, so applying the same operation
// twice yields the same state.

// AddDomainType inserts a new empty domain type at the front of the
// domain list.
func (rs Ruleset) AddDomainType() Ruleset {
	rs.Domains = prepend(rs.Domains, NewDomainType())

	return rs
}

// RemoveDomainType removes the domain type with the given id. Rules
// referencing it are left untouched: dangling domain references are
// tolerated and simply resolve to nothing in index-based lookups.
func (rs Ruleset) RemoveDomainType(id string) Ruleset {
	domains := make([]DomainType, 0, len(rs.Domains))
	for _, dt := range rs.Domains {
		if dt.UUID != id {
			domains = append(domains, dt)
		}
	}

	rs.Domains = domains

	return rs
}

// UpdateDomainType applies mutate to a copy of the identified domain
// type and replaces it in the returned snapshot. Identity is preserved:
// any change mutate makes to the UUID is discarded. No-op if the id is
// not found.
func (rs Ruleset) UpdateDomainType(id string, mutate func(*DomainType)) Ruleset {
	domains := make([]DomainType, len(rs.Domains))
	for i, dt := range rs.Domains {
		if dt.UUID == id {
			dt = dt.Clone()
			mutate(&dt)
			dt.UUID = id
		}

		domains[i] = dt
	}

	rs.Domains = domains

	return rs
}

// AddRule inserts a new empty root rule at the front of the rule list.
func (rs Ruleset) AddRule() Ruleset {
	rs.Rules = prepend(rs.Rules, NewRule())

	return rs
}

// RemoveRule removes the rule with the given id and, in the same step,
// promotes its direct children to roots by clearing their parent. The
// returned snapshot never holds a parent reference dangling on account
// of this removal.
func (rs Ruleset) RemoveRule(id string) Ruleset {
	rules := make([]Rule, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		if r.UUID == id {
			continue
		}

		if r.ParentID == id {
			r = r.Clone()
			r.ParentID = NoParent
		}

		rules = append(rules, r)
	}

	rs.Rules = rules

	return rs
}

// UpdateRule applies mutate to a copy of the identified rule and
// replaces it in the returned snapshot. Identity is preserved: any
// change mutate makes to the UUID is discarded. No-op if the id is not
// found.
func (rs Ruleset) UpdateRule(id string, mutate func(*Rule)) Ruleset {
	rules := make([]Rule, len(rs.Rules))
	for i, r := range rs.Rules {
		if r.UUID == id {
			r = r.Clone()
			mutate(&r)
			r.UUID = id
		}

		rules[i] = r
	}

	rs.Rules = rules

	return rs
}

// Reset returns an empty ruleset, discarding all domain types and rules.
func (rs Ruleset) Reset() Ruleset {
	return New()
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	out = append(out, s...)

	return out
}
