// Package ruleset defines the entities that make up a classification
// ruleset: domain types, rules, and the ruleset aggregate.
//
// All editing goes through the operations on [Ruleset], which are pure:
// each takes the current snapshot by value and returns a new one,
// repairing referential integrity where needed (e.g. children of a
// removed rule are promoted to roots). Nothing here performs I/O.
//
// Rules reference domain types positionally: a rule's evaluator
// expression addresses entries of its domain list by index. The
// expression text is opaque to this package; it is interpreted by the
// external classification engine that consumes serialized rulesets.
package ruleset
