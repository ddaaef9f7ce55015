// Package rego translates the normalized IAM policy model into a Rego
// module.
//
// The translation is a small compiler: each statement's principal,
// action, resource and condition blocks become boolean expressions over
// Rego primitives, assembled into one named rule per statement, plus a
// one-line clause tagging the rule into permit or deny. The module
// prelude wires IAM's combination rule, allow = permit AND NOT deny, so
// an explicit Deny always wins.
//
// Two properties the emitted code must uphold:
//
//   - Missing context data is never an error. A reference into input
//     that does not exist makes the enclosing expression undefined,
//     which Rego treats as false, exactly IAM's missing-key semantics.
//     Quantified conditions (ForAllValues/ForAnyValue) guard the
//     reference with object.get so an absent key is an empty set.
//
//   - Building is deterministic. Identical documents, in identical
//     order, produce byte-identical module text; the parser sorts every
//     JSON-object-shaped field and the emitter adds no nondeterminism.
package rego
