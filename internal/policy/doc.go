// Package policy provides the typed model of an AWS IAM policy document
// and the parser that builds it from raw JSON.
//
// IAM's grammar is permissive: most fields accept either a bare scalar
// or a list, "Statement" itself can be a single object, and negated
// variants (NotAction, NotResource) share a slot with their positive
// counterparts. Parse normalizes all of that exactly once, so every
// component downstream of it operates on one canonical shape: slices,
// ordered deterministically, with negation carried as a flag.
//
// Parsing is a pure transform. It never evaluates anything and never
// talks to the policy engine.
package policy
