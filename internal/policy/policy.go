package policy

// SupportedVersion is the only policy language version this package
// accepts.
const SupportedVersion = "2012-10-17"

// Effect is a statement's effect.
type Effect int

const (
	UnknownEffect Effect = iota
	Allow
	Deny
)

// String returns the IAM spelling of the effect.
func (e Effect) String() string {
	switch e {
	case Allow:
		return "Allow"
	case Deny:
		return "Deny"
	default:
		return "Unknown"
	}
}

// Document is a parsed, normalized IAM policy document. It is owned by
// the builder that parsed it and must not be mutated afterwards.
type Document struct {
	Version    string
	Statements []Statement
}

// Statement is one Allow/Deny rule within a policy.
type Statement struct {
	// Sid identifies the statement. It may be empty after Parse; the
	// accumulating builder synthesizes one before translation so every
	// statement across every added document has a unique identifier.
	Sid string

	Effect Effect

	Principal Principal

	// Action holds the action patterns; Negated is set for NotAction.
	Action Match

	// Resource holds the resource patterns; Negated is set for
	// NotResource.
	Resource Match

	// Conditions holds the condition block, ordered by operator name.
	Conditions []Condition
}

// Match is a set of glob patterns matched against a single subject
// (the request's action or resource). An absent field parses to a
// single "*" pattern, IAM's match-everything default.
type Match struct {
	Patterns []string
	Negated  bool
}

// MatchesAll reports whether the pattern set trivially matches any
// subject.
func (m Match) MatchesAll() bool {
	if m.Negated {
		return false
	}
	for _, p := range m.Patterns {
		if p != "*" {
			return false
		}
	}
	return len(m.Patterns) > 0
}

// Principal is either the wildcard principal or a set of identifiers
// grouped by principal kind ("AWS", "Service", "Federated", ...).
type Principal struct {
	Wildcard bool

	// Kinds is ordered deterministically (see kindOrder).
	Kinds []PrincipalKind
}

// PrincipalKind groups principal identifiers under one kind.
type PrincipalKind struct {
	Kind string
	IDs  []string
}

// Condition is one operator entry of a condition block, e.g.
// "StringEquals" or "ForAllValues:StringNotLike", with its per-key
// value sets. Keys are ordered by name.
type Condition struct {
	Operator string
	Keys     []ConditionKey
}

// ConditionKey is one context key and its non-empty literal value set.
type ConditionKey struct {
	Key    string
	Values []Value
}

// ValueType discriminates Value.
type ValueType int

const (
	StringValue ValueType = iota
	NumberValue
	BoolValue
)

// Value is a condition literal: string, integer or boolean.
type Value struct {
	Type ValueType
	Str  string
	Num  int64
	Bool bool
}

// StringVal returns a string Value.
func StringVal(s string) Value { return Value{Type: StringValue, Str: s} }

// NumberVal returns an integer Value.
func NumberVal(n int64) Value { return Value{Type: NumberValue, Num: n} }

// BoolVal returns a boolean Value.
func BoolVal(b bool) Value { return Value{Type: BoolValue, Bool: b} }
