package rego

import (
	"fmt"
	"strings"

	"github.com/apognu/regoer/internal/errors"
	"github.com/apognu/regoer/internal/policy"
)

// rule is one named Rego rule. A rule with several bodies is emitted as
// several same-named clauses, which Rego ORs together.
type rule struct {
	name   string
	bodies [][]expr
}

// compileStatement lowers one statement into its rules: an optional
// principal helper, the statement rule itself, and the one-line clause
// tagging it into permit or deny.
func compileStatement(st policy.Statement) ([]rule, error) {
	const op = errors.Op("rego.compileStatement")

	name := "statement_" + sanitizeIdent(st.Sid)

	var body []expr

	principal, err := principalExprs(st, name)
	if err != nil {
		return nil, err
	}
	body = append(body, principal.inline...)

	for _, m := range []struct {
		match   policy.Match
		subject ref
	}{
		{st.Action, ref("input.action")},
		{st.Resource, ref("input.resource")},
	} {
		e, err := matchExpr(m.match, m.subject)
		if err != nil {
			return nil, errors.Wrap(err, op, errors.WithMsg(fmt.Sprintf("statement %q", st.Sid)))
		}
		if e != nil {
			body = append(body, e)
		}
	}

	for _, cond := range st.Conditions {
		exprs, err := translateCondition(cond)
		if err != nil {
			return nil, errors.Wrap(err, op, errors.WithMsg(fmt.Sprintf("statement %q", st.Sid)))
		}
		body = append(body, exprs...)
	}

	// A statement matching everything still needs a valid rule body.
	if len(body) == 0 {
		body = append(body, ref("true"))
	}

	var rules []rule
	if principal.helper != nil {
		rules = append(rules, *principal.helper)
	}
	rules = append(rules, rule{name: name, bodies: [][]expr{body}})

	tag := "permit"
	if st.Effect == policy.Deny {
		tag = "deny"
	}
	rules = append(rules, rule{name: tag, bodies: [][]expr{{ref(name)}}})

	return rules, nil
}

type principalClause struct {
	inline []expr
	helper *rule
}

// principalExprs lowers the statement's principal block. The wildcard
// principal matches anyone and emits nothing. A single kind inlines its
// matcher into the statement body. Several kinds OR together, which a
// single rule body cannot express, so they become a helper rule with
// one body per kind.
func principalExprs(st policy.Statement, stmtName string) (principalClause, error) {
	const op = errors.Op("rego.principalExprs")

	if st.Principal.Wildcard {
		return principalClause{}, nil
	}

	kinds := st.Principal.Kinds
	if len(kinds) == 1 {
		e, err := matchExpr(policy.Match{Patterns: kinds[0].IDs}, kindSubject(kinds[0].Kind))
		if err != nil {
			return principalClause{}, errors.Wrap(err, op, errors.WithMsg(fmt.Sprintf("statement %q", st.Sid)))
		}
		if e == nil {
			return principalClause{}, nil
		}
		return principalClause{inline: []expr{e}}, nil
	}

	helper := rule{name: "principal_" + sanitizeIdent(st.Sid)}
	for _, kind := range kinds {
		e, err := matchExpr(policy.Match{Patterns: kind.IDs}, kindSubject(kind.Kind))
		if err != nil {
			return principalClause{}, errors.Wrap(err, op, errors.WithMsg(fmt.Sprintf("statement %q", st.Sid)))
		}
		if e == nil {
			e = ref("true")
		}
		helper.bodies = append(helper.bodies, []expr{e})
	}

	return principalClause{
		inline: []expr{ref(helper.name)},
		helper: &helper,
	}, nil
}

// kindSubject maps a principal kind to the input attribute it matches
// against. "AWS" principals are the common case and read the bare
// input.principal; other kinds read a snake-cased attribute of their
// own ("Service" -> input.service, "CanonicalUser" ->
// input.canonical_user).
func kindSubject(kind string) ref {
	if kind == "AWS" {
		return ref("input.principal")
	}
	return ref("input." + snakeCase(kind))
}

// matchExpr builds the comparison for one action/resource/principal
// pattern set against its subject. It returns nil when the set trivially
// matches everything: a non-negated all-"*" set constrains nothing.
// The negated all-"*" set is kept, NotAction: "*" matches no request.
func matchExpr(m policy.Match, subject expr) (expr, error) {
	const op = errors.Op("rego.matchExpr")

	if m.MatchesAll() {
		return nil, nil
	}

	pats := make([]expr, 0, len(m.Patterns))
	hasGlob := false
	for _, p := range m.Patterns {
		if strings.ContainsAny(p, "*?") {
			hasGlob = true
		}
		e, err := interpolate(p)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		pats = append(pats, e)
	}

	if len(pats) == 1 {
		switch {
		case hasGlob && m.Negated:
			return not{globMatch(pats[0], subject)}, nil
		case hasGlob:
			return globMatch(pats[0], subject), nil
		case m.Negated:
			return ne(subject, pats[0]), nil
		default:
			return eq(subject, pats[0]), nil
		}
	}

	switch {
	case hasGlob && m.Negated:
		return every{"item", list(pats), not{globMatch(ref("item"), subject)}}, nil
	case hasGlob:
		return globMatch(anyIn{list(pats)}, subject), nil
	case m.Negated:
		return every{"item", list(pats), ne(ref("item"), subject)}, nil
	default:
		return eq(anyIn{list(pats)}, subject), nil
	}
}

// sanitizeIdent maps a statement identifier onto the Rego identifier
// alphabet. Parsing guarantees sids are unique, and distinct sids stay
// distinct under this mapping only if they differ in identifier
// characters; the builder synthesizes plain alphanumeric sids, so
// collisions would need two hand-written sids differing only in
// punctuation.
func sanitizeIdent(sid string) string {
	var b strings.Builder
	for i, r := range sid {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := rune(s[i-1])
				if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
