package policy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/apognu/regoer/internal/errors"
)

type rawDocument struct {
	Version   string          `json:"Version"`
	Statement json.RawMessage `json:"Statement"`
}

type rawStatement struct {
	Sid          string          `json:"Sid"`
	Effect       string          `json:"Effect"`
	Principal    json.RawMessage `json:"Principal"`
	NotPrincipal json.RawMessage `json:"NotPrincipal"`
	Action       json.RawMessage `json:"Action"`
	NotAction    json.RawMessage `json:"NotAction"`
	Resource     json.RawMessage `json:"Resource"`
	NotResource  json.RawMessage `json:"NotResource"`
	Condition    json.RawMessage `json:"Condition"`
}

// Parse reads a single IAM policy document and returns its normalized
// model. It is a pure transform: no side effects, no engine calls.
func Parse(r io.Reader) (*Document, error) {
	const op = errors.Op("policy.Parse")

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.E(errors.InvalidParameter, op, "reading policy document", errors.WithWrap(err))
	}

	var doc rawDocument
	if err := decode(raw, &doc); err != nil {
		return nil, errors.E(errors.MalformedJson, op, "policy document is not valid json", errors.WithWrap(err))
	}

	if doc.Version != SupportedVersion {
		return nil, errors.E(errors.UnsupportedVersion, op,
			fmt.Sprintf("version %q is not supported, expected %q", doc.Version, SupportedVersion))
	}

	// "Statement" accepts a single object or an array of objects.
	var raws []json.RawMessage
	switch {
	case len(doc.Statement) == 0:
		return nil, errors.E(errors.MissingField, op, `missing field "Statement"`)
	case firstByte(doc.Statement) == '[':
		if err := decode(doc.Statement, &raws); err != nil {
			return nil, errors.E(errors.MalformedJson, op, `field "Statement" is not a valid array`, errors.WithWrap(err))
		}
	default:
		raws = []json.RawMessage{doc.Statement}
	}

	out := &Document{Version: doc.Version}
	for i, raw := range raws {
		stmt, err := parseStatement(raw, i)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, stmt)
	}

	return out, nil
}

func parseStatement(raw json.RawMessage, idx int) (Statement, error) {
	const op = errors.Op("policy.parseStatement")

	var rs rawStatement
	if err := decode(raw, &rs); err != nil {
		return Statement{}, errors.E(errors.MalformedJson, op,
			fmt.Sprintf("%s is not a valid object", stmtLabel(rs.Sid, idx)), errors.WithWrap(err))
	}
	label := stmtLabel(rs.Sid, idx)

	var effect Effect
	switch rs.Effect {
	case "Allow":
		effect = Allow
	case "Deny":
		effect = Deny
	case "":
		return Statement{}, errors.E(errors.MissingField, op, fmt.Sprintf(`%s: missing field "Effect"`, label))
	default:
		return Statement{}, errors.E(errors.InvalidField, op,
			fmt.Sprintf(`%s: field "Effect" must be "Allow" or "Deny", got %q`, label, rs.Effect))
	}

	if len(rs.NotPrincipal) != 0 {
		return Statement{}, errors.E(errors.UnsupportedNegation, op,
			fmt.Sprintf(`%s: "NotPrincipal" is not supported`, label))
	}

	principal, err := parsePrincipal(rs.Principal, label)
	if err != nil {
		return Statement{}, err
	}

	action, err := parseMatch(rs.Action, rs.NotAction, "Action", label)
	if err != nil {
		return Statement{}, err
	}

	resource, err := parseMatch(rs.Resource, rs.NotResource, "Resource", label)
	if err != nil {
		return Statement{}, err
	}

	conditions, err := parseConditions(rs.Condition, label)
	if err != nil {
		return Statement{}, err
	}

	return Statement{
		Sid:        rs.Sid,
		Effect:     effect,
		Principal:  principal,
		Action:     action,
		Resource:   resource,
		Conditions: conditions,
	}, nil
}

func parsePrincipal(raw json.RawMessage, label string) (Principal, error) {
	const op = errors.Op("policy.parsePrincipal")

	// An absent principal applies to any principal, same as "*".
	if len(raw) == 0 {
		return Principal{Wildcard: true}, nil
	}

	if firstByte(raw) == '"' {
		var s string
		if err := decode(raw, &s); err != nil {
			return Principal{}, errors.E(errors.MalformedJson, op,
				fmt.Sprintf(`%s: field "Principal" is not valid`, label), errors.WithWrap(err))
		}
		if s != "*" {
			return Principal{}, errors.E(errors.InvalidField, op,
				fmt.Sprintf(`%s: a bare "Principal" string must be "*", got %q`, label, s))
		}
		return Principal{Wildcard: true}, nil
	}

	var kinds map[string]json.RawMessage
	if err := decode(raw, &kinds); err != nil {
		return Principal{}, errors.E(errors.MalformedJson, op,
			fmt.Sprintf(`%s: field "Principal" must be "*" or an object`, label), errors.WithWrap(err))
	}
	if len(kinds) == 0 {
		return Principal{}, errors.E(errors.InvalidField, op,
			fmt.Sprintf(`%s: field "Principal" must name at least one principal kind`, label))
	}

	var p Principal
	for kind, raw := range kinds {
		ids, err := stringList(raw)
		if err != nil {
			return Principal{}, errors.E(errors.InvalidField, op,
				fmt.Sprintf(`%s: principal kind %q must hold a string or a list of strings`, label, kind), errors.WithWrap(err))
		}
		if len(ids) == 0 {
			return Principal{}, errors.E(errors.InvalidField, op,
				fmt.Sprintf(`%s: principal kind %q must not be empty`, label, kind))
		}
		p.Kinds = append(p.Kinds, PrincipalKind{Kind: kind, IDs: ids})
	}

	// JSON objects carry no member order; sort so identical documents
	// always yield identical generated modules.
	sort.Slice(p.Kinds, func(i, j int) bool { return p.Kinds[i].Kind < p.Kinds[j].Kind })

	return p, nil
}

func parseMatch(pos, neg json.RawMessage, field, label string) (Match, error) {
	const op = errors.Op("policy.parseMatch")

	if len(pos) != 0 && len(neg) != 0 {
		return Match{}, errors.E(errors.ConflictingFields, op,
			fmt.Sprintf(`%s: %q and "Not%s" are mutually exclusive`, label, field, field))
	}

	raw, negated := pos, false
	if len(neg) != 0 {
		raw, negated = neg, true
	}

	// Absent action and resource blocks both default to match-everything.
	if len(raw) == 0 {
		return Match{Patterns: []string{"*"}}, nil
	}

	patterns, err := stringList(raw)
	if err != nil {
		return Match{}, errors.E(errors.InvalidField, op,
			fmt.Sprintf(`%s: field %q must hold a string or a list of strings`, label, field), errors.WithWrap(err))
	}
	if len(patterns) == 0 {
		return Match{}, errors.E(errors.InvalidField, op,
			fmt.Sprintf(`%s: field %q must not be empty`, label, field))
	}

	return Match{Patterns: patterns, Negated: negated}, nil
}

func parseConditions(raw json.RawMessage, label string) ([]Condition, error) {
	const op = errors.Op("policy.parseConditions")

	if len(raw) == 0 {
		return nil, nil
	}

	var block map[string]map[string]json.RawMessage
	if err := decode(raw, &block); err != nil {
		return nil, errors.E(errors.MalformedJson, op,
			fmt.Sprintf(`%s: field "Condition" is not a valid object`, label), errors.WithWrap(err))
	}

	var out []Condition
	for operator, keys := range block {
		cond := Condition{Operator: operator}
		for key, raw := range keys {
			values, err := valueList(raw)
			if err != nil {
				return nil, errors.E(errors.InvalidField, op,
					fmt.Sprintf(`%s: condition %s/%s: %v`, label, operator, key, err))
			}
			if len(values) == 0 {
				return nil, errors.E(errors.InvalidField, op,
					fmt.Sprintf(`%s: condition %s/%s must not have an empty value set`, label, operator, key))
			}
			cond.Keys = append(cond.Keys, ConditionKey{Key: key, Values: values})
		}
		if len(cond.Keys) == 0 {
			return nil, errors.E(errors.InvalidField, op,
				fmt.Sprintf(`%s: condition %s must name at least one context key`, label, operator))
		}
		sort.Slice(cond.Keys, func(i, j int) bool { return cond.Keys[i].Key < cond.Keys[j].Key })
		out = append(out, cond)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Operator < out[j].Operator })

	return out, nil
}

// stringList normalizes a scalar-or-list JSON fragment into a slice of
// strings.
func stringList(raw json.RawMessage) ([]string, error) {
	if firstByte(raw) == '[' {
		var list []string
		if err := decode(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var s string
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// valueList normalizes a scalar-or-list JSON fragment into condition
// values (string, integer or boolean literals).
func valueList(raw json.RawMessage) ([]Value, error) {
	var scalars []any
	if firstByte(raw) == '[' {
		if err := decode(raw, &scalars); err != nil {
			return nil, err
		}
	} else {
		var v any
		if err := decode(raw, &v); err != nil {
			return nil, err
		}
		scalars = []any{v}
	}

	values := make([]Value, 0, len(scalars))
	for _, s := range scalars {
		switch v := s.(type) {
		case string:
			values = append(values, StringVal(v))
		case bool:
			values = append(values, BoolVal(v))
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("value %v is not an integer", v)
			}
			values = append(values, NumberVal(n))
		default:
			return nil, fmt.Errorf("value %v must be a string, number or boolean", s)
		}
	}

	return values, nil
}

// decode unmarshals with UseNumber so numeric condition values survive
// without float conversion.
func decode(raw []byte, into any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(into); err != nil {
		return err
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func stmtLabel(sid string, idx int) string {
	if sid != "" {
		return fmt.Sprintf("statement %q", sid)
	}
	return fmt.Sprintf("statement #%d", idx)
}
