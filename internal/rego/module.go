package rego

import (
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/apognu/regoer/internal/policy"
)

// Query is the entrypoint evaluated against a built module.
const Query = "data.main.allow"

// prelude opens every module: the three decision rules defaulted to
// false, the to_array and arn_like helpers the generated bodies call,
// and the combination rule. permit and deny collect per-statement
// results; allow holds only when some statement permits and none
// denies, an explicit Deny always wins.
const prelude = `package main

default allow := false
default deny := false
default permit := false

to_array(x) := x if { is_array(x) }
to_array(x) := [x] if { not is_array(x) }

arn_like(pattern, subject) if {
  count(indexof_n(pattern, ":")) == 5
  count(indexof_n(subject, ":")) == 5
  glob.match(pattern, [":"], subject)
}

allow if {
  permit
  not deny
}
`

// Build compiles the documents into one Rego module. Statements are
// emitted in document order, each as its named rule plus its permit or
// deny clause. Translation keeps going past a failing statement so one
// Build reports every error in the set, joined into a single error.
//
// Build is a pure function of its input: the same documents in the
// same order produce byte-identical output.
func Build(docs []*policy.Document) (string, error) {
	var b strings.Builder
	b.WriteString(prelude)

	var errs *multierror.Error
	for _, doc := range docs {
		for _, st := range doc.Statements {
			rules, err := compileStatement(st)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			for _, r := range rules {
				writeRule(&b, r)
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeRule(b *strings.Builder, r rule) {
	for _, body := range r.bodies {
		b.WriteByte('\n')
		b.WriteString(r.name)
		b.WriteString(" if {\n")
		for _, e := range body {
			b.WriteString("  ")
			e.write(b)
			b.WriteByte('\n')
		}
		b.WriteString("}\n")
	}
}
