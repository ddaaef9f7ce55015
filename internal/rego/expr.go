package rego

import (
	"strconv"
	"strings"
	"unicode"
)

// expr is one node of the generated boolean expression tree. Nodes
// print themselves; the tree is built fully before anything is written,
// so translation errors never leave a half-emitted rule behind.
type expr interface {
	write(b *strings.Builder)
}

// ref is a raw Rego reference or variable, printed verbatim.
type ref string

func (r ref) write(b *strings.Builder) {
	b.WriteString(string(r))
}

// ctxRef is a reference into the input document, held as path segments
// so segments that are not valid Rego identifiers can be printed in
// bracket form (input.s3["max-keys"] rather than input.s3.max-keys,
// which Rego would read as subtraction).
type ctxRef []string

func (r ctxRef) write(b *strings.Builder) {
	for i, seg := range r {
		switch {
		case i == 0:
			b.WriteString(seg)
		case isIdent(seg):
			b.WriteByte('.')
			b.WriteString(seg)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(seg))
			b.WriteByte(']')
		}
	}
}

// lit is a plain string literal.
type lit string

func (l lit) write(b *strings.Builder) {
	b.WriteString(strconv.Quote(string(l)))
}

// tmpl is a string rendered at evaluation time: a sprintf format with
// one %s per interpolated policy variable.
type tmpl struct {
	format string
	args   []expr
}

func (t tmpl) write(b *strings.Builder) {
	b.WriteString("sprintf(")
	b.WriteString(strconv.Quote(t.format))
	b.WriteString(", ")
	list(t.args).write(b)
	b.WriteByte(')')
}

type intLit int64

func (i intLit) write(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(i), 10))
}

type boolLit bool

func (v boolLit) write(b *strings.Builder) {
	b.WriteString(strconv.FormatBool(bool(v)))
}

type list []expr

func (l list) write(b *strings.Builder) {
	b.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			b.WriteString(", ")
		}
		item.write(b)
	}
	b.WriteByte(']')
}

// anyIn prints its operand followed by [_], Rego's any-member
// iteration: an expression over coll[_] holds if it holds for at least
// one member.
type anyIn struct {
	of expr
}

func (a anyIn) write(b *strings.Builder) {
	a.of.write(b)
	b.WriteString("[_]")
}

type call struct {
	fn   string
	args []expr
}

func (c call) write(b *strings.Builder) {
	b.WriteString(c.fn)
	b.WriteByte('(')
	for i, arg := range c.args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.write(b)
	}
	b.WriteByte(')')
}

type not struct {
	of expr
}

func (n not) write(b *strings.Builder) {
	b.WriteString("not ")
	n.of.write(b)
}

type binary struct {
	op       string
	lhs, rhs expr
}

func (o binary) write(b *strings.Builder) {
	o.lhs.write(b)
	b.WriteByte(' ')
	b.WriteString(o.op)
	b.WriteByte(' ')
	o.rhs.write(b)
}

// every is Rego's universal quantifier: every ident in coll { body }.
type every struct {
	ident string
	in    expr
	body  expr
}

func (e every) write(b *strings.Builder) {
	b.WriteString("every ")
	b.WriteString(e.ident)
	b.WriteString(" in ")
	e.in.write(b)
	b.WriteString(" { ")
	e.body.write(b)
	b.WriteString(" }")
}

func eq(lhs, rhs expr) expr  { return binary{"==", lhs, rhs} }
func ne(lhs, rhs expr) expr  { return binary{"!=", lhs, rhs} }
func lt(lhs, rhs expr) expr  { return binary{"<", lhs, rhs} }
func lte(lhs, rhs expr) expr { return binary{"<=", lhs, rhs} }
func gt(lhs, rhs expr) expr  { return binary{">", lhs, rhs} }
func gte(lhs, rhs expr) expr { return binary{">=", lhs, rhs} }

func render(e expr) string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

// isIdent reports whether s is a valid Rego identifier segment.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
