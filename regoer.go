// Package regoer transpiles AWS IAM policy documents into Rego modules
// and evaluates authorization requests against them.
//
// Policies are added to a Transpiler, which parses and normalizes them
// up front. Compile translates the accumulated set into one Rego module
// and prepares it inside an embedded OPA engine; the resulting
// Evaluator answers allow/deny decisions for request input documents.
//
//	t := regoer.New()
//	if err := t.AddPolicy(f); err != nil { ... }
//	ev, err := t.Compile(ctx)
//	if err != nil { ... }
//	ok, err := ev.Evaluate(ctx, map[string]any{
//		"principal": "apognu",
//		"action":    "s3:GetObject",
//		"resource":  "arn:aws:s3:::bucket/object",
//	})
//
// Beyond principal, action and resource, the input document is
// freeform; condition context keys like "aws:SourceIp" read nested
// attributes (input.aws.SourceIp). Attributes a policy references but
// the input omits simply fail to match, they never error.
package regoer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/apognu/regoer/internal/engine"
	"github.com/apognu/regoer/internal/errors"
	"github.com/apognu/regoer/internal/policy"
	"github.com/apognu/regoer/internal/rego"
)

// Transpiler accumulates policy documents and static data, then
// compiles them into an Evaluator. The zero value is not usable; create
// one with New. A Transpiler stays usable after Compile, more policies
// can be added and compiled again.
type Transpiler struct {
	mu   sync.Mutex
	docs []*policy.Document
	data map[string]any
	sids map[string]struct{}
	opts options
}

// New creates an empty Transpiler.
func New(opt ...Option) *Transpiler {
	return &Transpiler{
		data: map[string]any{},
		sids: map[string]struct{}{},
		opts: getOpts(opt...),
	}
}

// AddPolicy parses one IAM policy document and adds it to the set. The
// documents are concatenated at compile time; any policy's Deny binds
// the whole set.
//
// Statements without a Sid get one synthesized from the document's
// ordinal and the statement's index ("p0s1"), so generated rule names
// stay unique across the whole set. Explicit Sids are kept and must not
// repeat.
func (t *Transpiler) AddPolicy(r io.Reader) error {
	const op = errors.Op("regoer.(Transpiler).AddPolicy")

	doc, err := policy.Parse(r)
	if err != nil {
		return errors.Wrap(err, op)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ordinal := len(t.docs)
	for i := range doc.Statements {
		sid := doc.Statements[i].Sid
		if sid == "" {
			sid = fmt.Sprintf("p%ds%d", ordinal, i)
			doc.Statements[i].Sid = sid
		}
		if _, ok := t.sids[sid]; ok {
			return errors.E(errors.InvalidParameter, op,
				fmt.Sprintf("duplicate statement id %q", sid))
		}
		t.sids[sid] = struct{}{}
	}

	t.docs = append(t.docs, doc)

	return nil
}

// AddData registers static data shared by every decision, available to
// conditions under the data document. Only set-wide facts belong here;
// request attributes go in the Evaluate input. The value must marshal
// to a JSON object; top-level keys merge over previous AddData calls.
func (t *Transpiler) AddData(data any) error {
	const op = errors.Op("regoer.(Transpiler).AddData")

	raw, err := json.Marshal(data)
	if err != nil {
		return errors.E(errors.InvalidParameter, op,
			"data is not representable as JSON", errors.WithWrap(err))
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.E(errors.InvalidParameter, op, "data must be a JSON object", errors.WithWrap(err))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for k, v := range obj {
		t.data[k] = v
	}

	return nil
}

// Module translates the accumulated policies and returns the generated
// Rego source without compiling it. The output is deterministic: the
// same policies added in the same order yield byte-identical text.
func (t *Transpiler) Module() (string, error) {
	const op = errors.Op("regoer.(Transpiler).Module")

	t.mu.Lock()
	defer t.mu.Unlock()

	source, err := rego.Build(t.docs)
	if err != nil {
		return "", errors.Wrap(err, op)
	}
	return source, nil
}

// Compile translates the accumulated policies and prepares them for
// evaluation. Translation problems are reported together, one error per
// failing statement. Compile does not consume the Transpiler; calling
// it again, with or without further AddPolicy calls, yields a fresh
// independent Evaluator.
func (t *Transpiler) Compile(ctx context.Context) (*Evaluator, error) {
	const op = errors.Op("regoer.(Transpiler).Compile")

	t.mu.Lock()
	defer t.mu.Unlock()

	source, err := rego.Build(t.docs)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	data := make(map[string]any, len(t.data))
	for k, v := range t.data {
		data[k] = v
	}

	eng, err := engine.New(ctx, source, rego.Query, data,
		engine.WithLogger(t.opts.withLogger),
		engine.WithEvalTimeout(t.opts.withEvalTimeout))
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return &Evaluator{engine: eng, source: source}, nil
}

// Evaluator is a compiled policy set. It is immutable and safe for
// concurrent use.
type Evaluator struct {
	engine *engine.Engine
	source string
}

// Evaluate decides one request. The input may be a map, a typed struct
// or raw JSON; it is handed to the engine as a JSON document. The
// decision is allow = some statement permits and no statement denies.
func (e *Evaluator) Evaluate(ctx context.Context, input any) (bool, error) {
	const op = errors.Op("regoer.(Evaluator).Evaluate")

	ok, err := e.engine.Evaluate(ctx, input)
	if err != nil {
		return false, errors.Wrap(err, op)
	}
	return ok, nil
}

// Source returns the Rego module this Evaluator was compiled from.
func (e *Evaluator) Source() string {
	return e.source
}

// Query returns the decision path evaluated against the module.
func (e *Evaluator) Query() string {
	return rego.Query
}
