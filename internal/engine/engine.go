package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/go-hclog"
	opa "github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"

	"github.com/apognu/regoer/internal/errors"
)

// Engine holds one prepared query over one Rego module. Preparation
// parses and compiles the module once; Evaluate only binds input and
// runs.
type Engine struct {
	prepared opa.PreparedEvalQuery
	logger   hclog.Logger
	timeout  time.Duration
}

// New compiles the module and prepares the query for evaluation. The
// optional data object is installed as the engine's base document,
// shared by every evaluation.
func New(ctx context.Context, source, query string, data map[string]any, opt ...Option) (*Engine, error) {
	const op = errors.Op("engine.New")

	opts := getOpts(opt...)

	regoOpts := []func(*opa.Rego){
		opa.Query(query),
		opa.Module("main.rego", source),
	}
	if len(data) > 0 {
		regoOpts = append(regoOpts, opa.Store(inmem.NewFromObject(data)))
	}

	prepared, err := opa.New(regoOpts...).PrepareForEval(ctx)
	if err != nil {
		return nil, errors.Wrap(err, op, errors.WithCode(errors.EngineCompile))
	}

	opts.withLogger.Debug("prepared rego module", "query", query, "bytes", len(source))
	opts.withLogger.Trace("module source", "source", source)

	return &Engine{
		prepared: prepared,
		logger:   opts.withLogger,
		timeout:  opts.withEvalTimeout,
	}, nil
}

// Evaluate runs the prepared query against the input. An undefined
// result is a plain false, never an error: missing input attributes
// mean the request does not match.
func (e *Engine) Evaluate(ctx context.Context, input any) (bool, error) {
	const op = errors.Op("engine.(Engine).Evaluate")

	value, err := normalize(input)
	if err != nil {
		return false, errors.Wrap(err, op, errors.WithCode(errors.EngineEval),
			errors.WithMsg("input is not representable as JSON"))
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	rs, err := e.prepared.Eval(ctx, opa.EvalInput(value))
	if err != nil {
		return false, errors.Wrap(err, op, errors.WithCode(errors.EngineEval))
	}

	allowed := rs.Allowed()
	e.logger.Debug("evaluated request", "allowed", allowed)

	return allowed, nil
}

// normalize round-trips the input through JSON so callers can pass
// maps, typed structs or raw JSON alike, and so evaluation sees the
// same shapes the module was written against.
func normalize(input any) (any, error) {
	if input == nil {
		return map[string]any{}, nil
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
