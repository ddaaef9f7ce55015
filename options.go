package regoer

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// getOpts iterates the inbound Options and returns a struct.
func getOpts(opt ...Option) options {
	opts := options{}
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// Option configures a Transpiler.
type Option func(*options)

type options struct {
	withLogger      hclog.Logger
	withEvalTimeout time.Duration
}

// WithLogger provides a logger passed down to the evaluation engine.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		o.withLogger = l
	}
}

// WithEvalTimeout bounds each Evaluate call compiled from this
// Transpiler. Zero means no bound beyond the caller's context.
func WithEvalTimeout(d time.Duration) Option {
	return func(o *options) {
		o.withEvalTimeout = d
	}
}
