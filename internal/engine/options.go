package engine

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// getOpts iterates the inbound Options and returns a struct.
func getOpts(opt ...Option) options {
	opts := getDefaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// Option configures how an Engine is created.
type Option func(*options)

type options struct {
	withLogger      hclog.Logger
	withEvalTimeout time.Duration
}

func getDefaultOptions() options {
	return options{
		withLogger: hclog.NewNullLogger(),
	}
}

// WithLogger provides a logger for compile and evaluation events.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.withLogger = l
		}
	}
}

// WithEvalTimeout bounds the duration of a single evaluation. Zero
// means no bound beyond the caller's context.
func WithEvalTimeout(d time.Duration) Option {
	return func(o *options) {
		o.withEvalTimeout = d
	}
}
