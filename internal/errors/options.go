package errors

// GetOpts - iterate the inbound Options and return a struct
func GetOpts(opt ...Option) options {
	opts := getDefaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*options)

// options = how options are represented
type options struct {
	withOp         Op
	withErrMsg     string
	withErrWrapped error
	withCode       Code
}

func getDefaultOptions() options {
	return options{}
}

// WithOp provides an optional operation that raised the error.
func WithOp(op Op) Option {
	return func(o *options) {
		o.withOp = op
	}
}

// WithMsg provides an optional error msg, overriding the Code's default
// message.
func WithMsg(msg string) Option {
	return func(o *options) {
		o.withErrMsg = msg
	}
}

// WithWrap provides an optional error to wrap.
func WithWrap(err error) Option {
	return func(o *options) {
		o.withErrWrapped = err
	}
}

// WithCode provides an optional Code, overriding the one inherited from a
// wrapped Err.
func WithCode(c Code) Option {
	return func(o *options) {
		o.withCode = c
	}
}
