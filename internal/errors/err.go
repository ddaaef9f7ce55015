package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Op represents an operation (package.function).
// For example iam.Parse
type Op string

// Err provides the ability to specify a Msg, Op, Code and Wrapped error.
// Errs must have a Code and all other fields are optional.
type Err struct {
	// Code is the error's code, which can be used to get the error's
	// errorCodeInfo, which contains the error's Kind and Message
	Code Code

	// Msg for the error
	Msg string

	// Op represents the operation raising/propagating an error and is optional
	Op Op

	// Wrapped is the error which this Err wraps and will be nil if there's no
	// error to wrap.
	Wrapped error
}

// New creates a new Err with provided code and supports the options of:
//
// * WithOp() - allows you to specify an optional Op (operation)
//
// * WithMsg() - allows you to specify an optional error msg, if the default
// msg for the error Code is not sufficient
//
// * WithWrap() - allows you to specify an error to wrap
func New(c Code, opt ...Option) error {
	opts := GetOpts(opt...)
	return &Err{
		Code:    c,
		Op:      opts.withOp,
		Msg:     opts.withErrMsg,
		Wrapped: opts.withErrWrapped,
	}
}

// Wrap creates a new Err from the provided err and op, preserving the err's
// Code if err is an Err (and defaulting to Unknown otherwise). Supports the
// WithMsg() and WithCode() options.
func Wrap(err error, op Op, opt ...Option) error {
	opts := GetOpts(opt...)
	code := opts.withCode
	if code == Unknown {
		var e *Err
		if stderrors.As(err, &e) {
			code = e.Code
		}
	}
	return &Err{
		Code:    code,
		Op:      op,
		Msg:     opts.withErrMsg,
		Wrapped: err,
	}
}

// E is a shorthand for New(c, WithOp(op), WithMsg(msg), opt...).
func E(c Code, op Op, msg string, opt ...Option) error {
	return New(c, append([]Option{WithOp(op), WithMsg(msg)}, opt...)...)
}

// Info about the Err
func (e *Err) Info() Info {
	if e == nil {
		return errorCodeInfo[Unknown]
	}
	return e.Code.Info()
}

// Error satisfies the error interface and returns a string representation of
// the Err
func (e *Err) Error() string {
	var msgs []string

	if e.Op != "" {
		msgs = append(msgs, string(e.Op))
	}

	// try to use the error msg first...
	if e.Msg != "" {
		msgs = append(msgs, e.Msg)
	}

	// since there's no err msg, let's try the err code info...
	if e.Msg == "" {
		if info, ok := errorCodeInfo[e.Code]; ok {
			msgs = append(msgs, info.Message, info.Kind.String())
		}
	}
	if e.Code != Unknown {
		msgs = append(msgs, fmt.Sprintf("error #%d", e.Code))
	}

	if e.Wrapped != nil {
		msgs = append(msgs, e.Wrapped.Error())
	}

	if len(msgs) == 0 {
		msgs = append(msgs, "unknown")
	}
	return strings.Join(msgs, ": ")
}

// Unwrap implements the errors.Unwrap interface and allows callers to use the
// errors.Is() and errors.As() functions effectively for any wrapped errors.
func (e *Err) Unwrap() error {
	return e.Wrapped
}

// Is the equivalent of the std errors.Is, allowing callers to use this pkg
// without having to import both.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is the equivalent of the std errors.As, allowing callers to use this pkg
// without having to import both.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
