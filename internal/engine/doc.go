// Package engine evaluates a compiled Rego module against request
// input. It wraps the OPA SDK behind a small surface: prepare once,
// evaluate many times. A prepared engine is safe for concurrent use.
package engine
