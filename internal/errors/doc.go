// Package errors provides the domain errors for the transpiler. Every
// error raised while parsing an IAM policy, translating it to Rego or
// handing it to the policy engine carries a Code, which maps to a Kind
// (parse, translate, engine), and the Op where it was raised. Callers
// and tests can match on any of those with T and Match.
package errors
