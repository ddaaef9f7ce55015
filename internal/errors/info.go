package errors

// Info contains details of the specific error code
type Info struct {
	// Kind specifies the kind of error (unknown, parse, translate, etc).
	Kind Kind

	// Message provides a default message for the error code
	Message string
}

// errorCodeInfo provides a map of unique Codes (IDs) to their
// corresponding Kind and a default Message.
var errorCodeInfo = map[Code]Info{
	Unknown: {
		Message: "unknown",
		Kind:    Other,
	},
	InvalidParameter: {
		Message: "invalid parameter",
		Kind:    Parameter,
	},
	MalformedJson: {
		Message: "malformed json",
		Kind:    Parse,
	},
	UnsupportedVersion: {
		Message: "unsupported policy version",
		Kind:    Parse,
	},
	MissingField: {
		Message: "missing field",
		Kind:    Parse,
	},
	ConflictingFields: {
		Message: "conflicting fields",
		Kind:    Parse,
	},
	InvalidField: {
		Message: "invalid field",
		Kind:    Parse,
	},
	UnknownOperator: {
		Message: "unknown condition operator",
		Kind:    Translate,
	},
	InvalidValueType: {
		Message: "invalid condition value type",
		Kind:    Translate,
	},
	InvalidInterpolation: {
		Message: "invalid string interpolation",
		Kind:    Translate,
	},
	UnsupportedPrincipal: {
		Message: "unsupported principal",
		Kind:    Translate,
	},
	UnsupportedNegation: {
		Message: "unsupported negation",
		Kind:    Translate,
	},
	EngineCompile: {
		Message: "engine rejected generated module",
		Kind:    Engine,
	},
	EngineEval: {
		Message: "engine evaluation failed",
		Kind:    Engine,
	},
}
