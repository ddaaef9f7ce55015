package errors

// Code specifies a code for the error.
type Code uint32

// String will return the Code's Info.Message
func (c Code) String() string {
	return c.Info().Message
}

// Info will look up the Code's Info.  If the Info is not found, it will return
// Info for an Unknown Code.
func (c Code) Info() Info {
	if info, ok := errorCodeInfo[c]; ok {
		return info
	}
	return errorCodeInfo[Unknown]
}

const (
	Unknown Code = 0 // Unknown will be equal to a zero value for Codes

	// General function errors are reserved Codes 100-999
	InvalidParameter Code = 100 // InvalidParameter represents an invalid parameter for an operation.

	// Policy document parse errors are reserved Codes 1000-1999
	MalformedJson      Code = 1000 // MalformedJson represents a document that is not valid JSON
	UnsupportedVersion Code = 1001 // UnsupportedVersion represents a Version other than the supported literal
	MissingField       Code = 1002 // MissingField represents a statement lacking a mandatory field
	ConflictingFields  Code = 1003 // ConflictingFields represents Action+NotAction or Resource+NotResource both set
	InvalidField       Code = 1004 // InvalidField represents a field whose value has the wrong shape

	// Translation errors are reserved Codes 2000-2999
	UnknownOperator      Code = 2000 // UnknownOperator represents a condition operator outside the supported set
	InvalidValueType     Code = 2001 // InvalidValueType represents a condition value of the wrong type for its operator
	InvalidInterpolation Code = 2002 // InvalidInterpolation represents a malformed ${...} policy variable
	UnsupportedPrincipal Code = 2003 // UnsupportedPrincipal represents a principal form we cannot translate
	UnsupportedNegation  Code = 2004 // UnsupportedNegation represents a NotPrincipal element

	// Engine errors are reserved Codes 3000-3999
	EngineCompile Code = 3000 // EngineCompile represents the engine rejecting generated source, a transpiler defect
	EngineEval    Code = 3001 // EngineEval represents an engine-level evaluation failure
)
