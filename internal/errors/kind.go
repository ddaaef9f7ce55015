package errors

// Kind specifies the kind of error (unknown, parameter, parse, etc).
type Kind uint32

const (
	Other Kind = iota
	Parameter
	Parse
	Translate
	Engine
)

func (e Kind) String() string {
	switch e {
	case Parameter:
		return "parameter violation"
	case Parse:
		return "parse violation"
	case Translate:
		return "translation violation"
	case Engine:
		return "engine failure"
	default:
		return "unknown"
	}
}
