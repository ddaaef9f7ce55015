package rego

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/apognu/regoer/internal/errors"
)

// interpolate turns a pattern possibly containing ${namespace:key}
// policy variables into a string expression. Variables are resolved at
// evaluation time against the input document, never substituted at
// compile time, so the returned expression is either a plain literal
// (no variables) or a sprintf template over input references.
//
// Supported forms, matching AWS policy variable grammar:
//
//	${aws:username}            -> input.aws.username
//	${aws:tags/region}         -> input.aws.tags.region (one slash max)
//	${missing, 'fallback'}     -> object.get(input, [...], "fallback")
//	${*}, ${?}, ${$}           -> literal *, ?, $
func interpolate(pattern string) (expr, error) {
	const op = errors.Op("rego.interpolate")

	if !strings.Contains(pattern, "${") {
		return lit(pattern), nil
	}

	var (
		out  strings.Builder
		args []expr
	)

	rest := pattern
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}")
		if end < 0 {
			// Unterminated variable, kept literally.
			out.WriteString(rest)
			break
		}

		varExpr := rest[start+2 : start+2+end]
		out.WriteString(rest[:start])
		rest = rest[start+2+end+1:]

		// ${*}, ${?} and ${$} escape the glob and variable
		// metacharacters.
		switch strings.TrimSpace(varExpr) {
		case "*", "?", "$":
			out.WriteString(strings.TrimSpace(varExpr))
			continue
		}

		varPart, fallback, hasFallback := splitFallback(varExpr)
		if err := validateVariable(varPart); err != nil {
			return nil, errors.E(errors.InvalidInterpolation, op,
				fmt.Sprintf("in pattern %q: %v", pattern, err))
		}

		path := variablePath(varPart)
		if hasFallback {
			segments := make(list, 0, len(path)-1)
			for _, seg := range path[1:] {
				segments = append(segments, lit(seg))
			}
			args = append(args, call{"object.get", []expr{ref("input"), segments, lit(fallback)}})
		} else {
			args = append(args, path)
		}
		out.WriteString("%s")
	}

	if len(args) == 0 {
		return lit(out.String()), nil
	}
	return tmpl{format: out.String(), args: args}, nil
}

// variablePath maps a variable expression to its input reference:
// the qualifier (before ":") and any "/" both introduce a path segment.
func variablePath(varPart string) ctxRef {
	path := ctxRef{"input"}
	for _, part := range strings.SplitN(varPart, ":", 2) {
		for _, seg := range strings.Split(part, "/") {
			path = append(path, seg)
		}
	}
	return path
}

// splitFallback handles the ${variable, 'default'} form. The default
// must be quoted; an unquoted or mismatched default leaves the comma in
// the variable part, which then fails validation.
func splitFallback(varExpr string) (string, string, bool) {
	comma := strings.Index(varExpr, ",")
	if comma < 0 {
		return varExpr, "", false
	}
	if fallback, ok := unquote(varExpr[comma+1:]); ok {
		return strings.TrimSpace(varExpr[:comma]), fallback, true
	}
	return varExpr, "", false
}

func unquote(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
		return s[1 : len(s)-1], true
	}
	return "", false
}

func validateVariable(varPart string) error {
	if varPart == "" {
		return fmt.Errorf("empty variable expression")
	}
	if strings.Contains(varPart, "${") {
		return fmt.Errorf("nested interpolation: %q", varPart)
	}
	if strings.Contains(varPart, "}") {
		return fmt.Errorf("invalid characters: %q", varPart)
	}
	if strings.Count(varPart, "/") > 1 {
		return fmt.Errorf("too many slashes: %q", varPart)
	}
	for _, r := range varPart {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '_' || r == '-' || r == ':' || r == '.' || r == '/':
		default:
			return fmt.Errorf("invalid characters: %q", varPart)
		}
	}
	return nil
}
