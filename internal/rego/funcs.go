package rego

// Builders for the Rego builtin calls the translators emit.

func globMatch(pattern, subject expr) expr {
	return call{"glob.match", []expr{pattern, ref("null"), subject}}
}

func lower(e expr) expr {
	return call{"lower", []expr{e}}
}

func cidrContains(cidr, ip expr) expr {
	return call{"net.cidr_contains", []expr{cidr, ip}}
}

func parseTime(e expr) expr {
	return call{"time.parse_rfc3339_ns", []expr{e}}
}

// arnMatch calls the arn_like helper defined in the module prelude,
// which segments both operands on ":" before glob-matching.
func arnMatch(pattern, subject expr) expr {
	return call{"arn_like", []expr{pattern, subject}}
}

// toArray wraps a context reference so multi-valued and single-valued
// context keys read the same, and so an absent key reads as an empty
// set rather than an undefined reference: quantified conditions need
// "missing" to mean "no values", not "false body". The key is read with
// a path lookup so a missing namespace object counts as missing too.
func toArray(e expr) expr {
	if r, ok := e.(ctxRef); ok && len(r) > 1 {
		segments := make(list, 0, len(r)-1)
		for _, seg := range r[1:] {
			segments = append(segments, lit(seg))
		}
		return call{"to_array", []expr{
			call{"object.get", []expr{ref(r[0]), segments, list{}}},
		}}
	}
	return call{"to_array", []expr{e}}
}
