package rego

import (
	"testing"

	"github.com/apognu/regoer/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Interpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain-string",
			in:   "arn:aws:s3:::bucket/*",
			want: `"arn:aws:s3:::bucket/*"`,
		},
		{
			name: "single-variable",
			in:   "arn:aws:s3:::bucket/${aws:username}/*",
			want: `sprintf("arn:aws:s3:::bucket/%s/*", [input.aws.username])`,
		},
		{
			name: "two-variables",
			in:   "${aws:username}/${aws:userid}",
			want: `sprintf("%s/%s", [input.aws.username, input.aws.userid])`,
		},
		{
			name: "unqualified-variable",
			in:   "${username}",
			want: `sprintf("%s", [input.username])`,
		},
		{
			name: "slash-opens-a-segment",
			in:   "${aws:tags/region}",
			want: `sprintf("%s", [input.aws.tags.region])`,
		},
		{
			name: "non-identifier-segment-uses-brackets",
			in:   "${aws:user-name}",
			want: `sprintf("%s", [input.aws["user-name"]])`,
		},
		{
			name: "escaped-metacharacters",
			in:   "a${*}b${?}c${$}",
			want: `"a*b?c$"`,
		},
		{
			name: "default-value",
			in:   "${aws:username, 'anonymous'}",
			want: `sprintf("%s", [object.get(input, ["aws", "username"], "anonymous")])`,
		},
		{
			name: "default-value-within-pattern",
			in:   "arn:aws:s3:::bucket/${owner, 'nobody'}/*",
			want: `sprintf("arn:aws:s3:::bucket/%s/*", [object.get(input, ["owner"], "nobody")])`,
		},
		{
			name: "unterminated-variable-kept-literally",
			in:   "abc${def",
			want: `"abc${def"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := interpolate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(e))
		})
	}
}

func Test_InterpolateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "empty-variable", in: "${}"},
		{name: "nested-interpolation", in: "${a${b}}"},
		{name: "too-many-slashes", in: "${a/b/c}"},
		{name: "invalid-characters", in: "${a b}"},
		{name: "unquoted-default", in: "${aws:username, anonymous}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := interpolate(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Match(errors.T(errors.InvalidInterpolation), err), "got %v", err)
		})
	}
}
