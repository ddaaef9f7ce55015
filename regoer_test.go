package regoer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/apognu/regoer"
	"github.com/apognu/regoer/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, policies ...string) *regoer.Evaluator {
	t.Helper()

	tr := regoer.New()
	for _, p := range policies {
		require.NoError(t, tr.AddPolicy(strings.NewReader(p)))
	}

	ev, err := tr.Compile(context.Background())
	require.NoError(t, err)
	return ev
}

func decide(t *testing.T, ev *regoer.Evaluator, input map[string]any) bool {
	t.Helper()

	ok, err := ev.Evaluate(context.Background(), input)
	require.NoError(t, err)
	return ok
}

func Test_SimpleAllow(t *testing.T) {
	t.Parallel()

	ev := compile(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": { "AWS": "testuser" },
			"Action": "s3:GetObject",
			"Resource": "arn:aws:s3:::test-bucket/test-file.txt"
		}]
	}`)

	assert.True(t, decide(t, ev, map[string]any{
		"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::test-bucket/test-file.txt",
	}))
	assert.False(t, decide(t, ev, map[string]any{
		"principal": "wronguser", "action": "s3:GetObject", "resource": "arn:aws:s3:::test-bucket/test-file.txt",
	}))
	assert.False(t, decide(t, ev, map[string]any{
		"principal": "testuser", "action": "s3:PutObject", "resource": "arn:aws:s3:::test-bucket/test-file.txt",
	}))
	assert.False(t, decide(t, ev, map[string]any{
		"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::test-bucket/other-file.txt",
	}))
}

func Test_EmptyPolicySet(t *testing.T) {
	t.Parallel()

	ev := compile(t)
	assert.False(t, decide(t, ev, map[string]any{
		"principal": "anyone", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
	}))
}

func Test_WorkedExample(t *testing.T) {
	t.Parallel()

	ev := compile(t, `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "AllowOwnPhotos",
				"Effect": "Allow",
				"Principal": { "AWS": "apognu" },
				"Action": "s3:Get*",
				"Resource": "arn:aws:s3:::public/${aws:userid}/*.jpg",
				"Condition": {
					"StringEquals": { "aws:PrincipalType": "User" },
					"NotIpAddress": { "aws:SourceIp": "10.0.0.0/8" }
				}
			},
			{
				"Sid": "DenyProduction",
				"Effect": "Deny",
				"Principal": "*",
				"Action": "*",
				"Resource": "*",
				"Condition": {
					"StringEquals": { "s3:BucketTag/env": "production" }
				}
			}
		]
	}`)

	base := func(over map[string]any) map[string]any {
		in := map[string]any{
			"principal": "apognu",
			"action":    "s3:GetObject",
			"resource":  "arn:aws:s3:::public/apognu/cat.jpg",
			"aws": map[string]any{
				"userid":        "apognu",
				"PrincipalType": "User",
				"SourceIp":      "192.0.2.10",
			},
		}
		for k, v := range over {
			in[k] = v
		}
		return in
	}

	assert.True(t, decide(t, ev, base(nil)), "all statement requirements met")

	assert.False(t, decide(t, ev, base(map[string]any{
		"resource": "arn:aws:s3:::public/bob/cat.jpg",
	})), "interpolated resource must follow the requester's userid")

	assert.False(t, decide(t, ev, base(map[string]any{
		"aws": map[string]any{"userid": "apognu", "PrincipalType": "User", "SourceIp": "10.1.2.3"},
	})), "blocked source range")

	assert.False(t, decide(t, ev, base(map[string]any{
		"aws": map[string]any{"userid": "apognu", "SourceIp": "192.0.2.10"},
	})), "missing context key never matches, it denies")

	denied := base(nil)
	denied["s3"] = map[string]any{"BucketTag": map[string]any{"env": "production"}}
	assert.False(t, decide(t, ev, denied), "explicit deny overrides the allow")
}

func Test_WildcardsAndConditions(t *testing.T) {
	t.Parallel()

	ev := compile(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": { "AWS": "*" },
			"Action": "s3:Get*",
			"Resource": "arn:aws:s3:::bucket/*",
			"Condition": {
				"StringEquals": { "aws:userid": "authorizeduser" },
				"IpAddress": { "aws:SourceIp": "192.168.1.0/24" }
			}
		}]
	}`)

	in := func(action, resource, userid, ip string) map[string]any {
		return map[string]any{
			"principal": "anyone",
			"action":    action,
			"resource":  resource,
			"aws":       map[string]any{"userid": userid, "SourceIp": ip},
		}
	}

	assert.True(t, decide(t, ev, in("s3:GetObject", "arn:aws:s3:::bucket/file.txt", "authorizeduser", "192.168.1.100")))
	assert.True(t, decide(t, ev, in("s3:GetObjectVersion", "arn:aws:s3:::bucket/file.txt", "authorizeduser", "192.168.1.100")))
	assert.False(t, decide(t, ev, in("s3:GetObject", "arn:aws:s3:::bucket/file.txt", "authorizeduser", "10.0.0.1")))
	assert.False(t, decide(t, ev, in("s3:GetObject", "arn:aws:s3:::bucket/file.txt", "wronguser", "192.168.1.100")))
	assert.False(t, decide(t, ev, in("s3:PutObject", "arn:aws:s3:::bucket/file.txt", "authorizeduser", "192.168.1.100")))
	assert.False(t, decide(t, ev, in("s3:GetObject", "arn:aws:s3:::other-bucket/file.txt", "authorizeduser", "192.168.1.100")))
}

func Test_PrincipalLists(t *testing.T) {
	t.Parallel()

	t.Run("any-listed-principal-matches", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": { "AWS": ["alice", "bob", "charlie"] },
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::shared-bucket/*"
			}]
		}`)

		for _, who := range []string{"alice", "bob", "charlie"} {
			assert.True(t, decide(t, ev, map[string]any{
				"principal": who, "action": "s3:GetObject", "resource": "arn:aws:s3:::shared-bucket/file.txt",
			}), who)
		}
		assert.False(t, decide(t, ev, map[string]any{
			"principal": "eve", "action": "s3:GetObject", "resource": "arn:aws:s3:::shared-bucket/file.txt",
		}))
	})

	t.Run("any-kind-matches", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": {
					"AWS": "apognu",
					"Service": "lambda.amazonaws.com"
				},
				"Action": "s3:GetObject",
				"Resource": "*"
			}]
		}`)

		assert.True(t, decide(t, ev, map[string]any{
			"principal": "apognu", "action": "s3:GetObject", "resource": "x",
		}))
		assert.True(t, decide(t, ev, map[string]any{
			"service": "lambda.amazonaws.com", "action": "s3:GetObject", "resource": "x",
		}))
		assert.False(t, decide(t, ev, map[string]any{
			"principal": "bob", "action": "s3:GetObject", "resource": "x",
		}))
	})
}

func Test_NotActionNotResource(t *testing.T) {
	t.Parallel()

	ev := compile(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": { "AWS": "testuser" },
			"NotAction": ["s3:DeleteObject", "s3:DeleteBucket"],
			"NotResource": "arn:aws:s3:::production/*"
		}]
	}`)

	in := func(action, resource string) map[string]any {
		return map[string]any{"principal": "testuser", "action": action, "resource": resource}
	}

	assert.True(t, decide(t, ev, in("s3:GetObject", "arn:aws:s3:::dev/file.txt")))
	assert.True(t, decide(t, ev, in("s3:PutObject", "arn:aws:s3:::staging/file.txt")))
	assert.False(t, decide(t, ev, in("s3:DeleteObject", "arn:aws:s3:::dev/file.txt")))
	assert.False(t, decide(t, ev, in("s3:DeleteBucket", "arn:aws:s3:::dev")))
	assert.False(t, decide(t, ev, in("s3:GetObject", "arn:aws:s3:::production/file.txt")))
}

func Test_DenyOverridesAllow(t *testing.T) {
	t.Parallel()

	t.Run("targeted-deny", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [
				{
					"Effect": "Allow",
					"Principal": { "AWS": "testuser" },
					"Action": "s3:*",
					"Resource": "arn:aws:s3:::bucket/*"
				},
				{
					"Effect": "Deny",
					"Principal": "*",
					"Action": "s3:DeleteObject",
					"Resource": "arn:aws:s3:::bucket/*"
				}
			]
		}`)

		assert.True(t, decide(t, ev, map[string]any{
			"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
		}))
		assert.False(t, decide(t, ev, map[string]any{
			"principal": "testuser", "action": "s3:DeleteObject", "resource": "arn:aws:s3:::bucket/file.txt",
		}))
	})

	t.Run("deny-all", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [
				{ "Effect": "Allow", "Principal": { "AWS": "testuser" }, "Action": "s3:*", "Resource": "*" },
				{ "Effect": "Deny", "Principal": "*", "Action": "*", "Resource": "*" }
			]
		}`)

		assert.False(t, decide(t, ev, map[string]any{
			"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
		}))
	})

	t.Run("deny-binds-across-documents", func(t *testing.T) {
		ev := compile(t,
			`{
				"Version": "2012-10-17",
				"Statement": [{ "Effect": "Allow", "Principal": "*", "Action": "*", "Resource": "*" }]
			}`,
			`{
				"Version": "2012-10-17",
				"Statement": [{ "Effect": "Deny", "Principal": "*", "Action": "s3:DeleteObject", "Resource": "*" }]
			}`)

		assert.True(t, decide(t, ev, map[string]any{
			"principal": "anyone", "action": "s3:GetObject", "resource": "x",
		}))
		assert.False(t, decide(t, ev, map[string]any{
			"principal": "anyone", "action": "s3:DeleteObject", "resource": "x",
		}))
	})

	t.Run("conditional-deny", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [
				{ "Effect": "Allow", "Principal": { "AWS": "testuser" }, "Action": "s3:*", "Resource": "*" },
				{
					"Effect": "Deny",
					"Principal": "*",
					"Action": "*",
					"Resource": "arn:aws:s3:::production/*",
					"Condition": { "StringEquals": { "aws:RequestedRegion": "us-east-1" } }
				}
			]
		}`)

		in := func(resource, region string) map[string]any {
			return map[string]any{
				"principal": "testuser", "action": "s3:GetObject", "resource": resource,
				"aws": map[string]any{"RequestedRegion": region},
			}
		}

		assert.False(t, decide(t, ev, in("arn:aws:s3:::production/file.txt", "us-east-1")))
		assert.True(t, decide(t, ev, in("arn:aws:s3:::production/file.txt", "eu-west-1")))
		assert.True(t, decide(t, ev, in("arn:aws:s3:::dev/file.txt", "us-east-1")))
	})
}

func Test_ResourceInterpolation(t *testing.T) {
	t.Parallel()

	t.Run("userid-directory", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:*",
				"Resource": "arn:aws:s3:::bucket/${aws:userid}/*"
			}]
		}`)

		in := func(resource, userid string) map[string]any {
			return map[string]any{
				"principal": "alice", "action": "s3:GetObject", "resource": resource,
				"aws": map[string]any{"userid": userid},
			}
		}

		assert.True(t, decide(t, ev, in("arn:aws:s3:::bucket/alice/file.txt", "alice")))
		assert.False(t, decide(t, ev, in("arn:aws:s3:::bucket/bob/file.txt", "alice")))
	})

	t.Run("multiple-variables", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::${bucket}/${aws:userid}/${env}/*"
			}]
		}`)

		in := func(resource, env string) map[string]any {
			return map[string]any{
				"principal": "alice", "action": "s3:GetObject", "resource": resource,
				"bucket":    "my-bucket",
				"aws":       map[string]any{"userid": "alice"},
				"env":       env,
			}
		}

		assert.True(t, decide(t, ev, in("arn:aws:s3:::my-bucket/alice/dev/data.txt", "dev")))
		assert.False(t, decide(t, ev, in("arn:aws:s3:::my-bucket/alice/prod/data.txt", "dev")))
	})

	t.Run("default-value", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::bucket/${tenant, 'shared'}/*"
			}]
		}`)

		assert.True(t, decide(t, ev, map[string]any{
			"principal": "alice", "action": "s3:GetObject",
			"resource": "arn:aws:s3:::bucket/acme/file.txt",
			"tenant":   "acme",
		}))
		assert.True(t, decide(t, ev, map[string]any{
			"principal": "alice", "action": "s3:GetObject",
			"resource": "arn:aws:s3:::bucket/shared/file.txt",
		}), "missing variable falls back to its default")
		assert.False(t, decide(t, ev, map[string]any{
			"principal": "alice", "action": "s3:GetObject",
			"resource": "arn:aws:s3:::bucket/acme/file.txt",
		}))
	})
}

func Test_NegatedConditionLists(t *testing.T) {
	t.Parallel()

	t.Run("numeric-not-equals", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": { "AWS": "testuser" },
				"Action": "s3:PutObject",
				"Resource": "arn:aws:s3:::bucket/*",
				"Condition": { "NumericNotEquals": { "s3:VersionId": [100, 200, 300] } }
			}]
		}`)

		in := func(version int) map[string]any {
			return map[string]any{
				"principal": "testuser", "action": "s3:PutObject", "resource": "arn:aws:s3:::bucket/file.txt",
				"s3": map[string]any{"VersionId": version},
			}
		}

		for _, v := range []int{100, 200, 300} {
			assert.False(t, decide(t, ev, in(v)), "forbidden version %d", v)
		}
		assert.True(t, decide(t, ev, in(50)))
		assert.True(t, decide(t, ev, in(500)))
	})

	t.Run("string-not-like", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": { "AWS": "testuser" },
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::bucket/*",
				"Condition": { "StringNotLike": { "aws:username": ["admin-*", "root-*"] } }
			}]
		}`)

		in := func(username string) map[string]any {
			return map[string]any{
				"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
				"aws": map[string]any{"username": username},
			}
		}

		assert.False(t, decide(t, ev, in("admin-alice")))
		assert.False(t, decide(t, ev, in("root-user")))
		assert.True(t, decide(t, ev, in("alice")))
		assert.True(t, decide(t, ev, in("bob-developer")))
	})
}

func Test_Quantifiers(t *testing.T) {
	t.Parallel()

	in := func(tags ...string) map[string]any {
		return map[string]any{
			"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
			"aws": map[string]any{"TagKeys": tags},
		}
	}
	noTags := map[string]any{
		"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
	}

	policyWith := func(operator string) string {
		return `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": { "AWS": "testuser" },
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::bucket/*",
				"Condition": { "` + operator + `": { "aws:TagKeys": ["production", "staging"] } }
			}]
		}`
	}

	t.Run("for-any-value-string-equals", func(t *testing.T) {
		ev := compile(t, policyWith("ForAnyValue:StringEquals"))

		assert.True(t, decide(t, ev, in("production", "debug")))
		assert.True(t, decide(t, ev, in("production", "staging")))
		assert.False(t, decide(t, ev, in("development", "debug")))
		assert.False(t, decide(t, ev, noTags), "missing key means no value can match")
	})

	t.Run("for-all-values-string-equals", func(t *testing.T) {
		ev := compile(t, policyWith("ForAllValues:StringEquals"))

		assert.True(t, decide(t, ev, in("production")))
		assert.True(t, decide(t, ev, in("production", "staging")))
		assert.False(t, decide(t, ev, in("production", "debug")))
		assert.True(t, decide(t, ev, noTags), "missing key satisfies a universal condition vacuously")
	})

	t.Run("for-any-value-string-not-equals", func(t *testing.T) {
		ev := compile(t, policyWith("ForAnyValue:StringNotEquals"))

		assert.True(t, decide(t, ev, in("public", "open")))
		assert.False(t, decide(t, ev, in("public", "production")))
	})

	t.Run("for-all-values-string-like", func(t *testing.T) {
		ev := compile(t, `{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": { "AWS": "testuser" },
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::bucket/*",
				"Condition": { "ForAllValues:StringLike": { "aws:TagKeys": ["prod-*", "staging-*"] } }
			}]
		}`)

		assert.True(t, decide(t, ev, in("prod-us-east-1", "staging-eu-west-1")))
		assert.False(t, decide(t, ev, in("prod-us-east-1", "development")))
	})

	t.Run("scalar-context-value-is-coerced", func(t *testing.T) {
		ev := compile(t, policyWith("ForAnyValue:StringEquals"))

		scalar := map[string]any{
			"principal": "testuser", "action": "s3:GetObject", "resource": "arn:aws:s3:::bucket/file.txt",
			"aws": map[string]any{"TagKeys": "production"},
		}
		assert.True(t, decide(t, ev, scalar))
	})
}

func Test_DateAndNumericConditions(t *testing.T) {
	t.Parallel()

	ev := compile(t, `{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": { "AWS": "testuser" },
			"Action": "s3:PutObject",
			"Resource": "arn:aws:s3:::bucket/*",
			"Condition": {
				"DateGreaterThan": { "aws:CurrentTime": "2025-01-01T00:00:00Z" },
				"DateLessThan": { "aws:CurrentTime": "2025-12-31T23:59:59Z" },
				"NumericLessThan": { "s3:ContentLength": 10485760 }
			}
		}]
	}`)

	in := func(now string, size int) map[string]any {
		return map[string]any{
			"principal": "testuser", "action": "s3:PutObject", "resource": "arn:aws:s3:::bucket/file.txt",
			"aws": map[string]any{"CurrentTime": now},
			"s3":  map[string]any{"ContentLength": size},
		}
	}

	assert.True(t, decide(t, ev, in("2025-06-15T12:00:00Z", 1048576)))
	assert.False(t, decide(t, ev, in("2024-12-31T23:59:59Z", 1048576)), "before the window")
	assert.False(t, decide(t, ev, in("2026-01-01T00:00:00Z", 1048576)), "after the window")
	assert.False(t, decide(t, ev, in("2025-06-15T12:00:00Z", 20971520)), "too large")
}

func Test_Module(t *testing.T) {
	t.Parallel()

	doc := `{
		"Version": "2012-10-17",
		"Statement": [{
			"Sid": "Sid1",
			"Effect": "Allow",
			"Principal": { "AWS": "apognu" },
			"Action": ["s3:Get*"],
			"Resource": "arn:aws:s3:::public/*.jpg"
		}]
	}`

	t.Run("source-without-compiling", func(t *testing.T) {
		tr := regoer.New()
		require.NoError(t, tr.AddPolicy(strings.NewReader(doc)))

		src, err := tr.Module()
		require.NoError(t, err)
		assert.Contains(t, src, "package main")
		assert.Contains(t, src, "statement_Sid1 if {")
		assert.Contains(t, src, `glob.match("s3:Get*", null, input.action)`)
	})

	t.Run("repeatable-and-deterministic", func(t *testing.T) {
		tr := regoer.New()
		require.NoError(t, tr.AddPolicy(strings.NewReader(doc)))

		first, err := tr.Module()
		require.NoError(t, err)

		again, err := tr.Module()
		require.NoError(t, err)
		require.Equal(t, first, again)

		ev1, err := tr.Compile(context.Background())
		require.NoError(t, err)
		ev2, err := tr.Compile(context.Background())
		require.NoError(t, err)
		require.Equal(t, ev1.Source(), ev2.Source())
		require.Equal(t, first, ev1.Source())
	})

	t.Run("query-path", func(t *testing.T) {
		ev := compile(t, doc)
		assert.Equal(t, "data.main.allow", ev.Query())
	})
}

func Test_SidSynthesis(t *testing.T) {
	t.Parallel()

	tr := regoer.New()
	require.NoError(t, tr.AddPolicy(strings.NewReader(`{
		"Version": "2012-10-17",
		"Statement": [
			{ "Effect": "Allow", "Principal": "*", "Action": "a:B", "Resource": "*" },
			{ "Sid": "Named", "Effect": "Allow", "Principal": "*", "Action": "c:D", "Resource": "*" }
		]
	}`)))
	require.NoError(t, tr.AddPolicy(strings.NewReader(`{
		"Version": "2012-10-17",
		"Statement": [{ "Effect": "Deny", "Principal": "*", "Action": "e:F", "Resource": "*" }]
	}`)))

	src, err := tr.Module()
	require.NoError(t, err)
	assert.Contains(t, src, "statement_p0s0 if {")
	assert.Contains(t, src, "statement_Named if {")
	assert.Contains(t, src, "statement_p1s0 if {")
}

func Test_Errors(t *testing.T) {
	t.Parallel()

	t.Run("parse-error-surfaces-on-add", func(t *testing.T) {
		tr := regoer.New()
		err := tr.AddPolicy(strings.NewReader(`{ not json`))
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.MalformedJson), err), "got %v", err)
	})

	t.Run("duplicate-sid", func(t *testing.T) {
		tr := regoer.New()
		doc := `{
			"Version": "2012-10-17",
			"Statement": [{ "Sid": "Dup", "Effect": "Allow", "Principal": "*", "Action": "*", "Resource": "*" }]
		}`
		require.NoError(t, tr.AddPolicy(strings.NewReader(doc)))

		err := tr.AddPolicy(strings.NewReader(doc))
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.InvalidParameter), err), "got %v", err)
	})

	t.Run("unknown-operator-fails-compile", func(t *testing.T) {
		tr := regoer.New()
		require.NoError(t, tr.AddPolicy(strings.NewReader(`{
			"Version": "2012-10-17",
			"Statement": [{
				"Sid": "BadOp", "Effect": "Allow", "Principal": "*", "Action": "*", "Resource": "*",
				"Condition": { "StringMatchesRegex": { "aws:username": "a.*" } }
			}]
		}`)))

		_, err := tr.Compile(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.UnknownOperator), err), "got %v", err)
		assert.Contains(t, err.Error(), "BadOp")
		assert.Contains(t, err.Error(), "StringMatchesRegex")
	})

	t.Run("data-must-be-an-object", func(t *testing.T) {
		tr := regoer.New()
		require.NoError(t, tr.AddData(map[string]any{"org": "acme"}))

		err := tr.AddData([]string{"not", "an", "object"})
		require.Error(t, err)
		assert.True(t, errors.Match(errors.T(errors.InvalidParameter), err), "got %v", err)
	})
}
