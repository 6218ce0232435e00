package eden

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchArgs(t *testing.T) {
	t.Run("pattern longer than candidate never matches", func(t *testing.T) {
		require.False(t, matchArgs([]patternArg{lit("fetch"), lit("--prune"), lit("origin")}, []string{"fetch", "--prune"}))
		require.False(t, matchArgs([]patternArg{lit("push")}, nil))
		require.False(t, matchArgs([]patternArg{wildcard}, []string{}))
	})

	t.Run("literals must equal positionally", func(t *testing.T) {
		require.True(t, matchArgs([]patternArg{lit("remote"), lit("get-url"), lit("origin")}, []string{"remote", "get-url", "origin"}))
		require.False(t, matchArgs([]patternArg{lit("remote"), lit("get-url"), lit("origin")}, []string{"remote", "get-url", "upstream"}))
	})

	t.Run("wildcard matches any single argument", func(t *testing.T) {
		require.True(t, matchArgs([]patternArg{lit("merge-base"), wildcard, lit("HEAD")}, []string{"merge-base", "origin/main", "HEAD"}))
		require.True(t, matchArgs([]patternArg{lit("merge-base"), wildcard, lit("HEAD")}, []string{"merge-base", "anything", "HEAD"}))
		require.False(t, matchArgs([]patternArg{lit("merge-base"), wildcard, lit("HEAD")}, []string{"merge-base", "origin/main", "main"}))
	})

	t.Run("trailing candidate arguments are ignored", func(t *testing.T) {
		require.True(t, matchArgs([]patternArg{lit("push"), lit("origin")}, []string{"push", "origin", "--force", "h1:refs/heads/b1"}))
	})

	t.Run("empty pattern matches anything", func(t *testing.T) {
		require.True(t, matchArgs(nil, nil))
		require.True(t, matchArgs(nil, []string{"anything"}))
	})

	t.Run("malformed pattern element panics", func(t *testing.T) {
		require.Panics(t, func() {
			matchArgs([]patternArg{{}}, []string{"x"})
		})
	})
}
