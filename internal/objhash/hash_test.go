package objhash

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

func TestSumDeterministic(t *testing.T) {
	b := []byte("hello\n")
	require.Equal(t, Sum(b), Sum(b))
}

func TestSumFormat(t *testing.T) {
	got := Sum([]byte("hello\n"))
	require.NotEmpty(t, got)
	require.Regexp(t, hexPattern, got)
}

// TestSumProperty exercises the property from spec §8.1: same input
// always produces the same digest, and the digest is always non-empty
// lowercase hex, for arbitrary byte sequences.
func TestSumProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		a := Sum(data)
		b := Sum(data)
		if a != b {
			rt.Fatalf("hash not deterministic: %q != %q", a, b)
		}
		if a == "" || !hexPattern.MatchString(a) {
			rt.Fatalf("hash %q is not non-empty lowercase hex", a)
		}
	})
}
