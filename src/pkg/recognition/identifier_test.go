package recognition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIdentifier(t *testing.T) {
	cases := map[string]string{
		"alice.jpg":    "alice",
		"bob.png":      "bob",
		"carol.tar.gz": "carol",
		".hidden":      "",
		"dave.":        "dave",
	}
	for name, want := range cases {
		got, err := ItemIdentifier(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestItemIdentifierIsPrefixBeforeFirstDot(t *testing.T) {
	names := []string{"a.b", "x.y.z", "with space.jpeg", "ünïcode.png", "..", "a..b"}
	for _, name := range names {
		got, err := ItemIdentifier(name)
		require.NoError(t, err)
		assert.Equal(t, name[:strings.Index(name, ".")], got)
		assert.NotContains(t, got, ".")
	}
}

func TestItemIdentifierMissingSeparator(t *testing.T) {
	_, err := ItemIdentifier("noextension")
	assert.ErrorIs(t, err, ErrMissingSeparator)

	_, err = ItemIdentifier("")
	assert.ErrorIs(t, err, ErrMissingSeparator)
}
