package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUUIDint64Unique(t *testing.T) {
	t.Parallel()

	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		id := UUIDint64()
		require.Positive(t, id)
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestSha256HashWithSalt(t *testing.T) {
	t.Parallel()

	h1 := Sha256HashWithSalt("stocklane", "salt-a")
	h2 := Sha256HashWithSalt("stocklane", "salt-a")
	h3 := Sha256HashWithSalt("stocklane", "salt-b")

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
	require.Len(t, h1, 64)
}
