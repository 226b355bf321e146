package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRing_Current(t *testing.T) {
	ring := NewKeyRing([]string{"key-a", "key-b"})

	key, err := ring.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", key)
}

func TestKeyRing_Empty(t *testing.T) {
	ring := NewKeyRing(nil)

	_, err := ring.Current()
	assert.ErrorIs(t, err, ErrNoKeysConfigured)
	assert.Equal(t, 0, ring.Size())

	// Rotating an empty ring is a no-op, not a panic.
	assert.False(t, ring.Rotate())
}

func TestKeyRing_DiscardsBlankKeys(t *testing.T) {
	ring := NewKeyRing([]string{"", "key-a", "", "key-b"})

	assert.Equal(t, 2, ring.Size())
	key, err := ring.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", key)
}

func TestKeyRing_RotateAdvances(t *testing.T) {
	ring := NewKeyRing([]string{"key-a", "key-b", "key-c"})

	wrapped := ring.Rotate()
	assert.False(t, wrapped)

	key, err := ring.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-b", key)
}

func TestKeyRing_RotateWraps(t *testing.T) {
	ring := NewKeyRing([]string{"key-a", "key-b"})

	assert.False(t, ring.Rotate())
	assert.True(t, ring.Rotate(), "second rotation should wrap to index 0")

	key, err := ring.Current()
	require.NoError(t, err)
	assert.Equal(t, "key-a", key)
}

// Cyclic invariant: N rotations over a ring of size N return to the start.
func TestKeyRing_FullCycleReturnsToStart(t *testing.T) {
	for _, size := range []int{1, 2, 3, 7} {
		keys := make([]string, size)
		for i := range keys {
			keys[i] = string(rune('a' + i))
		}
		ring := NewKeyRing(keys)

		start, err := ring.Current()
		require.NoError(t, err)

		for i := 0; i < size; i++ {
			ring.Rotate()
		}

		end, err := ring.Current()
		require.NoError(t, err)
		assert.Equal(t, start, end, "ring of size %d", size)
	}
}

func TestKeyRing_SingleKeyAlwaysWraps(t *testing.T) {
	ring := NewKeyRing([]string{"only"})

	assert.True(t, ring.Rotate())
	key, err := ring.Current()
	require.NoError(t, err)
	assert.Equal(t, "only", key)
}
