package vcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsEmpty(t *testing.T) {
	c := New(4)

	require.Equal(t, 4, c.Size())
	for i := 0; i < 4; i++ {
		assert.Equal(t, int32(Empty), c.At(i))
	}
	assert.False(t, c.Contains(0))
}

func TestAddAndContains(t *testing.T) {
	c := New(3)

	c.Add(7)
	assert.True(t, c.Contains(7))
	assert.False(t, c.Contains(8))

	c.Add(8)
	assert.True(t, c.Contains(7))
	assert.True(t, c.Contains(8))
	assert.Equal(t, int32(8), c.At(0), "newest entry should be first")
	assert.Equal(t, int32(7), c.At(1))
}

func TestAddEvictsOldest(t *testing.T) {
	c := New(3)

	assert.Equal(t, int32(Empty), c.Add(1))
	assert.Equal(t, int32(Empty), c.Add(2))
	assert.Equal(t, int32(Empty), c.Add(3))

	evicted := c.Add(4)
	assert.Equal(t, int32(1), evicted)
	assert.False(t, c.Contains(1))
	assert.True(t, c.Contains(2))
	assert.True(t, c.Contains(3))
	assert.True(t, c.Contains(4))
}

func TestHitDoesNotRefreshRecency(t *testing.T) {
	// The packer's scoring depends on lookups not reordering the
	// cache: a hit entry must still age out in insertion order.
	c := New(3)
	c.Add(1)
	c.Add(2)
	c.Add(3)

	require.True(t, c.Contains(1), "lookup hit on the oldest entry")

	evicted := c.Add(4)
	assert.Equal(t, int32(1), evicted, "the hit entry must still be evicted first")
	assert.False(t, c.Contains(1))
}

func TestClear(t *testing.T) {
	c := New(2)
	c.Add(5)
	c.Add(6)

	c.Clear()

	assert.False(t, c.Contains(5))
	assert.False(t, c.Contains(6))
	assert.Equal(t, int32(Empty), c.At(0))
	assert.Equal(t, int32(Empty), c.At(1))
}
