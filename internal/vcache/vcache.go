// Package vcache models a hardware post-transform vertex cache.
package vcache

// Empty marks an unoccupied cache slot.
const Empty = -1

// Cache is a fixed-capacity buffer of vertex ids ordered most-recently
// inserted first. It is deliberately not an LRU: a membership hit does
// not refresh recency, only inserting a new id shifts the buffer. The
// strip packer's scoring depends on this exact behavior, so do not
// "fix" it.
type Cache struct {
	entries []int32
}

// New returns a cache holding up to size entries, all empty.
func New(size int) *Cache {
	c := &Cache{entries: make([]int32, size)}
	c.Clear()
	return c
}

// Contains reports whether id is currently in the cache.
func (c *Cache) Contains(id int32) bool {
	for _, e := range c.entries {
		if e == id {
			return true
		}
	}
	return false
}

// Add inserts id at the front, pushing everything else back one slot.
// It returns the evicted id, or Empty if the last slot was unoccupied.
func (c *Cache) Add(id int32) int32 {
	evicted := c.entries[len(c.entries)-1]
	copy(c.entries[1:], c.entries[:len(c.entries)-1])
	c.entries[0] = id
	return evicted
}

// Clear empties every slot.
func (c *Cache) Clear() {
	for i := range c.entries {
		c.entries[i] = Empty
	}
}

// Size returns the cache capacity.
func (c *Cache) Size() int {
	return len(c.entries)
}

// At returns the entry at position i, 0 being the most recent.
func (c *Cache) At(i int) int32 {
	return c.entries[i]
}
