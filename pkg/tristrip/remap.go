package tristrip

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// RemapIndices renames the vertex ids of the groups in first-touch
// order: the first id encountered becomes 0, the next new one 1, and
// so on across all groups, preserving each group's relative index
// order. The second return value maps new id -> old id, i.e. the order
// in which to rewrite the vertex buffer so the remapped groups index
// it correctly. A buffer already contiguous from zero remaps to
// itself.
func RemapIndices(groups []PrimitiveGroup) ([]PrimitiveGroup, []uint32) {
	// insertion order of a linked hash map is exactly first-touch order
	remap := linkedhashmap.New()

	out := make([]PrimitiveGroup, len(groups))
	for i, g := range groups {
		out[i] = PrimitiveGroup{
			Type:    g.Type,
			Indices: make([]uint32, len(g.Indices)),
		}
		for j, old := range g.Indices {
			if cached, ok := remap.Get(old); ok {
				out[i].Indices[j] = cached.(uint32)
			} else {
				next := uint32(remap.Size())
				remap.Put(old, next)
				out[i].Indices[j] = next
			}
		}
	}

	order := make([]uint32, 0, remap.Size())
	for _, key := range remap.Keys() {
		order = append(order, key.(uint32))
	}

	return out, order
}
