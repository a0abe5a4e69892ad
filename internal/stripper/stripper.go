// Package stripper turns an indexed triangle mesh into triangle
// strips ordered for post-transform vertex cache reuse, plus a
// residual list of faces that did not make it into a strip.
package stripper

// cacheInefficiency is subtracted from the configured cache size
// before packing; measured reuse falls short of the theoretical bound
// by about this many entries.
const cacheInefficiency = 6

// stripifier holds the per-run state: the input stream, the adjacency
// graph and the search parameters. One value serves exactly one run.
type stripifier struct {
	indices        []int32
	cacheSize      int
	minStripLength int

	meshJump        float32
	firstResetPoint bool

	faces []*Face
	edges [][]*edge // adjacency lists indexed by vertex id
}

// Stripify covers the mesh given as a flat triangle index stream with
// near-optimal strips and returns them cache-ordered, together with
// the loose faces dissolved from strips below minStripLength. maxIndex
// is the largest vertex id occurring in indices and sizes the
// adjacency table.
func Stripify(indices []int32, cacheSize, minStripLength int, maxIndex int32) ([]*Strip, []*Face) {
	s := &stripifier{
		indices:         indices,
		cacheSize:       max(1, cacheSize-cacheInefficiency),
		minStripLength:  minStripLength,
		meshJump:        0,
		firstResetPoint: true,
	}

	s.buildAdjacency(maxIndex)

	allStrips := s.findAllStrips()

	return s.splitUpStripsAndOptimize(allStrips)
}
