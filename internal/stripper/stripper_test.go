package stripper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadIndices is the canonical two-triangle quad used across the tests:
// {0,1,2} and {0,2,3} sharing the 0-2 diagonal.
var quadIndices = []int32{0, 1, 2, 0, 2, 3}

// gridIndices builds a w x h cell grid of quads, two triangles each,
// on a (w+1) x (h+1) vertex lattice.
func gridIndices(w, h int) []int32 {
	var indices []int32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl := int32(y*(w+1) + x)
			tr := tl + 1
			bl := int32((y+1)*(w+1) + x)
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}
	return indices
}

func gridMaxIndex(w, h int) int32 {
	return int32((w+1)*(h+1) - 1)
}

// canonical sorts a triangle's vertices so winding and rotation do not
// matter when comparing face multisets.
func canonical(v0, v1, v2 int32) [3]int32 {
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	if v1 > v2 {
		v1, v2 = v2, v1
	}
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	return [3]int32{v0, v1, v2}
}

// indexStreamFaces collects the non-degenerate triangles of a flat
// index stream as a canonical multiset.
func indexStreamFaces(indices []int32) map[[3]int32]int {
	faces := make(map[[3]int32]int)
	for i := 0; i+2 < len(indices); i += 3 {
		v0, v1, v2 := indices[i], indices[i+1], indices[i+2]
		if isDegenerate(v0, v1, v2) {
			continue
		}
		faces[canonical(v0, v1, v2)]++
	}
	return faces
}

// decodeStrip expands a serialized strip with the rolling-triangle
// rule, skipping the zero-area triangles produced by bridges and
// stitches.
func decodeStrip(indices []int32) map[[3]int32]int {
	faces := make(map[[3]int32]int)
	for i := 2; i < len(indices); i++ {
		v0, v1, v2 := indices[i-2], indices[i-1], indices[i]
		if isDegenerate(v0, v1, v2) {
			continue
		}
		faces[canonical(v0, v1, v2)]++
	}
	return faces
}

// outputFaces collects the real faces of strips plus the residual list
// as a canonical multiset.
func outputFaces(strips []*Strip, faces []*Face) map[[3]int32]int {
	out := make(map[[3]int32]int)
	for _, st := range strips {
		for _, f := range st.Faces {
			if IsDegenerate(f) {
				continue
			}
			out[canonical(f.V0, f.V1, f.V2)]++
		}
	}
	for _, f := range faces {
		out[canonical(f.V0, f.V1, f.V2)]++
	}
	return out
}

func TestBuildAdjacencyQuad(t *testing.T) {
	s := &stripifier{indices: quadIndices}
	s.buildAdjacency(3)

	require.Len(t, s.faces, 2)

	diagonal := s.findEdge(0, 2)
	require.NotNil(t, diagonal)
	assert.Equal(t, s.faces[0], diagonal.face0)
	assert.Equal(t, s.faces[1], diagonal.face1)

	boundary := s.findEdge(0, 1)
	require.NotNil(t, boundary)
	assert.Nil(t, boundary.face1)

	assert.Nil(t, s.findEdge(1, 3), "quad has no 1-3 edge")
}

func TestBuildAdjacencySkipsDegenerateFaces(t *testing.T) {
	s := &stripifier{indices: []int32{0, 1, 2, 5, 5, 7, 0, 2, 3}}
	s.buildAdjacency(7)

	require.Len(t, s.faces, 2)
	for _, f := range s.faces {
		assert.False(t, IsDegenerate(f))
	}
	assert.Nil(t, s.findEdge(5, 7), "degenerate face must not contribute edges")
}

func TestBuildAdjacencyDropsDuplicateFaces(t *testing.T) {
	s := &stripifier{indices: []int32{0, 1, 2, 0, 2, 3, 0, 1, 2}}
	s.buildAdjacency(3)

	require.Len(t, s.faces, 2)

	// the duplicate's attachments must be fully undone
	e := s.findEdge(0, 1)
	require.NotNil(t, e)
	assert.Equal(t, s.faces[0], e.face0)
	assert.Nil(t, e.face1)
}

func TestBuildAdjacencyNonManifoldEdge(t *testing.T) {
	// three distinct triangles share the 0-1 edge
	s := &stripifier{indices: []int32{0, 1, 2, 0, 1, 3, 0, 1, 4}}
	s.buildAdjacency(4)

	// all three faces survive, only the third adjacency is dropped
	require.Len(t, s.faces, 3)

	e := s.findEdge(0, 1)
	require.NotNil(t, e)
	assert.Equal(t, s.faces[0], e.face0)
	assert.Equal(t, s.faces[1], e.face1)
}

func TestFindOtherFace(t *testing.T) {
	s := &stripifier{indices: quadIndices}
	s.buildAdjacency(3)

	assert.Equal(t, s.faces[1], s.findOtherFace(0, 2, s.faces[0]))
	assert.Equal(t, s.faces[0], s.findOtherFace(2, 0, s.faces[1]))
	assert.Nil(t, s.findOtherFace(0, 1, s.faces[0]), "boundary edge has no other face")
	assert.Nil(t, s.findOtherFace(5, 5, s.faces[0]), "self-edge of a bridge has no other face")
}

func TestNumNeighbors(t *testing.T) {
	s := &stripifier{indices: gridIndices(2, 2)}
	s.buildAdjacency(gridMaxIndex(2, 2))

	// the first face of a 2x2 grid sits in the top-left corner with two
	// boundary edges, only the cell diagonal is shared
	assert.Equal(t, 1, s.numNeighbors(s.faces[0]))
	// its diagonal partner touches three cells
	assert.Equal(t, 3, s.numNeighbors(s.faces[1]))
}

func TestUnique(t *testing.T) {
	inStrip := []*Face{newFace(0, 1, 2), newFace(0, 2, 3)}

	assert.True(t, unique(inStrip, newFace(2, 3, 4)), "vertex 4 is new")
	assert.False(t, unique(inStrip, newFace(0, 2, 3)), "all vertices already present")
	assert.False(t, unique(inStrip, newFace(1, 2, 3)), "all vertices already present")
}

func TestReorderFirstFace(t *testing.T) {
	st := &Strip{Faces: []*Face{newFace(0, 1, 2), newFace(0, 2, 3)}}

	first := reorderFirstFace(st, true)

	// vertex 1 is unique to the first face, it must come first
	assert.Equal(t, int32(1), first.V0)
	assert.ElementsMatch(t, []int32{0, 1, 2}, []int32{first.V0, first.V1, first.V2})
}

func TestGetUniqueVertexInB(t *testing.T) {
	a := newFace(0, 1, 2)

	assert.Equal(t, int32(3), getUniqueVertexInB(a, newFace(0, 2, 3)))
	assert.Equal(t, int32(-1), getUniqueVertexInB(a, newFace(2, 1, 0)))
	assert.Equal(t, int32(-1), getUniqueVertexInB(a, newFace(1, 2, 1)), "bridge shares all vertices")
}

func TestGetSharedVertices(t *testing.T) {
	a := newFace(0, 1, 2)

	s0, s1 := getSharedVertices(a, newFace(0, 2, 3))
	assert.Equal(t, int32(0), s0)
	assert.Equal(t, int32(2), s1)

	s0, s1 = getSharedVertices(a, newFace(2, 3, 4))
	assert.Equal(t, int32(2), s0)
	assert.Equal(t, int32(-1), s1)

	s0, s1 = getSharedVertices(a, newFace(3, 4, 5))
	assert.Equal(t, int32(-1), s0)
	assert.Equal(t, int32(-1), s1)
}

func TestIsCW(t *testing.T) {
	f := newFace(0, 1, 2)

	assert.True(t, isCW(f, 0, 1))
	assert.True(t, isCW(f, 1, 2))
	assert.True(t, isCW(f, 2, 0))
	assert.False(t, isCW(f, 1, 0))
	assert.False(t, isCW(f, 2, 1))
}

func TestAvgStripSizeExcludesBridges(t *testing.T) {
	st := &Strip{
		Faces:      []*Face{newFace(0, 1, 2), newFace(1, 2, 1), newFace(1, 2, 3)},
		numBridges: 1,
	}

	assert.Equal(t, float32(2), avgStripSize([]*Strip{st}))
}

func TestStripifyQuad(t *testing.T) {
	strips, faces := Stripify(quadIndices, 16, 0, 3)

	require.Len(t, strips, 1, "a quad should come back as one strip")
	assert.Empty(t, faces)
	assert.Len(t, strips[0].Faces, 2)
	assert.Equal(t, indexStreamFaces(quadIndices), outputFaces(strips, faces))
}

func TestStripifyEmptyInput(t *testing.T) {
	strips, faces := Stripify(nil, 16, 0, 0)

	assert.Empty(t, strips)
	assert.Empty(t, faces)
}

func TestStripifyCoversGrid(t *testing.T) {
	indices := gridIndices(4, 4)

	strips, faces := Stripify(indices, 16, 0, gridMaxIndex(4, 4))

	require.NotEmpty(t, strips)
	assert.Equal(t, indexStreamFaces(indices), outputFaces(strips, faces),
		"every input face must appear exactly once across strips and residual list")
}

func TestStripifyChunksToCacheSize(t *testing.T) {
	indices := gridIndices(8, 8)
	cacheSize := 16
	threshold := cacheSize - cacheInefficiency

	strips, faces := Stripify(indices, cacheSize, 0, gridMaxIndex(8, 8))

	for _, st := range strips {
		real := 0
		for _, f := range st.Faces {
			if !IsDegenerate(f) {
				real++
			}
		}
		// a chunk holds at most threshold faces plus a folded tail of
		// fewer than 4
		assert.LessOrEqual(t, real, threshold+3)
	}
	assert.Equal(t, indexStreamFaces(indices), outputFaces(strips, faces))
}

func TestStripifyMinStripLengthDissolves(t *testing.T) {
	strips, faces := Stripify(quadIndices, 16, 100, 3)

	assert.Empty(t, strips, "strips below the minimum length dissolve")
	require.Len(t, faces, 2)
	assert.Equal(t, indexStreamFaces(quadIndices), outputFaces(strips, faces))
}

func TestCreateStripsQuad(t *testing.T) {
	strips, _ := Stripify(quadIndices, 16, 0, 3)

	stream, numSeparate := CreateStrips(strips, true)

	assert.Equal(t, 1, numSeparate)
	assert.NotContains(t, stream, int32(StripSeparator))
	assert.Equal(t, indexStreamFaces(quadIndices), decodeStrip(stream))
}

func TestCreateStripsStitchedRoundTrip(t *testing.T) {
	indices := gridIndices(4, 4)
	strips, faces := Stripify(indices, 16, 0, gridMaxIndex(4, 4))
	require.Empty(t, faces, "a regular grid should strip completely")

	stream, numSeparate := CreateStrips(strips, true)

	assert.Equal(t, 1, numSeparate)
	assert.NotContains(t, stream, int32(StripSeparator))
	assert.Equal(t, indexStreamFaces(indices), decodeStrip(stream),
		"re-expanding the stitched stream must reproduce the input faces")
}

func TestCreateStripsUnstitchedSeparators(t *testing.T) {
	// two disconnected quads cannot share a strip without stitching
	indices := append(append([]int32{}, quadIndices...), 4, 5, 6, 4, 6, 7)
	strips, faces := Stripify(indices, 16, 0, 7)
	require.Empty(t, faces)

	stream, numSeparate := CreateStrips(strips, false)

	assert.Equal(t, len(strips), numSeparate)
	assert.GreaterOrEqual(t, numSeparate, 2)

	separators := 0
	decoded := make(map[[3]int32]int)
	segStart := 0
	for i, idx := range stream {
		if idx != StripSeparator {
			continue
		}
		separators++
		for tri, n := range decodeStrip(stream[segStart:i]) {
			decoded[tri] += n
		}
		segStart = i + 1
	}
	for tri, n := range decodeStrip(stream[segStart:]) {
		decoded[tri] += n
	}

	assert.Equal(t, numSeparate-1, separators, "separators sit between strips only")
	assert.Equal(t, indexStreamFaces(indices), decoded)
}

func TestCreateStripsWindingPreserved(t *testing.T) {
	// a single-row grid strips without bridges, isolating the winding
	// bookkeeping of the serializer itself
	indices := gridIndices(6, 1)
	strips, _ := Stripify(indices, 16, 0, gridMaxIndex(6, 1))

	stream, _ := CreateStrips(strips, true)

	// rolling-triangle expansion with alternating winding must yield
	// the input faces in their original orientation
	want := make(map[[3]int32]int)
	for i := 0; i+2 < len(indices); i += 3 {
		want[orient(indices[i], indices[i+1], indices[i+2])]++
	}

	got := make(map[[3]int32]int)
	for i := 2; i < len(stream); i++ {
		v0, v1, v2 := stream[i-2], stream[i-1], stream[i]
		if isDegenerate(v0, v1, v2) {
			continue
		}
		if i%2 != 0 {
			v0, v1 = v1, v0
		}
		got[orient(v0, v1, v2)]++
	}

	assert.Equal(t, want, got)
}

// orient rotates a triangle so its smallest vertex comes first while
// keeping the winding direction.
func orient(v0, v1, v2 int32) [3]int32 {
	for v0 > v1 || v0 > v2 {
		v0, v1, v2 = v1, v2, v0
	}
	return [3]int32{v0, v1, v2}
}
