package stripper

import (
	"go.uber.org/zap"

	"github.com/meshkit/tristrip/internal/logger"
)

// unassigned marks a face that no committed strip has claimed yet.
const unassigned = -1

// Face is a triangle of the input mesh. V0,V1,V2 define the winding.
// Bridge faces created during strip growth repeat a vertex and carry
// no area; IsDegenerate tells them apart from real geometry.
type Face struct {
	V0, V1, V2 int32

	// stripID is the committed strip this face belongs to, or
	// unassigned. Experiment-scoped marks live on the experiment, not
	// here.
	stripID int32
}

func newFace(v0, v1, v2 int32) *Face {
	return &Face{V0: v0, V1: v1, V2: v2, stripID: unassigned}
}

// IsDegenerate reports whether the face repeats a vertex. Bridge faces
// are degenerate by construction.
func IsDegenerate(f *Face) bool {
	return f.V0 == f.V1 || f.V0 == f.V2 || f.V1 == f.V2
}

func isDegenerate(v0, v1, v2 int32) bool {
	return v0 == v1 || v0 == v2 || v1 == v2
}

// edge is an unordered vertex pair with up to two incident faces. Each
// edge is listed in the adjacency table of both endpoints.
type edge struct {
	v0, v1       int32
	face0, face1 *Face
}

// otherFace returns the incident face that is not f.
func (e *edge) otherFace(f *Face) *Face {
	if e.face0 == f {
		return e.face1
	}
	return e.face0
}

// findEdge locates the edge between v0 and v1 by scanning the
// adjacency list at v0, or nil if the mesh has no such edge.
func (s *stripifier) findEdge(v0, v1 int32) *edge {
	for _, e := range s.edges[v0] {
		if e.v0 == v0 && e.v1 == v1 {
			return e
		}
		if e.v1 == v0 && e.v0 == v1 {
			return e
		}
	}
	return nil
}

// findOtherFace returns the face across the v0-v1 edge from f, or nil
// if there is none.
func (s *stripifier) findOtherFace(v0, v1 int32, f *Face) *Face {
	if v0 == v1 {
		// self-edge of a bridge face: nothing across it, and no entry in
		// the adjacency table to look up
		return nil
	}
	e := s.findEdge(v0, v1)
	if e == nil {
		logger.Warn("edge missing from adjacency table",
			zap.Int32("v0", v0), zap.Int32("v1", v1))
		return nil
	}
	return e.otherFace(f)
}

// numNeighbors counts the faces sharing an edge with f.
func (s *stripifier) numNeighbors(f *Face) int {
	n := 0
	if s.findOtherFace(f.V0, f.V1, f) != nil {
		n++
	}
	if s.findOtherFace(f.V1, f.V2, f) != nil {
		n++
	}
	if s.findOtherFace(f.V2, f.V0, f) != nil {
		n++
	}
	return n
}

// alreadyExists reports whether a face with the exact same vertex order
// has already been accepted.
func (s *stripifier) alreadyExists(f *Face) bool {
	for _, other := range s.faces {
		if other.V0 == f.V0 && other.V1 == f.V1 && other.V2 == f.V2 {
			return true
		}
	}
	return false
}

// attachEdge links the v0-v1 edge of f into the adjacency table,
// creating the edge if this is its first face. It returns the edge and
// whether f was attached as the second incident face (needed to undo
// the attachment if f turns out to be a duplicate). A third incident
// face is a non-manifold condition: it is reported and dropped.
func (s *stripifier) attachEdge(v0, v1 int32, f *Face) (e *edge, attachedSecond bool, created bool) {
	e = s.findEdge(v0, v1)
	if e == nil {
		e = &edge{v0: v0, v1: v1, face0: f}
		s.edges[v0] = append(s.edges[v0], e)
		s.edges[v1] = append(s.edges[v1], e)
		return e, false, true
	}
	if e.face1 != nil {
		logger.Warn("more than two triangles share an edge, dropping extra adjacency",
			zap.Int32("v0", v0), zap.Int32("v1", v1))
		return e, false, false
	}
	e.face1 = f
	return e, true, false
}

// buildAdjacency builds the deduplicated face list and the per-vertex
// edge adjacency table from the raw index stream.
func (s *stripifier) buildAdjacency(maxIndex int32) {
	numTriangles := len(s.indices) / 3
	s.faces = make([]*Face, 0, numTriangles)
	s.edges = make([][]*edge, maxIndex+1)

	for i := 0; i < numTriangles; i++ {
		v0 := s.indices[i*3]
		v1 := s.indices[i*3+1]
		v2 := s.indices[i*3+2]

		if isDegenerate(v0, v1, v2) {
			continue
		}

		f := newFace(v0, v1, v2)

		e01, attached01, created01 := s.attachEdge(v0, v1, f)
		e12, attached12, created12 := s.attachEdge(v1, v2, f)
		e20, attached20, created20 := s.attachEdge(v2, v0, f)

		// If every edge already existed the same triangle may already
		// have been accepted; duplicates from malformed input are
		// dropped and their attachments undone.
		if !created01 && !created12 && !created20 && s.alreadyExists(f) {
			if attached01 {
				e01.face1 = nil
			}
			if attached12 {
				e12.face1 = nil
			}
			if attached20 {
				e20.face1 = nil
			}
			logger.Warn("duplicate triangle dropped",
				zap.Int32("v0", v0), zap.Int32("v1", v1), zap.Int32("v2", v2))
			continue
		}

		s.faces = append(s.faces, f)
	}
}
