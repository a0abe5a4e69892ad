package stripper

import (
	"go.uber.org/zap"

	"github.com/meshkit/tristrip/internal/logger"
)

// stripStart captures the parameters a strip grows from: the seed
// face, the seed edge, and whether growth heads toward the edge's v1.
type stripStart struct {
	face *Face
	edge *edge
	toV1 bool
}

// Strip is an ordered face sequence in which consecutive members share
// an edge, possibly interleaved with zero-area bridge faces.
type Strip struct {
	Faces []*Face

	start      stripStart
	id         int32
	exp        *experiment // nil once committed
	visited    bool        // used only while reordering chunks
	numBridges int
}

// experiment is an ephemeral group of strips grown speculatively from
// one seed. Its face marks are scoped to the experiment itself so
// discarding a losing experiment is just dropping the value.
type experiment struct {
	id     int32
	strips []*Strip
	marks  map[*Face]int32 // face -> strip id within this experiment
}

func newStrip(start stripStart, id int32, exp *experiment) *Strip {
	return &Strip{start: start, id: id, exp: exp}
}

// isInStrip reports whether f belongs to this strip, honoring
// experiment scope.
func (st *Strip) isInStrip(f *Face) bool {
	if f == nil {
		return false
	}
	if st.exp != nil {
		id, ok := st.exp.marks[f]
		return ok && id == st.id
	}
	return f.stripID == st.id
}

// isMarked reports whether f is unavailable to this strip: already in
// a committed strip, or claimed within the same experiment.
func (st *Strip) isMarked(f *Face) bool {
	if f.stripID >= 0 {
		return true
	}
	if st.exp != nil {
		_, ok := st.exp.marks[f]
		return ok
	}
	return false
}

// markFace claims f for this strip.
func (st *Strip) markFace(f *Face) {
	if st.exp != nil {
		st.exp.marks[f] = st.id
		return
	}
	f.stripID = st.id
}

// unique reports whether f has at least one vertex that does not occur
// anywhere in faces. Backward growth uses it to refuse wrap-around.
func unique(faces []*Face, f *Face) bool {
	var b0, b1, b2 bool
	for _, other := range faces {
		if !b0 && (other.V0 == f.V0 || other.V1 == f.V0 || other.V2 == f.V0) {
			b0 = true
		}
		if !b1 && (other.V0 == f.V1 || other.V1 == f.V1 || other.V2 == f.V1) {
			b1 = true
		}
		if !b2 && (other.V0 == f.V2 || other.V1 == f.V2 || other.V2 == f.V2) {
			b2 = true
		}
		if b0 && b1 && b2 {
			return false
		}
	}
	return true
}

// sharesEdge reports whether f shares an edge with any face already in
// st.
func (s *stripifier) sharesEdge(st *Strip, f *Face) bool {
	pairs := [3][2]int32{{f.V0, f.V1}, {f.V1, f.V2}, {f.V2, f.V0}}
	for _, p := range pairs {
		e := s.findEdge(p[0], p[1])
		if e == nil {
			continue
		}
		if st.isInStrip(e.face0) || st.isInStrip(e.face1) {
			return true
		}
	}
	return false
}

// nextIndex returns the vertex of f that continues the strip whose two
// most recent vertices are the last two entries of scratch. Malformed
// connectivity (usually a duplicate triangle that derailed traversal)
// is reported and answered with a best-effort choice.
func nextIndex(scratch []int32, f *Face) int32 {
	v0 := scratch[len(scratch)-2]
	v1 := scratch[len(scratch)-1]

	if f.V0 != v0 && f.V0 != v1 {
		if (f.V1 != v0 && f.V1 != v1) || (f.V2 != v0 && f.V2 != v1) {
			logger.Warn("triangle missing an expected shared vertex, traversal derailed",
				zap.Int32("v0", f.V0), zap.Int32("v1", f.V1), zap.Int32("v2", f.V2))
		}
		return f.V0
	}
	if f.V1 != v0 && f.V1 != v1 {
		if (f.V0 != v0 && f.V0 != v1) || (f.V2 != v0 && f.V2 != v1) {
			logger.Warn("triangle missing an expected shared vertex, traversal derailed",
				zap.Int32("v0", f.V0), zap.Int32("v1", f.V1), zap.Int32("v2", f.V2))
		}
		return f.V1
	}
	if f.V2 != v0 && f.V2 != v1 {
		if (f.V0 != v0 && f.V0 != v1) || (f.V1 != v0 && f.V1 != v1) {
			logger.Warn("triangle missing an expected shared vertex, traversal derailed",
				zap.Int32("v0", f.V0), zap.Int32("v1", f.V1), zap.Int32("v2", f.V2))
		}
		return f.V2
	}

	// every vertex matched the window; fall back to a repeated vertex
	switch {
	case f.V0 == f.V1 || f.V0 == f.V2:
		return f.V0
	case f.V1 == f.V2:
		return f.V1
	default:
		return -1
	}
}

// buildStrip grows st forward as far as possible, then backward, and
// joins the two runs at the seed face.
func (s *stripifier) buildStrip(st *Strip) {
	var scratch []int32

	forward := []*Face{st.start.face}
	var backward []*Face
	st.markFace(st.start.face)

	v0, v1 := st.start.edge.v0, st.start.edge.v1
	if !st.start.toV1 {
		v0, v1 = v1, v0
	}

	scratch = append(scratch, v0, v1)
	v2 := nextIndex(scratch, st.start.face)
	scratch = append(scratch, v2)

	// forward pass
	nv0, nv1 := v1, v2
	next := s.findOtherFace(nv0, nv1, st.start.face)
	for next != nil && !st.isMarked(next) {
		// probe one step further; a dead end just ahead may be worth a
		// bridge toward an alternative live face
		testnv0 := nv1
		testnv1 := nextIndex(scratch, next)

		nextNext := s.findOtherFace(testnv0, testnv1, next)
		if nextNext == nil || st.isMarked(nextNext) {
			if alt := s.findOtherFace(nv0, testnv1, next); alt != nil && !st.isMarked(alt) {
				bridge := newFace(nv0, nv1, nv0)
				forward = append(forward, bridge)
				st.markFace(bridge)
				scratch = append(scratch, nv0)
				testnv0 = nv0
				st.numBridges++
			}
		}

		forward = append(forward, next)
		st.markFace(next)
		scratch = append(scratch, testnv1)

		nv0, nv1 = testnv0, testnv1
		next = s.findOtherFace(nv0, nv1, next)
	}

	// the combined list so far, used for the wrap-around check
	all := make([]*Face, len(forward))
	copy(all, forward)

	// backward pass from the opposite end of the seed edge
	scratch = scratch[:0]
	scratch = append(scratch, v2, v1, v0)

	nv0, nv1 = v1, v0
	next = s.findOtherFace(nv0, nv1, st.start.face)
	for next != nil && !st.isMarked(next) {
		// refuse faces whose vertices all occur in the strip already,
		// otherwise the strip could wrap around onto itself
		if !unique(all, next) {
			break
		}

		testnv0 := nv1
		testnv1 := nextIndex(scratch, next)

		nextNext := s.findOtherFace(testnv0, testnv1, next)
		if nextNext == nil || st.isMarked(nextNext) {
			if alt := s.findOtherFace(nv0, testnv1, next); alt != nil && !st.isMarked(alt) {
				bridge := newFace(nv0, nv1, nv0)
				backward = append(backward, bridge)
				st.markFace(bridge)
				scratch = append(scratch, nv0)
				testnv0 = nv0
				st.numBridges++
			}
		}

		backward = append(backward, next)
		all = append(all, next)
		st.markFace(next)
		scratch = append(scratch, testnv1)

		nv0, nv1 = testnv0, testnv1
		next = s.findOtherFace(nv0, nv1, next)
	}

	st.combine(forward, backward)
}

// combine joins the reversed backward run and the forward run into the
// strip's final face order.
func (st *Strip) combine(forward, backward []*Face) {
	st.Faces = make([]*Face, 0, len(forward)+len(backward))
	for i := len(backward) - 1; i >= 0; i-- {
		st.Faces = append(st.Faces, backward[i])
	}
	st.Faces = append(st.Faces, forward...)
}
