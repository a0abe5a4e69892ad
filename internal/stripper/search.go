package stripper

import (
	"github.com/emirpasic/gods/sets/hashset"
)

// numSamples is how many reset points each round of experiments seeds.
const numSamples = 10

// findStartPoint returns the index of the face with the most open
// edges, preferring the boundary of the mesh, or -1 when every face is
// fully surrounded.
func (s *stripifier) findStartPoint() int {
	bestCtr := -1
	bestIndex := -1

	for i, f := range s.faces {
		ctr := 0
		if s.findOtherFace(f.V0, f.V1, f) == nil {
			ctr++
		}
		if s.findOtherFace(f.V1, f.V2, f) == nil {
			ctr++
		}
		if s.findOtherFace(f.V2, f.V0, f) == nil {
			ctr++
		}
		if ctr > bestCtr {
			bestCtr = ctr
			bestIndex = i
		}
	}

	if bestCtr == 0 {
		return -1
	}
	return bestIndex
}

// findGoodResetPoint picks an uncommitted face to seed the next batch
// of experiments. The first call prefers a mesh boundary; later calls
// jump to a position derived from meshJump, spreading the seeds across
// disconnected regions, then scan circularly for the nearest
// uncommitted face. Returns nil when the whole mesh is committed.
func (s *stripifier) findGoodResetPoint() *Face {
	numFaces := len(s.faces)
	if numFaces == 0 {
		return nil
	}

	startPoint := -1
	if s.firstResetPoint {
		startPoint = s.findStartPoint()
		s.firstResetPoint = false
	}
	if startPoint == -1 {
		startPoint = int(float32(numFaces-1) * s.meshJump)
	}

	var result *Face
	i := startPoint
	for {
		if s.faces[i].stripID < 0 {
			result = s.faces[i]
			break
		}
		i++
		if i >= numFaces {
			i = 0
		}
		if i == startPoint {
			break
		}
	}

	s.meshJump += 0.1
	if s.meshJump > 1.0 {
		s.meshJump = 0.05
	}

	return result
}

// findTraversal looks for a place to continue the experiment after st
// stopped growing: it scans the adjacency list at the strip's open end
// for a face across an edge the experiment has not claimed.
func (s *stripifier) findTraversal(st *Strip) (stripStart, bool) {
	// if the strip was grown v0->v1 on its seed edge, v1 is the open
	// end the next edge must touch
	v := st.start.edge.v0
	if st.start.toV1 {
		v = st.start.edge.v1
	}

	var found *Face
	var foundEdge *edge
	for _, e := range s.edges[v] {
		f0, f1 := e.face0, e.face1
		if f0 != nil && !st.isInStrip(f0) && f1 != nil && !st.isMarked(f1) {
			found, foundEdge = f1, e
			break
		}
		if f1 != nil && !st.isInStrip(f1) && f0 != nil && !st.isMarked(f0) {
			found, foundEdge = f0, e
			break
		}
	}

	start := stripStart{face: found, edge: foundEdge}
	if foundEdge != nil {
		if s.sharesEdge(st, found) {
			start.toV1 = foundEdge.v0 == v
		} else {
			start.toV1 = foundEdge.v1 == v
		}
	}
	return start, found != nil
}

// commitStrips promotes the winning experiment's strips to real ones:
// the faces get their committed strip ids and the experiment scope is
// detached.
func (s *stripifier) commitStrips(all []*Strip, exp *experiment) []*Strip {
	for _, st := range exp.strips {
		st.exp = nil
		all = append(all, st)
		for _, f := range st.Faces {
			st.markFace(f)
		}
	}
	return all
}

// avgStripSize is the mean number of real faces per strip; bridges do
// not count.
func avgStripSize(strips []*Strip) float32 {
	sizeAccum := 0
	for _, st := range strips {
		sizeAccum += len(st.Faces) - st.numBridges
	}
	return float32(sizeAccum) / float32(len(strips))
}

// findAllStrips covers the mesh with strips by running rounds of
// competing experiments. Each round seeds up to numSamples reset
// points, launches six experiments per distinct seed face (both
// directions of its three edges), grows each to exhaustion, scores
// them by average strip size and commits only the winner. Rounds
// repeat until no uncommitted face remains.
func (s *stripifier) findAllStrips() []*Strip {
	var allStrips []*Strip

	experimentID := int32(0)
	stripID := int32(0)
	done := false

	for !done {
		var experiments []*experiment
		resetPoints := hashset.New()

		for i := 0; i < numSamples; i++ {
			nextFace := s.findGoodResetPoint()
			if nextFace == nil {
				done = true
				break
			}
			// starting over from a face this round already tried buys
			// nothing
			if resetPoints.Contains(nextFace) {
				continue
			}
			resetPoints.Add(nextFace)

			edge01 := s.findEdge(nextFace.V0, nextFace.V1)
			edge12 := s.findEdge(nextFace.V1, nextFace.V2)
			edge20 := s.findEdge(nextFace.V2, nextFace.V0)

			seeds := [6]stripStart{
				{face: nextFace, edge: edge01, toV1: true},
				{face: nextFace, edge: edge01, toV1: false},
				{face: nextFace, edge: edge12, toV1: true},
				{face: nextFace, edge: edge12, toV1: false},
				{face: nextFace, edge: edge20, toV1: true},
				{face: nextFace, edge: edge20, toV1: false},
			}
			for _, seed := range seeds {
				exp := &experiment{id: experimentID, marks: make(map[*Face]int32)}
				experimentID++

				st := newStrip(seed, stripID, exp)
				stripID++
				exp.strips = append(exp.strips, st)
				experiments = append(experiments, exp)
			}
		}

		// grow every experiment: the seed strip first, then
		// continuation strips as long as a traversal exists
		for _, exp := range experiments {
			s.buildStrip(exp.strips[0])

			cur := exp.strips[0]
			for {
				start, ok := s.findTraversal(cur)
				if !ok {
					break
				}
				cur = newStrip(start, stripID, exp)
				stripID++
				s.buildStrip(cur)
				exp.strips = append(exp.strips, cur)
			}
		}

		if len(experiments) == 0 {
			continue
		}

		// keep the most promising experiment, drop the rest
		bestIndex := 0
		bestValue := float32(0)
		for i, exp := range experiments {
			value := avgStripSize(exp.strips)
			if value > bestValue {
				bestValue = value
				bestIndex = i
			}
		}

		allStrips = s.commitStrips(allStrips, experiments[bestIndex])
	}

	return allStrips
}
