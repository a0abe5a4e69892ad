package stripper

// StripSeparator separates strips in the serialized index stream when
// stitching is disabled.
const StripSeparator = -1

// getUniqueVertexInB returns the vertex of b that a does not have, or
// -1 when the faces share all vertices.
func getUniqueVertexInB(a, b *Face) int32 {
	if b.V0 != a.V0 && b.V0 != a.V1 && b.V0 != a.V2 {
		return b.V0
	}
	if b.V1 != a.V0 && b.V1 != a.V1 && b.V1 != a.V2 {
		return b.V1
	}
	if b.V2 != a.V0 && b.V2 != a.V1 && b.V2 != a.V2 {
		return b.V2
	}
	return -1
}

// getSharedVertices returns the (at most) two vertices of b that also
// occur in a, in b's vertex order; absent slots are -1.
func getSharedVertices(a, b *Face) (int32, int32) {
	shared0 := int32(-1)
	shared1 := int32(-1)

	if b.V0 == a.V0 || b.V0 == a.V1 || b.V0 == a.V2 {
		shared0 = b.V0
	}
	if b.V1 == a.V0 || b.V1 == a.V1 || b.V1 == a.V2 {
		if shared0 == -1 {
			shared0 = b.V1
		} else {
			return shared0, b.V1
		}
	}
	if b.V2 == a.V0 || b.V2 == a.V1 || b.V2 == a.V2 {
		if shared0 == -1 {
			shared0 = b.V2
		} else {
			return shared0, b.V2
		}
	}

	return shared0, shared1
}

// isCW reports whether emitting v0 then v1 preserves the face's
// winding order.
func isCW(f *Face, v0, v1 int32) bool {
	if f.V0 == v0 {
		return f.V1 == v1
	}
	if f.V1 == v0 {
		return f.V2 == v1
	}
	return f.V0 == v1
}

// nextIsCW reports the winding the next face must have, derived from
// the number of indices emitted so far.
func nextIsCW(numIndices int) bool {
	return numIndices%2 == 0
}

// reorderFirstFace rearranges a copy of the strip's first face so that
// the vertex unique to the second face comes first and, when a third
// face exists, the vertex shared with it comes last. With bridgeCheck
// set, a bridge in the second slot pivots the reorder on the bridge's
// repeated vertex instead.
func reorderFirstFace(st *Strip, bridgeCheck bool) Face {
	first := Face{V0: st.Faces[0].V0, V1: st.Faces[0].V1, V2: st.Faces[0].V2}
	if len(st.Faces) == 1 {
		return first
	}

	uniqueV := getUniqueVertexInB(st.Faces[1], &first)
	if uniqueV == first.V1 {
		first.V0, first.V1 = first.V1, first.V0
	} else if uniqueV == first.V2 {
		first.V0, first.V2 = first.V2, first.V0
	}

	if len(st.Faces) > 2 {
		if bridgeCheck && IsDegenerate(st.Faces[1]) {
			pivot := st.Faces[1].V1
			if first.V1 == pivot {
				first.V1, first.V2 = first.V2, first.V1
			}
		} else {
			shared0, shared1 := getSharedVertices(st.Faces[2], &first)
			if shared0 == first.V1 && shared1 == -1 {
				first.V1, first.V2 = first.V2, first.V1
			}
		}
	}

	return first
}

// CreateStrips flattens the ordered strips into one index stream. With
// stitching, consecutive strips are joined by double-emitting the new
// strip's first vertex, tripled when the winding parity at the join
// disagrees with the strip's actual starting winding; the stream then
// holds exactly one strip. Without stitching, strips are separated by
// StripSeparator entries, one between each pair of consecutive strips.
// The second return value is the number of separate strips in the
// stream.
func CreateStrips(allStrips []*Strip, stitchStrips bool) ([]int32, int) {
	var stripIndices []int32
	numSeparateStrips := 0

	var last Face
	accountForNegatives := 0

	for i, st := range allStrips {
		first := reorderFirstFace(st, true)

		if i == 0 || !stitchStrips {
			if !isCW(st.Faces[0], first.V0, first.V1) {
				stripIndices = append(stripIndices, first.V0)
			}
		} else {
			// double tap the first vertex of the new strip
			stripIndices = append(stripIndices, first.V0)

			// triple tap if the parity at the join is wrong
			if nextIsCW(len(stripIndices)-accountForNegatives) != isCW(st.Faces[0], first.V0, first.V1) {
				stripIndices = append(stripIndices, first.V0)
			}
		}

		stripIndices = append(stripIndices, first.V0, first.V1, first.V2)
		last = first

		for j := 1; j < len(st.Faces); j++ {
			uniqueV := getUniqueVertexInB(&last, st.Faces[j])
			if uniqueV != -1 {
				stripIndices = append(stripIndices, uniqueV)
				last.V0 = last.V1
				last.V1 = last.V2
				last.V2 = uniqueV
			} else {
				// a bridge: emit its third vertex and restart the
				// rolling triangle from the bridge's raw vertices
				stripIndices = append(stripIndices, st.Faces[j].V2)
				last.V0 = st.Faces[j].V0
				last.V1 = st.Faces[j].V1
				last.V2 = st.Faces[j].V2
			}
		}

		if stitchStrips {
			if i != len(allStrips)-1 {
				stripIndices = append(stripIndices, last.V2)
			}
		} else {
			if i != len(allStrips)-1 {
				stripIndices = append(stripIndices, StripSeparator)
				accountForNegatives++
			}
			numSeparateStrips++
		}

		last.V0 = last.V1
		last.V1 = last.V2
	}

	if stitchStrips {
		numSeparateStrips = 1
	}
	return stripIndices, numSeparateStrips
}
