package stripper

import (
	"github.com/meshkit/tristrip/internal/vcache"
)

// splitUpStripsAndOptimize slices the committed strips into cache
// sized chunks, dissolves the ones below the minimum length into the
// residual face list, and reorders what remains for cache locality.
func (s *stripifier) splitUpStripsAndOptimize(allStrips []*Strip) ([]*Strip, []*Face) {
	threshold := s.cacheSize
	var tempStrips []*Strip

	// slice each strip into chunks of threshold real faces; bridges
	// landing on a chunk boundary or start are dropped rather than
	// carried, and a tail of fewer than 4 faces folds into the
	// previous chunk
	for _, st := range allStrips {
		actualStripSize := 0
		for _, f := range st.Faces {
			if !IsDegenerate(f) {
				actualStripSize++
			}
		}

		if actualStripSize <= threshold {
			cur := newStrip(stripStart{}, 0, nil)
			cur.Faces = append(cur.Faces, st.Faces...)
			tempStrips = append(tempStrips, cur)
			continue
		}

		numTimes := actualStripSize / threshold
		numLeftover := actualStripSize % threshold

		degenerateCount := 0
		j := 0
		for ; j < numTimes; j++ {
			cur := newStrip(stripStart{}, 0, nil)

			faceCtr := j*threshold + degenerateCount
			firstTime := true
			for faceCtr < threshold+j*threshold+degenerateCount {
				if IsDegenerate(st.Faces[faceCtr]) {
					degenerateCount++

					// a bridge is kept only mid-chunk, or when the
					// tail is about to fold into this chunk
					if (faceCtr+1 != threshold+j*threshold+degenerateCount ||
						(j == numTimes-1 && numLeftover < 4 && numLeftover > 0)) &&
						!firstTime {
						cur.Faces = append(cur.Faces, st.Faces[faceCtr])
					}
					faceCtr++
				} else {
					cur.Faces = append(cur.Faces, st.Faces[faceCtr])
					faceCtr++
					firstTime = false
				}
			}

			if j == numTimes-1 && numLeftover < 4 && numLeftover > 0 {
				// tail too small for its own chunk, fold it in
				ctr := 0
				for ctr < numLeftover {
					if !IsDegenerate(st.Faces[faceCtr]) {
						ctr++
					} else {
						degenerateCount++
					}
					cur.Faces = append(cur.Faces, st.Faces[faceCtr])
					faceCtr++
				}
				numLeftover = 0
			}

			tempStrips = append(tempStrips, cur)
		}

		if numLeftover != 0 {
			cur := newStrip(stripStart{}, 0, nil)

			leftOff := j*threshold + degenerateCount
			ctr := 0
			firstTime := true
			for ctr < numLeftover {
				if !IsDegenerate(st.Faces[leftOff]) {
					ctr++
					firstTime = false
					cur.Faces = append(cur.Faces, st.Faces[leftOff])
				} else if !firstTime {
					cur.Faces = append(cur.Faces, st.Faces[leftOff])
				}
				leftOff++
			}

			tempStrips = append(tempStrips, cur)
		}
	}

	bigStrips, outFaceList := s.removeSmallStrips(tempStrips)

	var outStrips []*Strip
	if len(bigStrips) == 0 {
		return outStrips, outFaceList
	}

	cache := vcache.New(s.cacheSize)

	// seed the ordering with the chunk whose faces have the fewest
	// neighbors on average, a decent proxy for a boundary region that
	// later chunks would not revisit anyway
	firstIndex := 0
	minCost := float32(10000)
	for j, ts := range bigStrips {
		numNeighbors := 0
		for _, f := range ts.Faces {
			numNeighbors += s.numNeighbors(f)
		}
		currCost := float32(numNeighbors) / float32(len(ts.Faces))
		if currCost < minCost {
			minCost = currCost
			firstIndex = j
		}
	}

	updateCacheStrip(cache, bigStrips[firstIndex])
	outStrips = append(outStrips, bigStrips[firstIndex])
	bigStrips[firstIndex].visited = true

	wantsCW := len(bigStrips[firstIndex].Faces)%2 == 0

	// greedy n^2 ordering by simulated hit ratio against the running
	// cache; this is the slow part of stripification
	for {
		bestNumHits := float32(-1)
		bestIndex := 0

		for i, ts := range bigStrips {
			if ts.visited {
				continue
			}

			numHits := calcNumHitsStrip(cache, ts)
			if numHits > bestNumHits {
				bestNumHits = numHits
				bestIndex = i
			} else if numHits >= bestNumHits {
				// scores tied: prefer the chunk whose starting winding
				// matches where the previous chunk left off, saving a
				// winding-fix vertex at stitch time
				first := reorderFirstFace(ts, false)
				if wantsCW == isCW(ts.Faces[0], first.V0, first.V1) {
					bestIndex = i
				}
			}
		}

		if bestNumHits == -1 {
			break
		}

		bigStrips[bestIndex].visited = true
		updateCacheStrip(cache, bigStrips[bestIndex])
		outStrips = append(outStrips, bigStrips[bestIndex])
		if len(bigStrips[bestIndex].Faces)%2 != 0 {
			wantsCW = !wantsCW
		}
	}

	return outStrips, outFaceList
}

// removeSmallStrips dissolves strips below the configured minimum
// length into loose faces and re-threads those greedily: always the
// remaining face with the most simulated cache hits, ties broken by
// encounter order.
func (s *stripifier) removeSmallStrips(allStrips []*Strip) ([]*Strip, []*Face) {
	var bigStrips []*Strip
	var tempFaceList []*Face

	for _, st := range allStrips {
		if len(st.Faces) < s.minStripLength {
			tempFaceList = append(tempFaceList, st.Faces...)
		} else {
			bigStrips = append(bigStrips, st)
		}
	}

	var faceList []*Face
	if len(tempFaceList) > 0 {
		visited := make([]bool, len(tempFaceList))
		cache := vcache.New(s.cacheSize)

		for {
			bestNumHits := -1
			bestIndex := 0

			for i, f := range tempFaceList {
				if visited[i] {
					continue
				}
				numHits := calcNumHitsFace(cache, f)
				if numHits > bestNumHits {
					bestNumHits = numHits
					bestIndex = i
				}
			}

			if bestNumHits == -1 {
				break
			}

			visited[bestIndex] = true
			updateCacheFace(cache, tempFaceList[bestIndex])
			faceList = append(faceList, tempFaceList[bestIndex])
		}
	}

	return bigStrips, faceList
}

// updateCacheStrip pushes every vertex of the strip not already cached.
func updateCacheStrip(cache *vcache.Cache, st *Strip) {
	for _, f := range st.Faces {
		updateCacheFace(cache, f)
	}
}

// updateCacheFace pushes every vertex of the face not already cached.
func updateCacheFace(cache *vcache.Cache, f *Face) {
	if !cache.Contains(f.V0) {
		cache.Add(f.V0)
	}
	if !cache.Contains(f.V1) {
		cache.Add(f.V1)
	}
	if !cache.Contains(f.V2) {
		cache.Add(f.V2)
	}
}

// calcNumHitsStrip returns the simulated cache hits per face for the
// strip against the current cache state.
func calcNumHitsStrip(cache *vcache.Cache, st *Strip) float32 {
	numHits := 0
	for _, f := range st.Faces {
		numHits += calcNumHitsFace(cache, f)
	}
	if len(st.Faces) == 0 {
		return 0
	}
	return float32(numHits) / float32(len(st.Faces))
}

// calcNumHitsFace returns how many of the face's vertices are cached.
func calcNumHitsFace(cache *vcache.Cache, f *Face) int {
	numHits := 0
	if cache.Contains(f.V0) {
		numHits++
	}
	if cache.Contains(f.V1) {
		numHits++
	}
	if cache.Contains(f.V2) {
		numHits++
	}
	return numHits
}
