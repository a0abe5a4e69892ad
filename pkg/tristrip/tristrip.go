// Package tristrip converts indexed triangle meshes into triangle
// strips optimized for the GPU post-transform vertex cache. It is
// intended for offline asset pipelines: feed it the index buffer you
// would render as a triangle list and render the returned primitive
// groups instead.
package tristrip

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/meshkit/tristrip/internal/logger"
	"github.com/meshkit/tristrip/internal/stripper"
)

// PrimType tags the primitive topology of a group.
type PrimType int

// Primitive topologies.
const (
	TypeList PrimType = iota
	TypeStrip
)

// String returns a human-readable topology name.
func (t PrimType) String() string {
	switch t {
	case TypeList:
		return "LIST"
	case TypeStrip:
		return "STRIP"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// PrimitiveGroup is one renderable segment of the output: a triangle
// strip or a triangle list with its flat index array.
type PrimitiveGroup struct {
	Type    PrimType
	Indices []uint32
}

// Options configures one stripification run. Options are passed by
// value; nothing about a run is process-wide.
type Options struct {
	// CacheSize is the post-transform vertex cache size to optimize
	// for: the "actual" size, e.g. 16 for GeForce1/2, 24 for GeForce3.
	CacheSize int
	// MinStripLength is the strip size in faces below which a strip is
	// dissolved into the residual triangle list.
	MinStripLength int
	// StitchStrips joins all strips into one stream using degenerate
	// triangles. One STRIP group comes back instead of many.
	StitchStrips bool
	// ListsOnly skips strip output entirely and returns a single
	// cache-ordered triangle list.
	ListsOnly bool
}

// DefaultOptions returns the vendor-recommended defaults.
func DefaultOptions() Options {
	return Options{
		CacheSize:      16,
		MinStripLength: 0,
		StitchStrips:   true,
		ListsOnly:      false,
	}
}

// GenerateStrips stripifies the mesh given as a flat triangle index
// stream (three consecutive entries per triangle) and returns the
// resulting primitive groups: the strip groups first, then one LIST
// group holding the residual faces if any remain.
//
// Degenerate input triangles are excluded, exact duplicate triangles
// are dropped and non-manifold edges lose their extra faces; all three
// conditions are diagnosed through the logger, none of them fails the
// run. Vertex ids must fit in 31 bits; triangles referencing larger
// ids are dropped like other malformed input. A panic means an
// internal invariant was violated and is a bug in the engine, not an
// input condition.
func GenerateStrips(indices []uint32, opts Options) []PrimitiveGroup {
	in := make([]int32, 0, len(indices))
	maxIndex := int32(0)
	for i := 0; i+2 < len(indices); i += 3 {
		if indices[i] > math.MaxInt32 || indices[i+1] > math.MaxInt32 || indices[i+2] > math.MaxInt32 {
			logger.Warn("vertex id exceeds the supported range, dropping triangle",
				zap.Uint32("v0", indices[i]), zap.Uint32("v1", indices[i+1]), zap.Uint32("v2", indices[i+2]))
			continue
		}
		for _, idx := range indices[i : i+3] {
			v := int32(idx)
			in = append(in, v)
			if v > maxIndex {
				maxIndex = v
			}
		}
	}
	if len(in) == 0 {
		return nil
	}

	strips, faces := stripper.Stripify(in, opts.CacheSize, opts.MinStripLength, maxIndex)

	if opts.ListsOnly {
		return []PrimitiveGroup{listOnlyGroup(strips, faces)}
	}

	var groups []PrimitiveGroup

	if len(strips) > 0 {
		stripIndices, numSeparateStrips := stripper.CreateStrips(strips, opts.StitchStrips)
		if opts.StitchStrips && numSeparateStrips != 1 {
			panic(fmt.Sprintf("tristrip: stitching produced %d strips instead of one", numSeparateStrips))
		}

		startingLoc := 0
		for s := 0; s < numSeparateStrips; s++ {
			stripLength := len(stripIndices)
			if !opts.StitchStrips {
				i := startingLoc
				for i < len(stripIndices) && stripIndices[i] != stripper.StripSeparator {
					i++
				}
				stripLength = i - startingLoc
			}

			group := PrimitiveGroup{
				Type:    TypeStrip,
				Indices: make([]uint32, stripLength),
			}
			for i := 0; i < stripLength; i++ {
				group.Indices[i] = uint32(stripIndices[startingLoc+i])
			}
			groups = append(groups, group)

			// +1 skips the separator; harmless in the stitched case
			// since the loop runs once
			startingLoc += stripLength + 1
		}
	}

	if len(faces) > 0 {
		group := PrimitiveGroup{
			Type:    TypeList,
			Indices: make([]uint32, 0, len(faces)*3),
		}
		for _, f := range faces {
			group.Indices = append(group.Indices, uint32(f.V0), uint32(f.V1), uint32(f.V2))
		}
		groups = append(groups, group)
	}

	return groups
}

// listOnlyGroup flattens the cache-ordered strips and residual faces
// into one triangle list. Bridges carry no area and are of no use in a
// list, so they are elided.
func listOnlyGroup(strips []*stripper.Strip, faces []*stripper.Face) PrimitiveGroup {
	group := PrimitiveGroup{Type: TypeList}

	for _, st := range strips {
		for _, f := range st.Faces {
			if stripper.IsDegenerate(f) {
				continue
			}
			group.Indices = append(group.Indices, uint32(f.V0), uint32(f.V1), uint32(f.V2))
		}
	}
	for _, f := range faces {
		group.Indices = append(group.Indices, uint32(f.V0), uint32(f.V1), uint32(f.V2))
	}

	return group
}
