// Package wavefront provides a minimal reader for Wavefront OBJ
// meshes. Only the geometry needed for index-stream processing is
// parsed: vertex positions and faces. Faces with more than three
// corners are fan-triangulated; every other statement is ignored.
package wavefront

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/meshkit/tristrip/pkg/math"
)

// OBJ format errors.
var (
	ErrShortFace       = errors.New("face with fewer than 3 vertices")
	ErrBadVertex       = errors.New("malformed vertex statement")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// Mesh holds the parsed geometry. Positions are kept so callers can
// size and reorder vertex buffers; connectivity lives in Indices,
// three entries per triangle, zero-based.
type Mesh struct {
	Positions []math.Vec3
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// MaxIndex returns the largest vertex id referenced by a face, or 0
// for an empty mesh.
func (m *Mesh) MaxIndex() uint32 {
	var maxIdx uint32
	for _, idx := range m.Indices {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	return maxIdx
}

// Bounds returns the axis-aligned bounding box of the vertices. An
// empty mesh bounds to two zero vectors.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.Positions) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float32 {
	var area float32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		area += math.TriangleArea(
			m.Positions[m.Indices[i]],
			m.Positions[m.Indices[i+1]],
			m.Positions[m.Indices[i+2]])
	}
	return area
}

// Load reads an OBJ mesh from a file.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mesh, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mesh, nil
}

// Parse reads an OBJ mesh from r.
func Parse(r io.Reader) (*Mesh, error) {
	mesh := &Mesh{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrBadVertex)
			}
			var pos [3]float32
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrBadVertex, err)
				}
				pos[i] = float32(val)
			}
			mesh.Positions = append(mesh.Positions, math.Vec3{X: pos[0], Y: pos[1], Z: pos[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrShortFace)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, field := range fields[1:] {
				idx, err := resolveIndex(field, len(mesh.Positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, idx)
			}
			// fan-triangulate polygons around the first corner
			for i := 1; i+1 < len(corners); i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// resolveIndex converts one face corner ("7", "7/1", "7//3", "-2") to
// a zero-based vertex index. OBJ indices are one-based; negative
// values count back from the most recently declared vertex.
func resolveIndex(field string, numVertices int) (uint32, error) {
	if slash := strings.IndexByte(field, '/'); slash >= 0 {
		field = field[:slash]
	}

	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrIndexOutOfRange, field)
	}

	if idx < 0 {
		idx = numVertices + idx + 1
	}
	if idx < 1 || idx > numVertices {
		return 0, fmt.Errorf("%w: %d of %d vertices", ErrIndexOutOfRange, idx, numVertices)
	}
	return uint32(idx - 1), nil
}
