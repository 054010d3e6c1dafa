// Package asteroid generates procedural asteroid meshes.
//
// Generation is deterministic: a subdivided icosphere is deformed by seeded
// noise layers, scaled to a chosen radius and finalized with smooth vertex
// normals. The same GenerationParams with the same resolved seeds always
// yield the same Mesh and Stats.
package asteroid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is an ordered triple of vertex indices.
// Counter-clockwise winding (seen from outside) faces outward.
type Triangle [3]uint32

// Mesh is an indexed triangle mesh with one normal per vertex.
type Mesh struct {
	Vertices  []mgl64.Vec3 `json:"vertices"`
	Triangles []Triangle   `json:"triangles"`
	Normals   []mgl64.Vec3 `json:"normals"`
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Indices flattens the triangle list into a GPU-style index buffer.
func (m *Mesh) Indices() []uint32 {
	indices := make([]uint32, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		indices = append(indices, t[0], t[1], t[2])
	}
	return indices
}

// Bounds returns the bounding box of all vertices.
// An empty mesh yields a zero box.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: mgl64.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64},
		Max: mgl64.Vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64},
	}
	for _, v := range m.Vertices {
		for axis := range 3 {
			b.Min[axis] = math.Min(b.Min[axis], v[axis])
			b.Max[axis] = math.Max(b.Max[axis], v[axis])
		}
	}
	return b
}

// Validate checks that every triangle index is in range and that there is
// exactly one normal per vertex.
func (m *Mesh) Validate() error {
	if len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrMalformedMesh, len(m.Normals), len(m.Vertices))
	}
	n := uint32(len(m.Vertices))
	for i, t := range m.Triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			return fmt.Errorf("%w: triangle %d %v references vertex beyond %d", ErrMalformedMesh, i, t, n)
		}
	}
	return nil
}

// NormalizeVertices projects every vertex onto the unit sphere in place.
// Zero-length vertices are left at the origin.
func NormalizeVertices(vertices []mgl64.Vec3) {
	for i, v := range vertices {
		vertices[i] = safeNormalize(v)
	}
}

// ScaleVertices multiplies every vertex by s in place.
func ScaleVertices(vertices []mgl64.Vec3, s float64) {
	for i, v := range vertices {
		vertices[i] = v.Mul(s)
	}
}

// safeNormalize returns v scaled to unit length, or the zero vector when v is
// too short to have a meaningful direction.
func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	sq := v.Dot(v)
	if sq < smallNumber {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / math.Sqrt(sq))
}

// smallNumber is the squared-length threshold below which a vector has no direction.
const smallNumber = 1e-8
