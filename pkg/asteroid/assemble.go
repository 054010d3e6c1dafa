package asteroid

import "github.com/go-gl/mathgl/mgl64"

// Assemble computes smooth per-vertex normals and returns the finished mesh.
// The mesh takes ownership of both slices.
//
// Each vertex normal is the normalized sum of the unit face normals of the
// triangles that use it, so every face counts equally regardless of area.
// Degenerate faces contribute a zero normal. Triangles that reference a
// missing vertex are skipped. Unreferenced vertices keep a zero normal.
func Assemble(vertices []mgl64.Vec3, triangles []Triangle) Mesh {
	normals := make([]mgl64.Vec3, len(vertices))
	n := uint32(len(vertices))

	for _, t := range triangles {
		i0, i1, i2 := t[0], t[1], t[2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}

		v0 := vertices[i0]
		face := safeNormalize(vertices[i1].Sub(v0).Cross(vertices[i2].Sub(v0)))

		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}

	for i, sum := range normals {
		normals[i] = safeNormalize(sum)
	}

	return Mesh{
		Vertices:  vertices,
		Triangles: triangles,
		Normals:   normals,
	}
}
