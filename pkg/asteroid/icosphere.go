package asteroid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// icosahedronFaces lists the 20 faces of the base icosahedron, wound outward.
var icosahedronFaces = [20]Triangle{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// icosahedronVertices returns the 12 golden-ratio corners, not yet normalized.
func icosahedronVertices() []mgl64.Vec3 {
	t := (1 + math.Sqrt(5)) / 2
	return []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}

// IcosphereVertexCount returns the vertex count of an icosphere at the given
// subdivision level: 10*4^level + 2.
func IcosphereVertexCount(level uint32) int {
	return 10*(1<<(2*level)) + 2
}

// IcosphereTriangleCount returns 20*4^level.
func IcosphereTriangleCount(level uint32) int {
	return 20 * (1 << (2 * level))
}

// BuildIcosphere builds a unit icosphere subdivided level times.
// Level 0 is the bare icosahedron. Normals equal the vertex positions.
func BuildIcosphere(level uint32) Mesh {
	vertices := make([]mgl64.Vec3, 0, IcosphereVertexCount(level))
	vertices = append(vertices, icosahedronVertices()...)
	NormalizeVertices(vertices)

	triangles := make([]Triangle, len(icosahedronFaces))
	copy(triangles, icosahedronFaces[:])

	for range level {
		triangles = subdivide(&vertices, triangles)
	}

	// Midpoints are normalized on creation; this pass only removes drift.
	NormalizeVertices(vertices)

	normals := make([]mgl64.Vec3, len(vertices))
	copy(normals, vertices)

	return Mesh{
		Vertices:  vertices,
		Triangles: triangles,
		Normals:   normals,
	}
}

// subdivide splits every triangle into four using shared edge midpoints.
func subdivide(vertices *[]mgl64.Vec3, triangles []Triangle) []Triangle {
	// Each triangle has three edges, each shared by two triangles.
	cache := NewEdgeMidpointCache(len(triangles) * 3 / 2)
	out := make([]Triangle, 0, len(triangles)*4)

	for _, tri := range triangles {
		v1, v2, v3 := tri[0], tri[1], tri[2]

		a := cache.Midpoint(v1, v2, vertices)
		b := cache.Midpoint(v2, v3, vertices)
		c := cache.Midpoint(v3, v1, vertices)

		out = append(out,
			Triangle{v1, a, c},
			Triangle{v2, b, a},
			Triangle{v3, c, b},
			Triangle{a, b, c},
		)
	}
	return out
}
