package asteroid

import (
	"math"
	"testing"
)

func TestBuildIcosphereCounts(t *testing.T) {
	tests := []struct {
		level     uint32
		vertices  int
		triangles int
	}{
		{0, 12, 20},
		{1, 42, 80},
		{2, 162, 320},
		{3, 642, 1280},
		{4, 2562, 5120},
	}

	for _, tt := range tests {
		mesh := BuildIcosphere(tt.level)
		if got := len(mesh.Vertices); got != tt.vertices {
			t.Errorf("level %d: vertex count = %d, want %d", tt.level, got, tt.vertices)
		}
		if got := mesh.TriangleCount(); got != tt.triangles {
			t.Errorf("level %d: triangle count = %d, want %d", tt.level, got, tt.triangles)
		}
		if got := IcosphereVertexCount(tt.level); got != tt.vertices {
			t.Errorf("IcosphereVertexCount(%d) = %d, want %d", tt.level, got, tt.vertices)
		}
		if got := IcosphereTriangleCount(tt.level); got != tt.triangles {
			t.Errorf("IcosphereTriangleCount(%d) = %d, want %d", tt.level, got, tt.triangles)
		}
	}
}

func TestBuildIcosphereUnitRadius(t *testing.T) {
	for level := uint32(0); level <= 4; level++ {
		mesh := BuildIcosphere(level)
		for i, v := range mesh.Vertices {
			if l := v.Len(); math.Abs(l-1) > 1e-4 {
				t.Fatalf("level %d: vertex %d has length %f, want 1", level, i, l)
			}
		}
		if err := mesh.Validate(); err != nil {
			t.Errorf("level %d: Validate() = %v", level, err)
		}
	}
}

func TestBuildIcosphereWatertight(t *testing.T) {
	mesh := BuildIcosphere(3)

	// Every undirected edge of a closed manifold is shared by exactly two faces.
	edges := make(map[edgeKey]int)
	for _, tri := range mesh.Triangles {
		for i := range 3 {
			edges[makeEdgeKey(tri[i], tri[(i+1)%3])]++
		}
	}
	for e, n := range edges {
		if n != 2 {
			t.Fatalf("edge %v used by %d triangles, want 2", e, n)
		}
	}

	// Euler characteristic of a sphere: V - E + F = 2.
	if chi := len(mesh.Vertices) - len(edges) + len(mesh.Triangles); chi != 2 {
		t.Errorf("V - E + F = %d, want 2", chi)
	}
}

func TestBuildIcosphereOutwardWinding(t *testing.T) {
	mesh := BuildIcosphere(2)
	for i, tri := range mesh.Triangles {
		v0, v1, v2 := mesh.Vertices[tri[0]], mesh.Vertices[tri[1]], mesh.Vertices[tri[2]]
		face := v1.Sub(v0).Cross(v2.Sub(v0))
		centroid := v0.Add(v1).Add(v2)
		if face.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d %v faces inward", i, tri)
		}
	}
}

func TestBuildIcosphereNormalsMatchPositions(t *testing.T) {
	mesh := BuildIcosphere(1)
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Fatalf("normals = %d, want %d", len(mesh.Normals), len(mesh.Vertices))
	}
	for i := range mesh.Vertices {
		if mesh.Normals[i] != mesh.Vertices[i] {
			t.Errorf("normal %d = %v, want %v", i, mesh.Normals[i], mesh.Vertices[i])
		}
	}
}

func BenchmarkBuildIcosphere(b *testing.B) {
	for b.Loop() {
		BuildIcosphere(5)
	}
}
