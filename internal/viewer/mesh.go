package viewer

import (
	"fmt"

	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// floatsPerVertex is position then normal.
const floatsPerVertex = 6

// interleave packs a mesh into the float32 vertex buffer and index buffer
// the renderer uploads. A mesh without normals gets zero normals.
func interleave(m *asteroid.Mesh) ([]float32, []uint32) {
	data := make([]float32, 0, len(m.Vertices)*floatsPerVertex)
	for i, v := range m.Vertices {
		data = append(data, float32(v[0]), float32(v[1]), float32(v[2]))
		if i < len(m.Normals) {
			n := m.Normals[i]
			data = append(data, float32(n[0]), float32(n[1]), float32(n[2]))
		} else {
			data = append(data, 0, 0, 0)
		}
	}
	return data, m.Indices()
}

// windowTitle summarizes the asteroid on display.
func windowTitle(res *asteroid.Result) string {
	if res == nil {
		return "rockview"
	}
	s := res.Stats
	return fmt.Sprintf("rockview - seed %d, radius %.1f, mass %.3g kg, %d triangles",
		s.GlobalSeed, s.Radius, s.Mass, res.Mesh.TriangleCount())
}
