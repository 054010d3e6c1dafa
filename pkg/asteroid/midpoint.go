package asteroid

import "github.com/go-gl/mathgl/mgl64"

// edgeKey identifies an undirected edge. lo is always <= hi.
type edgeKey struct {
	lo, hi uint32
}

func makeEdgeKey(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// EdgeMidpointCache shares one midpoint vertex between the triangles on
// either side of an edge, which keeps the subdivided mesh watertight.
//
// A cache is only valid for a single subdivision pass.
type EdgeMidpointCache struct {
	midpoints map[edgeKey]uint32
}

// NewEdgeMidpointCache creates a cache sized for roughly the given number of edges.
func NewEdgeMidpointCache(edges int) *EdgeMidpointCache {
	return &EdgeMidpointCache{midpoints: make(map[edgeKey]uint32, edges)}
}

// Midpoint returns the index of the vertex halfway between p1 and p2,
// projected onto the unit sphere. On the first request for an edge the
// vertex is appended to vertices.
func (c *EdgeMidpointCache) Midpoint(p1, p2 uint32, vertices *[]mgl64.Vec3) uint32 {
	key := makeEdgeKey(p1, p2)
	if idx, ok := c.midpoints[key]; ok {
		return idx
	}

	verts := *vertices
	middle := safeNormalize(verts[p1].Add(verts[p2]).Mul(0.5))

	idx := uint32(len(verts))
	*vertices = append(verts, middle)
	c.midpoints[key] = idx
	return idx
}

// Len returns the number of cached edges.
func (c *EdgeMidpointCache) Len() int {
	return len(c.midpoints)
}

// Reset empties the cache for reuse in another pass.
func (c *EdgeMidpointCache) Reset() {
	clear(c.midpoints)
}
