package asteroid

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// State is a step of the generation pipeline.
type State int

const (
	StateIdle State = iota
	StateBuildingBase
	StateDeforming
	StateScaling
	StateFinalizing
	StateDone
)

var stateNames = [...]string{"idle", "building_base", "deforming", "scaling", "finalizing", "done"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Physics is what the host needs to set up collision and a rigid body.
type Physics struct {
	Enabled bool    `json:"enabled"`
	MassKg  float64 `json:"massKg"`
	// HullPoints is the point cloud for a convex collision hull. It aliases
	// Mesh.Vertices.
	HullPoints []mgl64.Vec3 `json:"-"`
}

// Result is the output of one generation call.
type Result struct {
	Mesh    Mesh    `json:"mesh"`
	Stats   Stats   `json:"stats"`
	Physics Physics `json:"physics"`
}

// Generator runs the pipeline and notifies observers. Each call to Generate
// works on fresh buffers, but a Generator itself is not safe for concurrent
// use; give each goroutine its own.
type Generator struct {
	state       State
	subscribers []func(*Result)
	onState     func(from, to State)
}

// NewGenerator creates an idle generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Subscribe registers fn to receive every completed result.
func (g *Generator) Subscribe(fn func(*Result)) {
	g.subscribers = append(g.subscribers, fn)
}

// OnStateChange registers fn to observe pipeline transitions. It replaces
// any previous hook.
func (g *Generator) OnStateChange(fn func(from, to State)) {
	g.onState = fn
}

// State returns the state the last generation reached.
func (g *Generator) State() State {
	return g.state
}

func (g *Generator) enter(s State) {
	from := g.state
	g.state = s
	if g.onState != nil {
		g.onState(from, s)
	}
}

// Generate runs the pipeline once, synchronously.
func Generate(params GenerationParams) (*Result, error) {
	return NewGenerator().Generate(params)
}

// Generate builds, deforms, scales and finalizes one asteroid, then hands the
// result to every subscriber before returning it.
func (g *Generator) Generate(params GenerationParams) (*Result, error) {
	if params.SubdivisionLevel > MaxSubdivisionLevel {
		return nil, fmt.Errorf("%w: %d > %d", ErrSubdivisionTooDeep, params.SubdivisionLevel, MaxSubdivisionLevel)
	}
	g.state = StateIdle

	g.enter(StateBuildingBase)
	globalSeed := params.GlobalSeed
	if globalSeed < 0 {
		globalSeed = RandomSeed()
	}
	global := NewStream(globalSeed)
	layers := params.EffectiveLayers()
	layerSeeds := ResolveLayerSeeds(global, layers)

	base := BuildIcosphere(params.SubdivisionLevel)
	vertices := base.Vertices

	g.enter(StateDeforming)
	ApplyLayers(vertices, layers, layerSeeds, params.MaxDisplacementFraction)
	if !params.PreserveRelief {
		NormalizeVertices(vertices)
	}

	g.enter(StateScaling)
	radius := global.FloatRange(params.MinRadius, params.MaxRadius)
	ScaleVertices(vertices, float64(radius))

	g.enter(StateFinalizing)
	mesh := Assemble(vertices, base.Triangles)
	stats := ComputeStats(radius, params.Density)
	stats.GlobalSeed = globalSeed
	stats.LayerSeeds = layerSeeds

	result := &Result{
		Mesh:  mesh,
		Stats: stats,
		Physics: Physics{
			Enabled:    params.EnablePhysics,
			MassKg:     stats.Mass,
			HullPoints: mesh.Vertices,
		},
	}

	g.enter(StateDone)
	for _, fn := range g.subscribers {
		fn(result)
	}
	return result, nil
}

// ResolveLayerSeeds returns one seed per layer. Explicit seeds are kept;
// negative ones are drawn from global, redrawing on collision so that no
// two derived seeds are equal.
func ResolveLayerSeeds(global *Stream, layers []NoiseLayerConfig) []int32 {
	seeds := make([]int32, 0, len(layers))
	for _, l := range layers {
		seed := l.Seed
		if seed < 0 {
			seed = global.IntRange(0, math.MaxInt32)
			for slices.Contains(seeds, seed) {
				seed = global.IntRange(0, math.MaxInt32)
			}
		}
		seeds = append(seeds, seed)
	}
	return seeds
}
