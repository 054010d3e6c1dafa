// Package forge hosts asteroid generation for the command-line tools, the
// websocket service and the viewer. It owns the parameters, logs every
// generation and fans results out to listeners.
package forge

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/rockforge/internal/logger"
	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// Asteroid is a single generated body and the parameters it was built from.
type Asteroid struct {
	mu        sync.Mutex
	params    asteroid.GenerationParams
	gen       *asteroid.Generator
	result    *asteroid.Result
	listeners []func(*asteroid.Result)
	log       *zap.Logger
}

// New creates an asteroid host. Nothing is generated until Generate is called.
func New(params asteroid.GenerationParams) *Asteroid {
	a := &Asteroid{
		params: params.Clone(),
		gen:    asteroid.NewGenerator(),
		log:    logger.Named("forge"),
	}
	a.gen.OnStateChange(func(from, to asteroid.State) {
		a.log.Debug("generation state", zap.Stringer("from", from), zap.Stringer("to", to))
	})
	a.gen.Subscribe(a.notify)
	return a
}

// Params returns a copy of the current parameters.
func (a *Asteroid) Params() asteroid.GenerationParams {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.params.Clone()
}

// SetParams replaces the parameters used by the next Generate.
func (a *Asteroid) SetParams(params asteroid.GenerationParams) {
	a.mu.Lock()
	a.params = params.Clone()
	a.mu.Unlock()
}

// OnGenerated registers fn to receive every completed result.
func (a *Asteroid) OnGenerated(fn func(*asteroid.Result)) {
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

// Generate runs the pipeline with the current parameters.
func (a *Asteroid) Generate() (*asteroid.Result, error) {
	a.mu.Lock()
	params := a.params.Clone()
	a.mu.Unlock()

	if err := params.Validate(); err != nil {
		a.log.Warn("suspicious generation parameters", zap.Error(err))
	}

	res, err := a.gen.Generate(params)
	if err != nil {
		a.log.Error("generation failed", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Regenerate draws a fresh global seed and generates again. Explicit layer
// seeds are kept.
func (a *Asteroid) Regenerate() (*asteroid.Result, error) {
	a.mu.Lock()
	a.params.GlobalSeed = asteroid.UseDefaultSeed
	a.mu.Unlock()
	return a.Generate()
}

func (a *Asteroid) notify(res *asteroid.Result) {
	a.log.Info("asteroid generated", append(logger.StatsFields(res.Stats),
		zap.Int("vertices", len(res.Mesh.Vertices)),
		zap.Int("triangles", res.Mesh.TriangleCount()),
		zap.Bool("physics", res.Physics.Enabled),
	)...)

	a.mu.Lock()
	a.result = res
	listeners := slices.Clone(a.listeners)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
}

// Result returns the last generated result, or nil.
func (a *Asteroid) Result() *asteroid.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Stats returns the last stats and whether anything was generated yet.
func (a *Asteroid) Stats() (asteroid.Stats, bool) {
	res := a.Result()
	if res == nil {
		return asteroid.Stats{}, false
	}
	return res.Stats, true
}

// Mass returns the last generated mass in kilograms, or zero.
func (a *Asteroid) Mass() float64 {
	s, _ := a.Stats()
	return s.Mass
}
