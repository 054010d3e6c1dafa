package forge

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/rockforge/internal/logger"
	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// Field is a batch of asteroids generated from one seed.
type Field struct {
	Seed      int32
	Asteroids []*asteroid.Result
}

// FieldParams derives the parameters of each asteroid in a field. The i-th
// asteroid gets the i-th seed drawn from a stream on fieldSeed, and every
// layer seed is derived from it, so the same field seed always yields the
// same field.
func FieldParams(base asteroid.GenerationParams, fieldSeed int32, count int) []asteroid.GenerationParams {
	stream := asteroid.NewStream(fieldSeed)
	out := make([]asteroid.GenerationParams, count)
	for i := range out {
		p := base.Clone()
		p.GlobalSeed = stream.IntRange(0, math.MaxInt32)
		p.Layers = p.EffectiveLayers()
		for j := range p.Layers {
			p.Layers[j].Seed = asteroid.UseDefaultSeed
		}
		out[i] = p
	}
	return out
}

// GenerateField generates count asteroids on up to workers goroutines.
// A negative params.GlobalSeed picks a random field seed. Results keep the
// order of FieldParams. Cancelling ctx stops workers between asteroids.
func GenerateField(ctx context.Context, params asteroid.GenerationParams, count, workers int) (*Field, error) {
	if count < 0 {
		return nil, fmt.Errorf("field count %d must not be negative", count)
	}
	if params.SubdivisionLevel > asteroid.MaxSubdivisionLevel {
		return nil, fmt.Errorf("%w: %d > %d", asteroid.ErrSubdivisionTooDeep, params.SubdivisionLevel, asteroid.MaxSubdivisionLevel)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(count, 1))

	seed := params.GlobalSeed
	if seed < 0 {
		seed = asteroid.RandomSeed()
	}
	log := logger.Named("forge")
	log.Info("generating field",
		zap.Int32("field_seed", seed),
		zap.Int("count", count),
		zap.Int("workers", workers),
	)

	jobs := FieldParams(params, seed, count)
	field := &Field{Seed: seed, Asteroids: make([]*asteroid.Result, count)}

	next := make(chan int)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gen := asteroid.NewGenerator()
			for i := range next {
				res, err := gen.Generate(jobs[i])
				if err != nil {
					if errs[w] == nil {
						errs[w] = fmt.Errorf("asteroid %d: %w", i, err)
					}
					continue
				}
				field.Asteroids[i] = res
			}
		}()
	}

feed:
	for i := range count {
		select {
		case <-ctx.Done():
			break feed
		case next <- i:
		}
	}
	close(next)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var mass float64
	for _, a := range field.Asteroids {
		mass += a.Stats.Mass
	}
	log.Info("field generated", zap.Int32("field_seed", seed), zap.Int("count", count), zap.Float64("total_mass_kg", mass))
	return field, nil
}
