package asteroid

import (
	"errors"
	"fmt"
	"slices"
)

// UseDefaultSeed marks a seed that should be derived rather than used as-is.
const UseDefaultSeed int32 = -1

// MaxSubdivisionLevel bounds the icosphere depth accepted by Generate.
// Level 8 is already 1.3M triangles.
const MaxSubdivisionLevel = 8

// NoiseLayerConfig configures one noise displacement pass.
type NoiseLayerConfig struct {
	// Scale is the noise frequency. Higher values give smaller features.
	Scale float32 `yaml:"scale" json:"scale"`
	// Intensity is the noise amplitude before clamping.
	Intensity float32 `yaml:"intensity" json:"intensity"`
	// Seed for this layer; negative derives one from the global seed.
	Seed int32 `yaml:"seed" json:"seed"`
}

// DefaultLayer returns the layer used when no layers are configured.
func DefaultLayer() NoiseLayerConfig {
	return NoiseLayerConfig{
		Scale:     0.1,
		Intensity: 1.0,
		Seed:      UseDefaultSeed,
	}
}

// GenerationParams is the full input to Generate.
type GenerationParams struct {
	SubdivisionLevel uint32  `yaml:"subdivisions" json:"subdivisions"`
	MinRadius        float32 `yaml:"min_radius" json:"minRadius"`
	MaxRadius        float32 `yaml:"max_radius" json:"maxRadius"`
	// Density in kg per cubic unit.
	Density float32 `yaml:"density" json:"density"`
	// GlobalSeed drives radius choice and derived layer seeds; negative picks one at random.
	GlobalSeed int32 `yaml:"global_seed" json:"globalSeed"`
	// MaxDisplacementFraction clamps each layer's radial offset, in unit-sphere space.
	MaxDisplacementFraction float32            `yaml:"max_displacement_fraction" json:"maxDisplacementFraction"`
	Layers                  []NoiseLayerConfig `yaml:"layers" json:"layers"`
	// PreserveRelief skips the unit re-normalization after deformation so the
	// noise survives into the final mesh.
	PreserveRelief bool `yaml:"preserve_relief" json:"preserveRelief"`
	// EnablePhysics is only read by the host; see Result.Physics.
	EnablePhysics bool `yaml:"enable_physics" json:"enablePhysics"`
}

// DefaultParams returns the stock asteroid: a level 2 icosphere of steel
// density, 250..1000 units across, with one default noise layer.
func DefaultParams() GenerationParams {
	return GenerationParams{
		SubdivisionLevel:        2,
		MinRadius:               250,
		MaxRadius:               1000,
		Density:                 7874,
		GlobalSeed:              UseDefaultSeed,
		MaxDisplacementFraction: 0.5,
		Layers:                  []NoiseLayerConfig{DefaultLayer()},
		EnablePhysics:           true,
	}
}

// Clone returns a copy that shares no memory with p.
func (p GenerationParams) Clone() GenerationParams {
	p.Layers = slices.Clone(p.Layers)
	return p
}

// EffectiveLayers returns the configured layers, or the default layer when
// none are configured.
func (p GenerationParams) EffectiveLayers() []NoiseLayerConfig {
	if len(p.Layers) == 0 {
		return []NoiseLayerConfig{DefaultLayer()}
	}
	return p.Layers
}

// Validate reports configurations whose results are probably not what the
// caller intended. Generate does not call it: degenerate params still
// produce whatever the formulas give.
func (p GenerationParams) Validate() error {
	var errs []error
	if p.SubdivisionLevel > MaxSubdivisionLevel {
		errs = append(errs, fmt.Errorf("subdivisions %d exceeds %d", p.SubdivisionLevel, MaxSubdivisionLevel))
	}
	if p.MinRadius <= 0 {
		errs = append(errs, fmt.Errorf("min radius %g must be positive", p.MinRadius))
	}
	if p.MinRadius > p.MaxRadius {
		errs = append(errs, fmt.Errorf("min radius %g is greater than max radius %g", p.MinRadius, p.MaxRadius))
	}
	if p.Density <= 0 {
		errs = append(errs, fmt.Errorf("density %g must be positive", p.Density))
	}
	if p.MaxDisplacementFraction < 0 || p.MaxDisplacementFraction > 1 {
		errs = append(errs, fmt.Errorf("max displacement fraction %g outside [0, 1]", p.MaxDisplacementFraction))
	}
	for i, l := range p.Layers {
		if l.Scale <= 0 {
			errs = append(errs, fmt.Errorf("layer %d: scale %g must be positive", i, l.Scale))
		}
		if l.Intensity < 0 {
			errs = append(errs, fmt.Errorf("layer %d: intensity %g must not be negative", i, l.Intensity))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}
