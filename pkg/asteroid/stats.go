package asteroid

import "math"

// Stats describes a generated asteroid.
type Stats struct {
	Radius float32 `yaml:"radius" json:"radius"`
	// Volume of the nominal sphere, not of the deformed mesh.
	Volume float64 `yaml:"volume" json:"volume"`
	Mass   float64 `yaml:"mass" json:"mass"`
	// GlobalSeed is the resolved global seed.
	GlobalSeed int32 `yaml:"global_seed" json:"globalSeed"`
	// LayerSeeds holds the resolved seed of every noise layer, in order.
	LayerSeeds []int32 `yaml:"layer_seeds" json:"layerSeeds"`
}

// SphereVolume returns 4/3·π·r³.
func SphereVolume(radius float64) float64 {
	return (4.0 / 3.0) * math.Pi * radius * radius * radius
}

// ComputeStats derives volume and mass from the nominal radius.
// Seeds are left for the caller to fill in.
func ComputeStats(radius, density float32) Stats {
	volume := SphereVolume(float64(radius))
	return Stats{
		Radius: radius,
		Volume: volume,
		Mass:   volume * float64(density),
	}
}
