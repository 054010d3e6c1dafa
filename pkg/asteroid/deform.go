package asteroid

import "github.com/go-gl/mathgl/mgl64"

// Fixed shifts that turn one noise field into three uncorrelated axes.
var (
	axisShiftY = mgl64.Vec3{13.13, 37.37, 7.73}
	axisShiftZ = mgl64.Vec3{97.97, 21.21, 55.55}
)

// layerOffsetRange bounds the per-layer random sampling offset on each axis.
const layerOffsetRange = 1000.0

// ApplyLayers displaces vertices along their outward direction, one noise
// layer at a time. Each layer's offset is clamped to ±maxDisplacementFraction.
//
// layerSeeds[i] seeds layers[i]; a layer without a seed gets a random one.
// Layers are applied in order and each sees the positions left by the
// previous one. Vertex i's displacement depends only on its position and the
// layer's seed, never on the other vertices.
func ApplyLayers(vertices []mgl64.Vec3, layers []NoiseLayerConfig, layerSeeds []int32, maxDisplacementFraction float32) {
	if len(vertices) == 0 {
		return
	}

	maxDisp := float64(maxDisplacementFraction)
	for i, layer := range layers {
		seed := RandomSeed()
		if i < len(layerSeeds) {
			seed = layerSeeds[i]
		}
		applyLayer(vertices, layer, NewStream(seed), maxDisp)
	}
}

func applyLayer(vertices []mgl64.Vec3, layer NoiseLayerConfig, rng *Stream, maxDisp float64) {
	offset := mgl64.Vec3{
		rng.Float() * layerOffsetRange,
		rng.Float() * layerOffsetRange,
		rng.Float() * layerOffsetRange,
	}
	scale := float64(layer.Scale)
	amplitude := float64(layer.Intensity) * 0.5

	for i, v := range vertices {
		sample := v.Mul(scale).Add(offset)
		noise := mgl64.Vec3{
			Perlin3D(sample),
			Perlin3D(sample.Add(axisShiftY)),
			Perlin3D(sample.Add(axisShiftZ)),
		}.Mul(amplitude)

		normal := safeNormalize(v)
		d := clamp(noise.Dot(normal), -maxDisp, maxDisp)
		vertices[i] = v.Add(normal.Mul(d))
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
