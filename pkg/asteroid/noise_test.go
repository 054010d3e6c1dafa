package asteroid

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPerlin3DZeroOnLattice(t *testing.T) {
	points := []mgl64.Vec3{{0, 0, 0}, {1, 2, 3}, {-4, 7, 250}, {1000, -1000, 13}}
	for _, p := range points {
		if v := Perlin3D(p); v != 0 {
			t.Errorf("Perlin3D(%v) = %f, want 0", p, v)
		}
	}
}

func TestPerlin3DDeterministic(t *testing.T) {
	p := mgl64.Vec3{12.34, 56.78, 90.12}
	first := Perlin3D(p)
	for i := range 100 {
		if v := Perlin3D(p); v != first {
			t.Fatalf("call %d: Perlin3D = %f, want %f", i, v, first)
		}
	}
}

func TestPerlin3DRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	nonZero := 0
	for range 5000 {
		p := mgl64.Vec3{
			rng.Float64()*2000 - 1000,
			rng.Float64()*2000 - 1000,
			rng.Float64()*2000 - 1000,
		}
		v := Perlin3D(p)
		if math.Abs(v) > 1.2 {
			t.Fatalf("Perlin3D(%v) = %f, outside [-1.2, 1.2]", p, v)
		}
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("Perlin3D returned 0 for every sample")
	}
}

func TestPerlin3DContinuous(t *testing.T) {
	p := mgl64.Vec3{3.3, 4.4, 5.5}
	step := mgl64.Vec3{1e-6, 1e-6, 1e-6}
	if d := math.Abs(Perlin3D(p) - Perlin3D(p.Add(step))); d > 1e-4 {
		t.Errorf("Perlin3D jumped by %g over a 1e-6 step", d)
	}
}

func TestStreamReproducible(t *testing.T) {
	a := NewStream(42)
	b := NewStream(42)
	for i := range 50 {
		if x, y := a.Float(), b.Float(); x != y {
			t.Fatalf("draw %d: %f != %f", i, x, y)
		}
	}

	c := NewStream(43)
	if NewStream(42).Float() == c.Float() {
		t.Error("streams with different seeds produced the same first value")
	}
}

func TestStreamRanges(t *testing.T) {
	s := NewStream(7)
	for range 1000 {
		if v := s.IntRange(-3, 3); v < -3 || v > 3 {
			t.Fatalf("IntRange(-3, 3) = %d", v)
		}
		if v := s.FloatRange(10, 20); v < 10 || v > 20 {
			t.Fatalf("FloatRange(10, 20) = %f", v)
		}
	}
	if v := s.FloatRange(250, 250); v != 250 {
		t.Errorf("FloatRange(250, 250) = %f, want 250", v)
	}
	if v := s.IntRange(5, 1); v != 5 {
		t.Errorf("IntRange(5, 1) = %d, want 5", v)
	}
}

func TestRandomSeedNonNegative(t *testing.T) {
	for range 1000 {
		if s := RandomSeed(); s < 0 {
			t.Fatalf("RandomSeed() = %d, want >= 0", s)
		}
	}
}
