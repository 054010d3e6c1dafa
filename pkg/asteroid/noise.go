package asteroid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// permutation is Ken Perlin's reference table, doubled to avoid wrapping.
var permutation [512]int

func init() {
	base := [256]int{
		151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
		140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
		247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
		57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
		74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
		60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
		65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
		200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
		52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
		207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
		119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
		129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
		218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
		81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
		184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
		222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
	}
	for i := range 256 {
		permutation[i] = base[i]
		permutation[i+256] = base[i]
	}
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// grad returns the dot product of the offset with one of 12 cube-edge gradients.
func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Perlin3D samples improved Perlin noise at p. The result lies roughly in
// [-1, 1] and is exactly 0 on integer lattice points. The field is fixed;
// callers decorrelate samples by offsetting p.
func Perlin3D(p mgl64.Vec3) float64 {
	fx, fy, fz := math.Floor(p[0]), math.Floor(p[1]), math.Floor(p[2])

	xi := int(fx) & 255
	yi := int(fy) & 255
	zi := int(fz) & 255

	x := p[0] - fx
	y := p[1] - fy
	z := p[2] - fz

	u, v, w := fade(x), fade(y), fade(z)

	a := permutation[xi] + yi
	aa := permutation[a] + zi
	ab := permutation[a+1] + zi
	b := permutation[xi+1] + yi
	ba := permutation[b] + zi
	bb := permutation[b+1] + zi

	return lerp(
		lerp(
			lerp(grad(permutation[aa], x, y, z), grad(permutation[ba], x-1, y, z), u),
			lerp(grad(permutation[ab], x, y-1, z), grad(permutation[bb], x-1, y-1, z), u),
			v),
		lerp(
			lerp(grad(permutation[aa+1], x, y, z-1), grad(permutation[ba+1], x-1, y, z-1), u),
			lerp(grad(permutation[ab+1], x, y-1, z-1), grad(permutation[bb+1], x-1, y-1, z-1), u),
			v),
		w)
}
