package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// orbitCamera circles the origin, where the asteroid sits.
type orbitCamera struct {
	Distance float32
	Pitch    float32 // radians
	Yaw      float32 // radians

	MinDistance float32
	MaxDistance float32

	DragSensitivity float32
	ZoomFactor      float32
}

func newOrbitCamera() *orbitCamera {
	return &orbitCamera{
		Distance:        2000,
		Pitch:           0.35,
		MinDistance:     10,
		MaxDistance:     100000,
		DragSensitivity: 0.005,
		ZoomFactor:      0.1,
	}
}

// Frame moves the camera so a body of the given extent fills the view.
func (c *orbitCamera) Frame(extent float32) {
	if extent <= 0 {
		return
	}
	c.MinDistance = extent * 1.1
	c.MaxDistance = extent * 20
	c.Distance = extent * 3
}

// Position returns the eye position in world space.
func (c *orbitCamera) Position() mgl32.Vec3 {
	cp, sp := cos32(c.Pitch), sin32(c.Pitch)
	cy, sy := cos32(c.Yaw), sin32(c.Yaw)
	return mgl32.Vec3{c.Distance * cp * sy, c.Distance * sp, c.Distance * cp * cy}
}

func (c *orbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// Projection returns a perspective matrix whose clip planes follow the
// camera distance.
func (c *orbitCamera) Projection(width, height int32) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(45), aspect, c.Distance*0.01, c.Distance*10)
}

// Drag orbits by a mouse delta in pixels.
func (c *orbitCamera) Drag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSensitivity, -1.5, 1.5)
}

// Zoom moves in for positive steps and out for negative ones.
func (c *orbitCamera) Zoom(steps float32) {
	c.Distance *= 1 - steps*c.ZoomFactor
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }
func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
