package viewport

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Displacement converts a pointer NDC delta into a world-space displacement
// on the camera-facing plane through ref. sensitivity scales the motion so
// that different edits can feel heavier or lighter than raw pointer speed.
func Displacement(c Camera, ref mgl32.Vec3, delta mgl32.Vec2, sensitivity float32) mgl32.Vec3 {
	w, h := c.ExtentAt(ref)
	return c.Right().Mul(delta.X() * w * sensitivity).
		Add(c.Up.Mul(delta.Y() * h * sensitivity))
}

// DepthDisplacement is the modifier-key variant: the vertical pointer axis
// drives motion along the view direction instead of the camera up vector.
func DepthDisplacement(c Camera, ref mgl32.Vec3, delta mgl32.Vec2, sensitivity float32) mgl32.Vec3 {
	w, h := c.ExtentAt(ref)
	return c.Right().Mul(delta.X() * w * sensitivity).
		Add(c.Forward().Mul(delta.Y() * h * sensitivity))
}

// AxisDisplacement projects the free displacement onto a world axis and
// returns the scalar component along it.
func AxisDisplacement(c Camera, ref mgl32.Vec3, delta mgl32.Vec2, sensitivity float32, axis mgl32.Vec3) float32 {
	return Displacement(c, ref, delta, sensitivity).Dot(axis)
}
