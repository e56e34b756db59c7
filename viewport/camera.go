package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera pose. Fov is the vertical field of view
// in radians.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Fov      float32
	Aspect   float32
}

func DefaultCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 5, 10},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(60),
		Aspect:   16.0 / 9.0,
	}
}

func (c Camera) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right is normalize(forward cross up).
func (c Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

// UpOrtho re-orthogonalizes the up vector against the view direction.
func (c Camera) UpOrtho() mgl32.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

// ExtentAt returns the world width and height of the viewport on the
// plane through ref perpendicular to the view direction.
func (c Camera) ExtentAt(ref mgl32.Vec3) (w, h float32) {
	dist := ref.Sub(c.Position).Len()
	h = 2 * float32(math.Tan(float64(c.Fov)/2)) * dist
	w = h * c.Aspect
	return w, h
}
