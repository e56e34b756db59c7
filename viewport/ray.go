package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3 // normalized
}

// NewRay builds a world-space ray from the camera through a point in NDC.
func NewRay(c Camera, ndc mgl32.Vec2) Ray {
	tanFov := float32(math.Tan(float64(c.Fov) / 2))
	dir := c.Forward().
		Add(c.Right().Mul(ndc.X() * tanFov * c.Aspect)).
		Add(c.UpOrtho().Mul(ndc.Y() * tanFov)).
		Normalize()
	return Ray{Origin: c.Position, Dir: dir}
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectAABB is a slab test against an axis-aligned box. Returns the
// entry distance along the ray; ok is false when the ray misses or the
// box is entirely behind the origin.
func (r Ray) IntersectAABB(min, max mgl32.Vec3) (t float32, ok bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < min[i] || r.Origin[i] > max[i] {
				return 0, false
			}
			continue
		}
		t0 := (min[i] - r.Origin[i]) / r.Dir[i]
		t1 := (max[i] - r.Origin[i]) / r.Dir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
	}
	if tmin > tmax || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		// origin inside the box
		return tmax, true
	}
	return tmin, true
}
