package trim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cloud_slicer/viewport"
)

// Pick is the result of a pointer query. Handle is the top-most picked
// handle, or nil. Face is the box face under the pointer regardless of
// whether a handle was hit; the facade uses it to show the contextual
// face arrow on hover.
type Pick struct {
	Handle   *PlacedHandle
	Face     *Face
	Distance float32
}

// PickAt casts a ray through the pointer and returns the nearest visible
// handle, plus the box face under the pointer if any.
func PickAt(cam viewport.Camera, ndc mgl32.Vec2, hs *HandleSet, b Box) Pick {
	ray := viewport.NewRay(cam, ndc)

	var pick Pick
	pick.Distance = float32(math.Inf(1))
	for i := range hs.Placed() {
		ph := &hs.Placed()[i]
		if !ph.Visible {
			continue
		}
		min := ph.Pose.Position.Sub(ph.PickHalf)
		max := ph.Pose.Position.Add(ph.PickHalf)
		if t, ok := ray.IntersectAABB(min, max); ok && t < pick.Distance {
			h := *ph
			pick.Handle = &h
			pick.Distance = t
		}
	}

	if f, t, ok := intersectBoxFace(ray, b); ok {
		pick.Face = &f
		if pick.Handle == nil {
			pick.Distance = t
		}
	}
	return pick
}

// intersectBoxFace intersects the ray with the oriented box and returns
// the hit face, quantized to the dominant world axis of its normal.
func intersectBoxFace(ray viewport.Ray, b Box) (Face, float32, bool) {
	// slab test in the box frame, tracking which axis bounds the entry
	origin := b.ToLocal(ray.Origin)
	dir := mgl32.Rotate3DY(-b.Yaw).Mul3x1(ray.Dir)

	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	minAxis, maxAxis := AxisX, AxisX
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if abs32(origin[i]) > b.HalfExtents[i] {
				return Face{}, 0, false
			}
			continue
		}
		t0 := (-b.HalfExtents[i] - origin[i]) / dir[i]
		t1 := (b.HalfExtents[i] - origin[i]) / dir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
			minAxis = Axis(i)
		}
		if t1 < tmax {
			tmax = t1
			maxAxis = Axis(i)
		}
	}
	if tmin > tmax || tmax < 0 {
		return Face{}, 0, false
	}

	t, axis := tmin, minAxis
	if tmin < 0 {
		// camera inside the box, take the exit face
		t, axis = tmax, maxAxis
	}
	local := Face{Axis: axis, Sign: 1}
	if dir[axis] > 0 && t == tmin || dir[axis] < 0 && t == tmax {
		local.Sign = -1
	}
	return quantizeFace(b.FaceNormal(local)), t, true
}

// quantizeFace reduces a world normal to the dominant axis face.
func quantizeFace(n mgl32.Vec3) Face {
	axis := AxisX
	for i := 1; i < 3; i++ {
		if abs32(n[i]) > abs32(n[int(axis)]) {
			axis = Axis(i)
		}
	}
	f := Face{Axis: axis, Sign: 1}
	if n[int(axis)] < 0 {
		f.Sign = -1
	}
	return f
}
