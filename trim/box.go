// Package trim implements the trim-box manipulator: an oriented
// rectangular volume with interactive handles, pointer-driven edit
// operations and point partitioning for the slicing preview.
package trim

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) Unit() mgl32.Vec3 {
	var v mgl32.Vec3
	v[int(a)] = 1
	return v
}

// Face identifies one of the six box faces by its outward local normal.
type Face struct {
	Axis Axis
	Sign float32 // +1 or -1
}

// MinHalfExtent is the smallest half side length the box may reach on
// any axis. Edit operations clamp against it.
const MinHalfExtent = 0.05

// Box is the authoritative trim volume. The box is axis aligned in its
// own frame and rotates only around the world up axis.
type Box struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	Yaw         float32 // radians
}

func (b Box) rotation() mgl32.Mat3 {
	return mgl32.Rotate3DY(b.Yaw)
}

// ToLocal transforms a world point into the box frame.
func (b Box) ToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Rotate3DY(-b.Yaw).Mul3x1(p.Sub(b.Center))
}

// ToWorld transforms a box-frame point into world space.
func (b Box) ToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return b.rotation().Mul3x1(p).Add(b.Center)
}

func (b Box) Contains(p mgl32.Vec3) bool {
	l := b.ToLocal(p)
	return abs32(l.X()) <= b.HalfExtents.X() &&
		abs32(l.Y()) <= b.HalfExtents.Y() &&
		abs32(l.Z()) <= b.HalfExtents.Z()
}

// DistanceToNearestFace returns the smallest local-frame distance from p
// to any face plane. Negative when p is outside the box.
func (b Box) DistanceToNearestFace(p mgl32.Vec3) float32 {
	l := b.ToLocal(p)
	d := b.HalfExtents.X() - abs32(l.X())
	if dy := b.HalfExtents.Y() - abs32(l.Y()); dy < d {
		d = dy
	}
	if dz := b.HalfExtents.Z() - abs32(l.Z()); dz < d {
		d = dz
	}
	return d
}

// FaceNormal returns the world-space outward normal of a face.
func (b Box) FaceNormal(f Face) mgl32.Vec3 {
	return b.rotation().Mul3x1(f.Axis.Unit().Mul(f.Sign))
}

// FaceCenter returns the world-space center of a face.
func (b Box) FaceCenter(f Face) mgl32.Vec3 {
	return b.ToWorld(f.Axis.Unit().Mul(f.Sign * b.HalfExtents[int(f.Axis)]))
}

var cornerSigns = [8]mgl32.Vec3{
	{+1, +1, +1}, {+1, +1, -1}, {+1, -1, +1}, {+1, -1, -1},
	{-1, +1, +1}, {-1, +1, -1}, {-1, -1, +1}, {-1, -1, -1},
}

// Corners returns the eight box vertices in world space.
func (b Box) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i, s := range cornerSigns {
		out[i] = b.Corner(s)
	}
	return out
}

// Corner returns the world position of the vertex selected by a sign
// vector with components +1 or -1.
func (b Box) Corner(signs mgl32.Vec3) mgl32.Vec3 {
	return b.ToWorld(mgl32.Vec3{
		signs.X() * b.HalfExtents.X(),
		signs.Y() * b.HalfExtents.Y(),
		signs.Z() * b.HalfExtents.Z(),
	})
}

var faces = [6]Face{
	{AxisX, +1}, {AxisX, -1},
	{AxisY, +1}, {AxisY, -1},
	{AxisZ, +1}, {AxisZ, -1},
}

// FaceCenters returns the six face centers in world space, ordered
// +X -X +Y -Y +Z -Z.
func (b Box) FaceCenters() [6]mgl32.Vec3 {
	var out [6]mgl32.Vec3
	for i, f := range faces {
		out[i] = b.FaceCenter(f)
	}
	return out
}

// x,z sign pairs of the four side edges, matched with edgeBaseYaw in
// handles.go. Indexing runs counter-clockwise starting at +X+Z.
var edgeSigns = [4][2]float32{{+1, +1}, {+1, -1}, {-1, -1}, {-1, +1}}

// EdgeMidpoints returns the world midpoints of the four side edges
// (between the top and bottom faces).
func (b Box) EdgeMidpoints() [4]mgl32.Vec3 {
	var out [4]mgl32.Vec3
	for i, s := range edgeSigns {
		out[i] = b.ToWorld(mgl32.Vec3{
			s[0] * b.HalfExtents.X(),
			0,
			s[1] * b.HalfExtents.Z(),
		})
	}
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
