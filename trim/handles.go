package trim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type HandleKind int

const (
	HandleFace HandleKind = iota
	HandleEdge
	HandleCorner
	HandleAxis
)

// Handle is a tagged variant describing one pickable marker of the box.
// Only the fields of the active kind are meaningful.
type Handle struct {
	Kind   HandleKind
	Face   Face       // HandleFace
	Edge   int        // HandleEdge, 0..3
	Corner mgl32.Vec3 // HandleCorner, per-axis signs
	Axis   Axis       // HandleAxis, world translation axis
}

type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// PlacedHandle is a handle with its derived world pose. PickHalf is the
// half size of the axis-aligned picking volume around Position.
type PlacedHandle struct {
	Handle   Handle
	Pose     Pose
	PickHalf mgl32.Vec3
	Visible  bool
}

// how far the face arrows float beyond the face plane
const arrowOffset = 0.15

// base yaw of the edge arc visuals per edge index, see edgeSigns.
var edgeBaseYaw = [4]float32{math.Pi / 2, 0, math.Pi, -math.Pi / 2}

// per-index calibration so the quarter-arc visual faces outward.
var edgeYawTrim = [4]float32{-math.Pi / 4, 3 * math.Pi / 4, math.Pi / 4, math.Pi / 4}

// world offsets of the three axis-constraint handles from their follow
// handle.
var axisOffsets = [3]mgl32.Vec3{{0.4, 0, 0}, {0, 0.4, 0}, {0, 0, 0.4}}

var pickHalf = map[HandleKind]mgl32.Vec3{
	HandleFace:   {0.12, 0.12, 0.12},
	HandleEdge:   {0.10, 0.10, 0.10},
	HandleCorner: {0.09, 0.09, 0.09},
	HandleAxis:   {0.10, 0.10, 0.10},
}

// HandleSet derives the world poses of all handles from the box. It is a
// view: it owns no box state and is rebuilt on every box change.
type HandleSet struct {
	placed []PlacedHandle
	follow *Face
}

func NewHandleSet() *HandleSet {
	return &HandleSet{}
}

// SetFollow anchors the axis-constraint handles next to the given face
// handle. A nil face hides them.
func (hs *HandleSet) SetFollow(f *Face) {
	hs.follow = f
}

func (hs *HandleSet) Follow() *Face {
	return hs.follow
}

func (hs *HandleSet) Placed() []PlacedHandle {
	return hs.placed
}

// Refresh recomputes every handle pose from the box. Prior placements
// are discarded, not mutated.
func (hs *HandleSet) Refresh(b Box) {
	placed := make([]PlacedHandle, 0, 6+4+8+3)
	boxQuat := mgl32.QuatRotate(b.Yaw, mgl32.Vec3{0, 1, 0})

	for _, f := range faces {
		pos := b.Center.Add(b.FaceNormal(f).Mul(b.HalfExtents[int(f.Axis)] + arrowOffset))
		placed = append(placed, PlacedHandle{
			Handle:   Handle{Kind: HandleFace, Face: f},
			Pose:     Pose{Position: pos, Orientation: boxQuat.Mul(faceQuat(f))},
			PickHalf: pickHalf[HandleFace],
			Visible:  true,
		})
	}

	mids := b.EdgeMidpoints()
	for i := range mids {
		yaw := b.Yaw + edgeBaseYaw[i] + edgeYawTrim[i]
		placed = append(placed, PlacedHandle{
			Handle:   Handle{Kind: HandleEdge, Edge: i},
			Pose:     Pose{Position: mids[i], Orientation: mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})},
			PickHalf: pickHalf[HandleEdge],
			Visible:  true,
		})
	}

	for _, s := range cornerSigns {
		placed = append(placed, PlacedHandle{
			Handle:   Handle{Kind: HandleCorner, Corner: s},
			Pose:     Pose{Position: b.Corner(s), Orientation: boxQuat},
			PickHalf: pickHalf[HandleCorner],
			Visible:  true,
		})
	}

	var anchor mgl32.Vec3
	if hs.follow != nil {
		f := *hs.follow
		anchor = b.Center.Add(b.FaceNormal(f).Mul(b.HalfExtents[int(f.Axis)] + arrowOffset))
	}
	for a := AxisX; a <= AxisZ; a++ {
		placed = append(placed, PlacedHandle{
			Handle:   Handle{Kind: HandleAxis, Axis: a},
			Pose:     Pose{Position: anchor.Add(axisOffsets[a]), Orientation: faceQuat(Face{a, +1})},
			PickHalf: pickHalf[HandleAxis],
			Visible:  hs.follow != nil,
		})
	}

	hs.placed = placed
}

// faceQuat aligns the long (+Y) axis of a marker mesh with the outward
// local normal of the face.
func faceQuat(f Face) mgl32.Quat {
	switch f.Axis {
	case AxisX:
		return mgl32.QuatRotate(-f.Sign*math.Pi/2, mgl32.Vec3{0, 0, 1})
	case AxisZ:
		return mgl32.QuatRotate(f.Sign*math.Pi/2, mgl32.Vec3{1, 0, 0})
	default:
		if f.Sign < 0 {
			return mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 0, 1})
		}
		return mgl32.QuatIdent()
	}
}
