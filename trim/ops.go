package trim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cloud_slicer/utils"
)

// Edit operations. Every function is pure: it takes the drag-snapshot
// box as base and returns a new box, so a drag always interpolates from
// the press state and never accumulates error from intermediate edits.

// FaceExtrude moves one face along its outward normal by the component
// of worldDelta on that normal. The opposite face keeps its world
// position. The half extent is clamped to minHalf.
func FaceExtrude(base Box, f Face, worldDelta mgl32.Vec3, minHalf float32) Box {
	normal := base.FaceNormal(f)
	d := worldDelta.Dot(normal)

	half := base.HalfExtents[int(f.Axis)] + d/2
	if half < minHalf {
		half = minHalf
	}

	out := base
	out.HalfExtents[int(f.Axis)] = half
	// keep the opposite face fixed: the center sits one half extent from
	// it along the face normal
	opposite := base.FaceCenter(Face{Axis: f.Axis, Sign: -f.Sign})
	out.Center = opposite.Add(normal.Mul(half))
	return out
}

// CornerScale drags a corner while the diagonally opposite corner keeps
// its world position. Each axis is clamped to minHalf by growing toward
// the dragged corner's side.
func CornerScale(base Box, signs mgl32.Vec3, worldDelta mgl32.Vec3, minHalf float32) Box {
	dragged := base.ToLocal(base.Corner(signs).Add(worldDelta))
	fixed := mgl32.Vec3{
		-signs.X() * base.HalfExtents.X(),
		-signs.Y() * base.HalfExtents.Y(),
		-signs.Z() * base.HalfExtents.Z(),
	}

	var centerLocal, half mgl32.Vec3
	for i := 0; i < 3; i++ {
		lo, hi := fixed[i], dragged[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi-lo < 2*minHalf {
			// grow toward the dragged corner's side
			if signs[i] > 0 {
				hi = lo + 2*minHalf
			} else {
				lo = hi - 2*minHalf
			}
		}
		centerLocal[i] = (lo + hi) / 2
		half[i] = (hi - lo) / 2
	}

	out := base
	out.Center = base.ToWorld(centerLocal)
	out.HalfExtents = half
	return out
}

// EdgeRotate spins the box around the world up axis. Center and extents
// are untouched.
func EdgeRotate(base Box, deltaYaw float32) Box {
	out := base
	out.Yaw = utils.WrapAngle(base.Yaw + deltaYaw)
	return out
}

// Translate moves the whole box by a world displacement.
func Translate(base Box, worldDelta mgl32.Vec3) Box {
	out := base
	out.Center = base.Center.Add(worldDelta)
	return out
}

// TranslateAxis moves the box by a signed distance along one world axis.
// Projecting a screen delta onto that axis is the caller's job, see
// viewport.AxisDisplacement.
func TranslateAxis(base Box, a Axis, dist float32) Box {
	return Translate(base, a.Unit().Mul(dist))
}
