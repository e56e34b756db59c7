package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Clamp32(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampVec2 clamps both components, used to keep pointer coordinates in
// the NDC square.
func ClampVec2(v mgl32.Vec2, min, max float32) mgl32.Vec2 {
	return mgl32.Vec2{Clamp32(v.X(), min, max), Clamp32(v.Y(), min, max)}
}

// WrapAngle normalizes an angle to (-pi, pi].
func WrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
