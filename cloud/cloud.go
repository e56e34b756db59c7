package cloud

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min, Max mgl32.Vec3
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// PointCloud is the host model the slicer operates on. Positions is a
// packed xyz buffer of 3*N floats; Colors, when present, is 3*N floats
// in [0,1]. Transform is applied uniformly to all points for any
// world-space query.
type PointCloud struct {
	Positions []float32
	Colors    []float32
	Transform mgl32.Mat4
}

func New(positions, colors []float32) *PointCloud {
	return &PointCloud{
		Positions: positions,
		Colors:    colors,
		Transform: mgl32.Ident4(),
	}
}

func (pc *PointCloud) Count() int {
	return len(pc.Positions) / 3
}

func (pc *PointCloud) HasColors() bool {
	return len(pc.Colors) == len(pc.Positions) && len(pc.Colors) > 0
}

// At returns the i-th point in model space.
func (pc *PointCloud) At(i int) mgl32.Vec3 {
	return mgl32.Vec3{pc.Positions[i*3], pc.Positions[i*3+1], pc.Positions[i*3+2]}
}

// WorldAt returns the i-th point with the cloud transform applied.
func (pc *PointCloud) WorldAt(i int) mgl32.Vec3 {
	return mgl32.TransformCoordinate(pc.At(i), pc.Transform)
}

func (pc *PointCloud) ColorAt(i int) mgl32.Vec3 {
	return mgl32.Vec3{pc.Colors[i*3], pc.Colors[i*3+1], pc.Colors[i*3+2]}
}

// Bounds computes the world-space bounding box of the cloud.
func (pc *PointCloud) Bounds() AABB {
	inf := float32(math.Inf(1))
	b := AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for i := 0; i < pc.Count(); i++ {
		p := pc.WorldAt(i)
		for k := 0; k < 3; k++ {
			if p[k] < b.Min[k] {
				b.Min[k] = p[k]
			}
			if p[k] > b.Max[k] {
				b.Max[k] = p[k]
			}
		}
	}
	return b
}

// ReplaceGeometry swaps the point buffers. The commit path of the slicer
// uses this to keep only the retained points. colors may be nil.
func (pc *PointCloud) ReplaceGeometry(positions, colors []float32) {
	pc.Positions = positions
	pc.Colors = colors
}
