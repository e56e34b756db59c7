package trim

import (
	"github.com/mogaika/cloud_slicer/cloud"
)

// DefaultBoundaryBand is the world-space thickness of the highlighted
// shell just inside the box faces.
const DefaultBoundaryBand = 0.05

// Partition is the split of a point cloud against the box. A point
// appears in exactly one of Inside, Outside or Boundary; Boundary holds
// the inside points within the band of a face and is painted white.
type Partition struct {
	Inside   []float32
	Outside  []float32
	Boundary []float32

	InsideColors   []float32
	OutsideColors  []float32
	BoundaryColors []float32

	HasColors bool
}

func (p *Partition) InsideCount() int   { return len(p.Inside) / 3 }
func (p *Partition) OutsideCount() int  { return len(p.Outside) / 3 }
func (p *Partition) BoundaryCount() int { return len(p.Boundary) / 3 }

// PartitionCloud classifies every point of the cloud against the box in
// a single O(N) scan. Points are tested in world space, with the cloud
// transform applied.
func PartitionCloud(pc *cloud.PointCloud, b Box, band float32) *Partition {
	out := &Partition{HasColors: pc.HasColors()}

	n := pc.Count()
	for i := 0; i < n; i++ {
		p := pc.WorldAt(i)
		l := b.ToLocal(p)

		dx := b.HalfExtents.X() - abs32(l.X())
		dy := b.HalfExtents.Y() - abs32(l.Y())
		dz := b.HalfExtents.Z() - abs32(l.Z())
		if dx < 0 || dy < 0 || dz < 0 {
			out.Outside = append(out.Outside, p.X(), p.Y(), p.Z())
			if out.HasColors {
				c := pc.ColorAt(i)
				out.OutsideColors = append(out.OutsideColors, c.X(), c.Y(), c.Z())
			}
			continue
		}

		d := dx
		if dy < d {
			d = dy
		}
		if dz < d {
			d = dz
		}
		if d <= band {
			out.Boundary = append(out.Boundary, p.X(), p.Y(), p.Z())
			if out.HasColors {
				out.BoundaryColors = append(out.BoundaryColors, 1, 1, 1)
			}
			continue
		}

		out.Inside = append(out.Inside, p.X(), p.Y(), p.Z())
		if out.HasColors {
			c := pc.ColorAt(i)
			out.InsideColors = append(out.InsideColors, c.X(), c.Y(), c.Z())
		}
	}
	return out
}

// Retained returns the buffers that survive a commit: the union of the
// inside and boundary points with their original source colors.
func Retained(pc *cloud.PointCloud, b Box) (positions, colors []float32) {
	n := pc.Count()
	hasColors := pc.HasColors()
	for i := 0; i < n; i++ {
		if !b.Contains(pc.WorldAt(i)) {
			continue
		}
		p := pc.At(i)
		positions = append(positions, p.X(), p.Y(), p.Z())
		if hasColors {
			c := pc.ColorAt(i)
			colors = append(colors, c.X(), c.Y(), c.Z())
		}
	}
	return positions, colors
}
