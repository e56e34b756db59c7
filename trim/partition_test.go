package trim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cloud_slicer/cloud"
)

func gridCloud(n int, step float32) *cloud.PointCloud {
	var positions []float32
	for x := -n; x <= n; x++ {
		for y := -n; y <= n; y++ {
			for z := -n; z <= n; z++ {
				positions = append(positions,
					float32(x)*step, float32(y)*step, float32(z)*step)
			}
		}
	}
	return cloud.New(positions, nil)
}

func TestPartitionDisjointUnion(t *testing.T) {
	pc := gridCloud(4, 0.4)
	box := Box{HalfExtents: mgl32.Vec3{1, 0.7, 1.2}, Yaw: 0.3}
	p := PartitionCloud(pc, box, DefaultBoundaryBand)

	if got := p.InsideCount() + p.OutsideCount() + p.BoundaryCount(); got != pc.Count() {
		t.Fatalf("partition covers %v points; input has %v", got, pc.Count())
	}
	// every emitted point classifies back consistently
	check := func(buf []float32, wantInside bool, wantBoundary bool) {
		for i := 0; i < len(buf); i += 3 {
			pt := mgl32.Vec3{buf[i], buf[i+1], buf[i+2]}
			if box.Contains(pt) != wantInside {
				t.Fatalf("point %v misclassified (inside=%v)", pt, wantInside)
			}
			if wantInside {
				inBand := box.DistanceToNearestFace(pt) <= DefaultBoundaryBand
				if inBand != wantBoundary {
					t.Fatalf("point %v in wrong band bucket", pt)
				}
			}
		}
	}
	check(p.Inside, true, false)
	check(p.Boundary, true, true)
	check(p.Outside, false, false)
}

func TestPartitionRotated(t *testing.T) {
	positions := []float32{
		1, 0, 0, // inside at yaw 45
		0.7, 0, 0.7, // inside, near a face
		1.5, 0, 0, // outside
	}
	pc := cloud.New(positions, nil)
	box := Box{HalfExtents: mgl32.Vec3{1, 1, 1}, Yaw: math.Pi / 4}
	p := PartitionCloud(pc, box, 0.0)

	if p.OutsideCount() != 1 {
		t.Errorf("outside count %v; expected 1", p.OutsideCount())
	}
	if p.InsideCount()+p.BoundaryCount() != 2 {
		t.Errorf("inside+boundary %v; expected 2", p.InsideCount()+p.BoundaryCount())
	}
	if p.Outside[0] != 1.5 {
		t.Errorf("wrong point classified outside: %v", p.Outside[:3])
	}
}

func TestPartitionBoundaryPaintedWhite(t *testing.T) {
	positions := []float32{
		0, 0, 0, // deep inside
		0.98, 0, 0, // within the band
		2, 0, 0, // outside
	}
	colors := []float32{
		0.2, 0.4, 0.6,
		0.2, 0.4, 0.6,
		0.2, 0.4, 0.6,
	}
	pc := cloud.New(positions, colors)
	box := Box{HalfExtents: mgl32.Vec3{1, 1, 1}}
	p := PartitionCloud(pc, box, DefaultBoundaryBand)

	if !p.HasColors {
		t.Fatal("expected colors")
	}
	if p.BoundaryCount() != 1 {
		t.Fatalf("boundary count %v; expected 1", p.BoundaryCount())
	}
	if p.BoundaryColors[0] != 1 || p.BoundaryColors[1] != 1 || p.BoundaryColors[2] != 1 {
		t.Errorf("boundary color %v; expected white", p.BoundaryColors[:3])
	}
	if p.InsideColors[0] != 0.2 || p.OutsideColors[0] != 0.2 {
		t.Errorf("inside/outside colors not passed through")
	}
}

func TestPartitionAppliesCloudTransform(t *testing.T) {
	pc := cloud.New([]float32{5, 0, 0}, nil)
	pc.Transform = mgl32.Translate3D(-5, 0, 0)
	box := Box{HalfExtents: mgl32.Vec3{1, 1, 1}}
	p := PartitionCloud(pc, box, 0.0)
	if p.InsideCount() != 1 {
		t.Errorf("transformed point not inside: %+v", p)
	}
}

func TestRetainedIdempotent(t *testing.T) {
	pc := gridCloud(3, 0.5)
	box := Box{HalfExtents: mgl32.Vec3{0.8, 0.8, 0.8}, Yaw: 0.5}

	positions, colors := Retained(pc, box)
	pc.ReplaceGeometry(positions, colors)
	n := pc.Count()

	again, _ := Retained(pc, box)
	if len(again)/3 != n {
		t.Errorf("second trim with the same box kept %v of %v points", len(again)/3, n)
	}
}
