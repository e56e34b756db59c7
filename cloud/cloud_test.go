package cloud

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBounds(t *testing.T) {
	pc := New([]float32{
		0, 0, 0,
		1, -2, 3,
		-5, 4, 1,
	}, nil)

	b := pc.Bounds()
	if b.Min != (mgl32.Vec3{-5, -2, 0}) || b.Max != (mgl32.Vec3{1, 4, 3}) {
		t.Errorf("bounds %v..%v", b.Min, b.Max)
	}
	if b.Center() != (mgl32.Vec3{-2, 1, 1.5}) {
		t.Errorf("center %v", b.Center())
	}
	if b.Size() != (mgl32.Vec3{6, 6, 3}) {
		t.Errorf("size %v", b.Size())
	}
}

func TestWorldAtAppliesTransform(t *testing.T) {
	pc := New([]float32{1, 0, 0}, nil)
	pc.Transform = mgl32.Translate3D(10, 20, 30)

	if got := pc.At(0); got != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("model point %v", got)
	}
	if got := pc.WorldAt(0); got != (mgl32.Vec3{11, 20, 30}) {
		t.Errorf("world point %v", got)
	}
	b := pc.Bounds()
	if b.Min != (mgl32.Vec3{11, 20, 30}) {
		t.Errorf("bounds ignore the transform: %v", b.Min)
	}
}

func TestHasColors(t *testing.T) {
	if New([]float32{0, 0, 0}, nil).HasColors() {
		t.Error("nil colors reported present")
	}
	if New([]float32{0, 0, 0}, []float32{1}).HasColors() {
		t.Error("mismatched color buffer reported present")
	}
	if !New([]float32{0, 0, 0}, []float32{1, 1, 1}).HasColors() {
		t.Error("matching color buffer reported absent")
	}
}

func TestReplaceGeometry(t *testing.T) {
	pc := New([]float32{0, 0, 0, 1, 1, 1}, []float32{1, 0, 0, 0, 1, 0})
	pc.ReplaceGeometry([]float32{5, 5, 5}, nil)
	if pc.Count() != 1 || pc.HasColors() {
		t.Errorf("count %d colors %v after replace", pc.Count(), pc.HasColors())
	}
	if pc.At(0) != (mgl32.Vec3{5, 5, 5}) {
		t.Errorf("point %v after replace", pc.At(0))
	}
}
