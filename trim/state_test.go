package trim

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cloud_slicer/viewport"
)

type fakeViewport struct {
	cam    viewport.Camera
	orbit  bool
	cursor viewport.Cursor
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{
		cam: viewport.Camera{
			Position: mgl32.Vec3{0, 0, 10},
			Target:   mgl32.Vec3{0, 0, 0},
			Up:       mgl32.Vec3{0, 1, 0},
			Fov:      mgl32.DegToRad(60),
			Aspect:   1,
		},
		orbit: true,
	}
}

func (v *fakeViewport) Camera() viewport.Camera { return v.cam }
func (v *fakeViewport) SetOrbitEnabled(enabled bool) { v.orbit = enabled }
func (v *fakeViewport) SetCursor(c viewport.Cursor) { v.cursor = c }

// ndcFor computes the NDC coordinates that project onto a world point.
func ndcFor(cam viewport.Camera, p mgl32.Vec3) mgl32.Vec2 {
	d := p.Sub(cam.Position).Normalize()
	fw := d.Dot(cam.Forward())
	tanFov := float32(math.Tan(float64(cam.Fov) / 2))
	return mgl32.Vec2{
		d.Dot(cam.Right()) / (fw * tanFov * cam.Aspect),
		d.Dot(cam.UpOrtho()) / (fw * tanFov),
	}
}

func pev(ndc mgl32.Vec2, button viewport.Button, at time.Time) viewport.PointerEvent {
	return viewport.PointerEvent{NDC: ndc, Button: button, Time: at}
}

func testBoxAndHandles() (Box, *HandleSet) {
	b := Box{HalfExtents: mgl32.Vec3{2, 1, 2}}
	hs := NewHandleSet()
	hs.Refresh(b)
	return b, hs
}

func TestDragFaceHandle(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	// the +X face arrow floats at (2.15, 0, 0)
	down := ndcFor(vp.cam, mgl32.Vec3{2.15, 0, 0})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))

	if m.State() != StateDragging {
		t.Fatalf("state=%v; expected dragging", m.State())
	}
	if vp.orbit {
		t.Error("orbit controls not disabled during drag")
	}
	if vp.cursor != viewport.CursorGrabbing {
		t.Error("cursor not grabbing during drag")
	}
	snap := m.Snapshot()
	if snap == nil || snap.Handle.Kind != HandleFace || snap.Handle.Face != (Face{AxisX, +1}) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	move := down.Add(mgl32.Vec2{0.1, 0})
	out, changed := m.PointerMove(b, hs, pev(move, viewport.ButtonLeft, t0.Add(time.Millisecond)))
	if !changed {
		t.Fatal("drag did not edit the box")
	}
	wantDelta := viewport.Displacement(vp.cam, snap.RefPoint, mgl32.Vec2{0.1, 0}, DefaultParams().FaceSensitivity)
	want := FaceExtrude(b, Face{AxisX, +1}, wantDelta, MinHalfExtent)
	vecNear(t, "dragged box center", out.Center, want.Center, 1e-5)
	vecNear(t, "dragged box extents", out.HalfExtents, want.HalfExtents, 1e-5)

	m.PointerUp(hs, pev(move, viewport.ButtonLeft, t0.Add(2*time.Millisecond)))
	if m.State() != StateIdle || !vp.orbit || m.Snapshot() != nil {
		t.Error("pointer-up did not return to idle")
	}
}

func TestDragAxisHandle(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	f := Face{AxisX, +1}
	hs.SetFollow(&f)
	hs.Refresh(b)
	t0 := time.Now()

	// the Y axis arrow sits above the +X face anchor
	down := ndcFor(vp.cam, mgl32.Vec3{2.15, 0.4, 0})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))
	snap := m.Snapshot()
	if snap == nil || snap.Handle.Kind != HandleAxis || snap.Handle.Axis != AxisY {
		t.Fatalf("expected a Y axis drag, got %+v", snap)
	}

	delta := mgl32.Vec2{0.2, 0.1}
	out, changed := m.PointerMove(b, hs, pev(down.Add(delta), viewport.ButtonLeft, t0.Add(time.Millisecond)))
	if !changed {
		t.Fatal("axis drag did not edit the box")
	}
	wantDist := viewport.AxisDisplacement(vp.cam, snap.RefPoint, delta, DefaultParams().TranslateSensitivity, mgl32.Vec3{0, 1, 0})
	vecNear(t, "axis move center", out.Center, b.Center.Add(mgl32.Vec3{0, wantDist, 0}), 1e-5)
	if out.Center.X() != b.Center.X() || out.Center.Z() != b.Center.Z() {
		t.Error("axis move leaked off the constrained axis")
	}
	vecNear(t, "extents", out.HalfExtents, b.HalfExtents, 0)
}

func TestLongPressFreeTranslate(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	// press the +Z face away from any handle
	down := ndcFor(vp.cam, mgl32.Vec3{0.6, 0.4, 2})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))
	if m.State() != StatePressingFace {
		t.Fatalf("state=%v; expected pressing face", m.State())
	}

	// before the deadline nothing happens
	m.Tick(b, t0.Add(100*time.Millisecond))
	if m.State() != StatePressingFace {
		t.Fatal("long press fired early")
	}

	m.Tick(b, t0.Add(250*time.Millisecond))
	if m.State() != StateBoxMoving {
		t.Fatalf("state=%v; expected box moving after long press", m.State())
	}

	move := down.Add(mgl32.Vec2{0.2, 0.1})
	out, changed := m.PointerMove(b, hs, pev(move, viewport.ButtonLeft, t0.Add(300*time.Millisecond)))
	if !changed {
		t.Fatal("box move did not edit the box")
	}
	wantDelta := viewport.Displacement(vp.cam, b.Center, mgl32.Vec2{0.2, 0.1}, DefaultParams().TranslateSensitivity)
	vecNear(t, "moved center", out.Center, b.Center.Add(wantDelta), 1e-5)
	vecNear(t, "extents", out.HalfExtents, b.HalfExtents, 0)
	if out.Yaw != b.Yaw {
		t.Error("free translate changed yaw")
	}

	m.PointerUp(hs, pev(move, viewport.ButtonLeft, t0.Add(400*time.Millisecond)))
	if m.State() != StateIdle {
		t.Error("pointer-up did not end the move")
	}
}

func TestFacePressMotionCancels(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	down := ndcFor(vp.cam, mgl32.Vec3{0.6, 0.4, 2})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))

	_, changed := m.PointerMove(b, hs, pev(down.Add(mgl32.Vec2{0.05, 0}), viewport.ButtonLeft, t0))
	if changed {
		t.Error("cancelled press edited the box")
	}
	if m.State() == StatePressingFace || m.State() == StateBoxMoving {
		t.Errorf("state=%v; expected press cancelled", m.State())
	}
	// the timer must not fire afterwards
	m.Tick(b, t0.Add(time.Second))
	if m.State() == StateBoxMoving {
		t.Error("long press fired after cancel")
	}
}

func TestFaceQuickReleaseSelects(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	down := ndcFor(vp.cam, mgl32.Vec3{0.6, 0.4, 2})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))
	m.PointerUp(hs, pev(down, viewport.ButtonLeft, t0.Add(50*time.Millisecond)))

	f := m.SelectedFace()
	if f == nil || *f != (Face{AxisZ, +1}) {
		t.Fatalf("selected face %+v; expected +Z", f)
	}
	if hs.Follow() == nil {
		t.Error("axis handles not anchored to the selected face")
	}

	// Escape outside a drag clears the selection
	m.Key(hs, viewport.KeyEvent{Key: viewport.KeyEscape, Pressed: true, Time: t0.Add(time.Second)})
	if m.SelectedFace() != nil || hs.Follow() != nil {
		t.Error("escape did not clear the face selection")
	}
}

func TestEscapeDuringDragKeepsLastDelta(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	down := ndcFor(vp.cam, mgl32.Vec3{2.15, 0, 0})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))
	out, _ := m.PointerMove(b, hs, pev(down.Add(mgl32.Vec2{0.1, 0}), viewport.ButtonLeft, t0))

	m.Key(hs, viewport.KeyEvent{Key: viewport.KeyEscape, Pressed: true, Time: t0})
	if m.State() != StateIdle || m.Snapshot() != nil {
		t.Error("escape did not end the drag")
	}
	if !vp.orbit {
		t.Error("escape did not re-enable orbit controls")
	}
	// the edited box is whatever the last applied delta produced; the
	// machine does not roll it back
	if out.HalfExtents == b.HalfExtents {
		t.Error("expected the drag to have edited the box before escape")
	}
}

func TestBlurCancelsDrag(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	down := ndcFor(vp.cam, mgl32.Vec3{2.15, 0, 0})
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))
	m.Blur()
	if m.State() != StateIdle || !vp.orbit {
		t.Error("window blur did not cancel the drag")
	}
}

func TestCornerDepthMode(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	down := ndcFor(vp.cam, b.Corner(mgl32.Vec3{1, 1, 1}))
	m.PointerDown(b, hs, pev(down, viewport.ButtonLeft, t0))
	snap := m.Snapshot()
	if snap == nil || snap.Handle.Kind != HandleCorner {
		t.Fatalf("expected a corner drag, got %+v", snap)
	}
	if snap.Depth {
		t.Fatal("depth mode on without modifier")
	}

	m.Key(hs, viewport.KeyEvent{Key: viewport.KeyControl, Pressed: true, Time: t0})
	if !m.Snapshot().Depth {
		t.Error("modifier key did not switch the corner drag to depth mode")
	}

	delta := mgl32.Vec2{0, 0.1}
	out, _ := m.PointerMove(b, hs, pev(down.Add(delta), viewport.ButtonLeft, t0))
	want := CornerScale(b, mgl32.Vec3{1, 1, 1},
		viewport.DepthDisplacement(vp.cam, snap.RefPoint, delta, DefaultParams().CornerSensitivity),
		MinHalfExtent)
	vecNear(t, "depth drag center", out.Center, want.Center, 1e-5)

	m.Key(hs, viewport.KeyEvent{Key: viewport.KeyControl, Pressed: false, Time: t0})
	if m.Snapshot().Depth {
		t.Error("releasing the modifier did not leave depth mode")
	}
}

func TestHoverOverHandle(t *testing.T) {
	vp := newFakeViewport()
	m := NewMachine(vp, DefaultParams())
	b, hs := testBoxAndHandles()
	t0 := time.Now()

	over := ndcFor(vp.cam, mgl32.Vec3{2.15, 0, 0})
	m.PointerMove(b, hs, pev(over, viewport.ButtonNone, t0))
	if m.State() != StateHover || vp.cursor != viewport.CursorGrab {
		t.Errorf("state=%v cursor=%v; expected hover/grab", m.State(), vp.cursor)
	}

	m.PointerMove(b, hs, pev(mgl32.Vec2{0.95, 0.95}, viewport.ButtonNone, t0))
	if m.State() != StateIdle || vp.cursor != viewport.CursorDefault {
		t.Errorf("state=%v cursor=%v; expected idle/default", m.State(), vp.cursor)
	}
}
