package trim

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cloud_slicer/viewport"
)

type State int

const (
	StateIdle State = iota
	StateHover
	StatePressingFace
	StateDragging
	StateBoxMoving
)

// Params are the interaction tuning knobs, normally filled from the
// config package.
type Params struct {
	FaceSensitivity      float32
	CornerSensitivity    float32
	TranslateSensitivity float32
	RotateSensitivity    float32 // radians per unit of NDC motion

	LongPress       time.Duration
	MotionTolerance float32 // NDC distance that cancels a face press

	MinHalf float32
}

func DefaultParams() Params {
	return Params{
		FaceSensitivity:      0.20,
		CornerSensitivity:    0.15,
		TranslateSensitivity: 0.15,
		RotateSensitivity:    0.80,
		LongPress:            200 * time.Millisecond,
		MotionTolerance:      0.002,
		MinHalf:              MinHalfExtent,
	}
}

// DragSnapshot freezes everything an edit needs at pointer-down. All
// deltas of the drag are measured against it.
type DragSnapshot struct {
	PressNDC mgl32.Vec2
	Box      Box
	Handle   Handle
	RefPoint mgl32.Vec3 // world point used for pointer-to-world scale
	Depth    bool       // corner drag with modifier key held
	PressAt  time.Time
}

// Machine drives the idle / hover / press / drag transitions. It owns
// the active handle and the drag snapshot; the box itself stays with the
// facade, which passes the current value in and applies the returned one.
type Machine struct {
	params Params
	vp     viewport.Viewport

	state        State
	snapshot     *DragSnapshot
	hoverFace    *Face
	selectedFace *Face

	pressFace Face
	pressNDC  mgl32.Vec2
	pressAt   time.Time

	lastNDC  mgl32.Vec2
	ctrlHeld bool
}

func NewMachine(vp viewport.Viewport, params Params) *Machine {
	return &Machine{params: params, vp: vp}
}

func (m *Machine) State() State        { return m.state }
func (m *Machine) SelectedFace() *Face { return m.selectedFace }
func (m *Machine) HoverFace() *Face    { return m.hoverFace }
func (m *Machine) Snapshot() *DragSnapshot {
	return m.snapshot
}

// PointerDown starts a drag on a handle or arms the long-press timer on
// a face.
func (m *Machine) PointerDown(b Box, hs *HandleSet, ev viewport.PointerEvent) {
	if ev.Button != viewport.ButtonLeft {
		return
	}
	m.lastNDC = ev.NDC
	pick := PickAt(m.vp.Camera(), ev.NDC, hs, b)

	if pick.Handle != nil {
		m.beginDrag(b, pick.Handle.Handle, pick.Handle.Pose.Position, ev)
		return
	}
	if pick.Face != nil {
		m.state = StatePressingFace
		m.pressFace = *pick.Face
		m.pressNDC = ev.NDC
		m.pressAt = ev.Time
		m.hoverFace = pick.Face
	}
}

func (m *Machine) beginDrag(b Box, h Handle, ref mgl32.Vec3, ev viewport.PointerEvent) {
	m.snapshot = &DragSnapshot{
		PressNDC: ev.NDC,
		Box:      b,
		Handle:   h,
		RefPoint: ref,
		Depth:    m.ctrlHeld || ev.Ctrl,
		PressAt:  ev.Time,
	}
	m.state = StateDragging
	m.vp.SetOrbitEnabled(false)
	m.vp.SetCursor(viewport.CursorGrabbing)
}

// PointerMove either applies the active drag and returns the edited box,
// or updates hover state. changed reports whether the box was edited.
func (m *Machine) PointerMove(b Box, hs *HandleSet, ev viewport.PointerEvent) (out Box, changed bool) {
	m.lastNDC = ev.NDC

	switch m.state {
	case StateDragging, StateBoxMoving:
		return m.applyDrag(ev), true

	case StatePressingFace:
		if ev.NDC.Sub(m.pressNDC).Len() >= m.params.MotionTolerance {
			// moved too far, the press is a hover after all
			m.state = StateIdle
			m.updateHover(b, hs, ev)
		}
		return b, false

	default:
		m.updateHover(b, hs, ev)
		return b, false
	}
}

func (m *Machine) updateHover(b Box, hs *HandleSet, ev viewport.PointerEvent) {
	pick := PickAt(m.vp.Camera(), ev.NDC, hs, b)
	m.hoverFace = pick.Face
	if pick.Handle != nil {
		m.state = StateHover
		m.vp.SetCursor(viewport.CursorGrab)
	} else {
		m.state = StateIdle
		m.vp.SetCursor(viewport.CursorDefault)
	}
}

func (m *Machine) applyDrag(ev viewport.PointerEvent) Box {
	snap := m.snapshot
	cam := m.vp.Camera()
	delta := ev.NDC.Sub(snap.PressNDC)

	if m.state == StateBoxMoving {
		return Translate(snap.Box, viewport.Displacement(cam, snap.RefPoint, delta, m.params.TranslateSensitivity))
	}

	switch snap.Handle.Kind {
	case HandleFace:
		d := viewport.Displacement(cam, snap.RefPoint, delta, m.params.FaceSensitivity)
		return FaceExtrude(snap.Box, snap.Handle.Face, d, m.params.MinHalf)

	case HandleCorner:
		var d mgl32.Vec3
		if snap.Depth {
			d = viewport.DepthDisplacement(cam, snap.RefPoint, delta, m.params.CornerSensitivity)
		} else {
			d = viewport.Displacement(cam, snap.RefPoint, delta, m.params.CornerSensitivity)
		}
		return CornerScale(snap.Box, snap.Handle.Corner, d, m.params.MinHalf)

	case HandleEdge:
		return EdgeRotate(snap.Box, delta.X()*m.params.RotateSensitivity)

	case HandleAxis:
		d := viewport.AxisDisplacement(cam, snap.RefPoint, delta, m.params.TranslateSensitivity, snap.Handle.Axis.Unit())
		return TranslateAxis(snap.Box, snap.Handle.Axis, d)

	default:
		return snap.Box
	}
}

// PointerUp ends a drag or resolves a short face press into a persistent
// face selection. Listened on window scope by the host so drags release
// even when the pointer leaves the canvas.
func (m *Machine) PointerUp(hs *HandleSet, ev viewport.PointerEvent) {
	switch m.state {
	case StateDragging, StateBoxMoving:
		m.endDrag()
	case StatePressingFace:
		f := m.pressFace
		m.selectedFace = &f
		hs.SetFollow(&f)
		m.state = StateIdle
	}
}

// Tick promotes an armed face press into free box translation once the
// long-press deadline passes. The facade calls it from the frame loop.
func (m *Machine) Tick(b Box, now time.Time) {
	if m.state != StatePressingFace {
		return
	}
	if now.Sub(m.pressAt) < m.params.LongPress {
		return
	}
	m.snapshot = &DragSnapshot{
		PressNDC: m.pressNDC,
		Box:      b,
		RefPoint: b.Center,
		PressAt:  m.pressAt,
	}
	m.state = StateBoxMoving
	m.vp.SetOrbitEnabled(false)
	m.vp.SetCursor(viewport.CursorGrabbing)
}

// Key handles Escape (abort drag, else clear the face selection) and the
// modifier key toggling depth mode on an active corner drag.
func (m *Machine) Key(hs *HandleSet, ev viewport.KeyEvent) {
	switch ev.Key {
	case viewport.KeyControl:
		m.ctrlHeld = ev.Pressed
		if m.snapshot != nil && m.snapshot.Handle.Kind == HandleCorner {
			m.snapshot.Depth = ev.Pressed
		}
	case viewport.KeyEscape:
		if !ev.Pressed {
			return
		}
		switch m.state {
		case StateDragging, StateBoxMoving, StatePressingFace:
			// the box stays wherever the last applied delta left it
			m.endDrag()
		default:
			m.selectedFace = nil
			hs.SetFollow(nil)
		}
	}
}

// Blur cancels any in-flight interaction, e.g. when the window loses
// focus mid drag.
func (m *Machine) Blur() {
	if m.state == StateDragging || m.state == StateBoxMoving || m.state == StatePressingFace {
		m.endDrag()
	}
}

func (m *Machine) endDrag() {
	m.snapshot = nil
	m.state = StateIdle
	m.vp.SetOrbitEnabled(true)
	m.vp.SetCursor(viewport.CursorDefault)
}
