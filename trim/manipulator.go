package trim

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/cloud_slicer/cloud"
	"github.com/mogaika/cloud_slicer/viewport"
)

type Appearance struct {
	Color   mgl32.Vec3
	Opacity float32
}

type CommitStats struct {
	InsideCount  int `json:"inside"`
	OutsideCount int `json:"outside"`
}

// Manipulator is the public surface of the trim-box core. It exclusively
// owns the box; every edit goes through the pure ops and is applied
// atomically, after which handles and the partition preview are refreshed.
type Manipulator struct {
	vp     viewport.Viewport
	pc     *cloud.PointCloud
	params Params

	box     *Box
	handles *HandleSet
	machine *Machine

	band       float32
	appearance Appearance

	preview   *Partition
	onPreview func(*Partition)
}

func New(vp viewport.Viewport, pc *cloud.PointCloud, params Params) *Manipulator {
	return &Manipulator{
		vp:      vp,
		pc:      pc,
		params:  params,
		handles: NewHandleSet(),
		machine: NewMachine(vp, params),
		band:    DefaultBoundaryBand,
		appearance: Appearance{
			Color:   mgl32.Vec3{1.0, 0.65, 0.0},
			Opacity: 0.25,
		},
	}
}

// OnPreview registers the callback invoked with a fresh partition every
// time the box changes.
func (m *Manipulator) OnPreview(fn func(*Partition)) {
	m.onPreview = fn
}

// Show places the trim box in front of the camera: centered at 70% of
// the camera-to-target distance, sized to 30% of the viewport's world
// height at that depth. The model bbox contributes only the Y center.
func (m *Manipulator) Show(bbox cloud.AABB) error {
	if m.pc == nil {
		return ErrNotReady
	}
	cam := m.vp.Camera()

	dist := cam.Target.Sub(cam.Position).Len() * 0.7
	center := cam.Position.Add(cam.Forward().Mul(dist))
	center[1] = bbox.Center().Y()

	_, h := cam.ExtentAt(center)
	half := h * 0.3 / 2
	if half < m.params.MinHalf {
		half = m.params.MinHalf
	}

	m.box = &Box{
		Center:      center,
		HalfExtents: mgl32.Vec3{half, half, half},
	}
	m.refresh()
	return nil
}

// Hide tears down the box, the handles and the partition preview and
// gives camera control back to the host.
func (m *Manipulator) Hide() {
	m.machine.Blur()
	m.machine.selectedFace = nil
	m.handles.SetFollow(nil)
	m.box = nil
	m.preview = nil
	m.handles.placed = nil
	m.vp.SetOrbitEnabled(true)
	m.vp.SetCursor(viewport.CursorDefault)
}

func (m *Manipulator) Visible() bool {
	return m.box != nil
}

// GetBox returns a copy of the current box, or nil when hidden.
func (m *Manipulator) GetBox() *Box {
	if m.box == nil {
		return nil
	}
	b := *m.box
	return &b
}

// Commit replaces the model geometry with the points inside the box and
// hides the manipulator. On ErrEmptySelection the model and the box are
// left untouched so the user can adjust further.
func (m *Manipulator) Commit() (CommitStats, error) {
	if m.pc == nil || m.box == nil {
		return CommitStats{}, ErrNotReady
	}
	positions, colors := Retained(m.pc, *m.box)
	if len(positions) == 0 {
		return CommitStats{}, ErrEmptySelection
	}
	stats := CommitStats{
		InsideCount:  len(positions) / 3,
		OutsideCount: m.pc.Count() - len(positions)/3,
	}
	m.pc.ReplaceGeometry(positions, colors)
	m.Hide()
	return stats, nil
}

func (m *Manipulator) SetBoundaryBand(band float32) {
	m.band = band
	m.refresh()
}

func (m *Manipulator) BoundaryBand() float32 {
	return m.band
}

func (m *Manipulator) SetBoxAppearance(color mgl32.Vec3, opacity float32) {
	m.appearance = Appearance{Color: color, Opacity: opacity}
}

func (m *Manipulator) Appearance() Appearance {
	return m.appearance
}

// Moving reports whether the box is in long-press free-translate mode;
// the host tints the box while it is.
func (m *Manipulator) Moving() bool {
	return m.machine.State() == StateBoxMoving
}

func (m *Manipulator) Handles() []PlacedHandle {
	return m.handles.Placed()
}

func (m *Manipulator) SelectedFace() *Face {
	return m.machine.SelectedFace()
}

func (m *Manipulator) HoverFace() *Face {
	return m.machine.HoverFace()
}

func (m *Manipulator) Preview() *Partition {
	return m.preview
}

// Pointer and key sinks. All of them are no-ops while the box is hidden;
// malformed events never fail.

func (m *Manipulator) OnPointerDown(ev viewport.PointerEvent) {
	if m.box == nil {
		return
	}
	m.machine.PointerDown(*m.box, m.handles, ev)
}

func (m *Manipulator) OnPointerMove(ev viewport.PointerEvent) {
	if m.box == nil {
		return
	}
	if b, changed := m.machine.PointerMove(*m.box, m.handles, ev); changed {
		m.apply(b)
	}
}

func (m *Manipulator) OnPointerUp(ev viewport.PointerEvent) {
	if m.box == nil {
		return
	}
	m.machine.PointerUp(m.handles, ev)
	m.refresh() // face selection toggles the axis handles
}

func (m *Manipulator) OnKey(ev viewport.KeyEvent) {
	if m.box == nil {
		return
	}
	m.machine.Key(m.handles, ev)
	m.refresh()
}

func (m *Manipulator) OnBlur() {
	m.machine.Blur()
}

// Tick advances time-based transitions (the 200 ms long press). The host
// calls it once per frame.
func (m *Manipulator) Tick(now time.Time) {
	if m.box == nil {
		return
	}
	m.machine.Tick(*m.box, now)
}

// apply atomically replaces the box and rederives everything hanging off
// it, in order: handles first, partition preview second.
func (m *Manipulator) apply(b Box) {
	m.box = &b
	m.refresh()
}

func (m *Manipulator) refresh() {
	if m.box == nil {
		return
	}
	m.handles.SetFollow(m.machine.SelectedFace())
	m.handles.Refresh(*m.box)
	m.preview = PartitionCloud(m.pc, *m.box, m.band)
	if m.onPreview != nil {
		m.onPreview(m.preview)
	}
}
