// Package session ties one loaded point cloud to one manipulator and a
// remote viewport. The web layer addresses sessions by id, one per
// browser tab.
package session

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mogaika/cloud_slicer/cloud"
	"github.com/mogaika/cloud_slicer/config"
	"github.com/mogaika/cloud_slicer/trim"
	"github.com/mogaika/cloud_slicer/utils"
	"github.com/mogaika/cloud_slicer/viewport"
)

// RemoteViewport mirrors the camera of a browser client and records the
// orbit / cursor requests the core makes, so the event loop can forward
// them back over the websocket.
type RemoteViewport struct {
	mu     sync.Mutex
	camera viewport.Camera

	orbitEnabled bool
	cursor       viewport.Cursor
}

func NewRemoteViewport() *RemoteViewport {
	return &RemoteViewport{
		camera:       viewport.DefaultCamera(),
		orbitEnabled: true,
	}
}

func (v *RemoteViewport) Camera() viewport.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

func (v *RemoteViewport) SetCamera(c viewport.Camera) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera = c
}

func (v *RemoteViewport) SetOrbitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orbitEnabled = enabled
}

func (v *RemoteViewport) SetCursor(c viewport.Cursor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = c
}

// State returns the orbit-control and cursor state the core requested,
// for forwarding to the browser client.
func (v *RemoteViewport) State() (orbit bool, cursor viewport.Cursor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orbitEnabled, v.cursor
}

type Session struct {
	ID      uuid.UUID
	Name    string
	Created time.Time

	Cloud    *cloud.PointCloud
	Viewport *RemoteViewport
	Manip    *trim.Manipulator

	mu sync.Mutex
}

// Lock serializes access to the manipulator and the cloud. The core is
// single threaded by design; every caller (event loop, tick timer, http
// handlers) takes the session lock around it.
func (s *Session) Lock() { s.mu.Lock() }

func (s *Session) Unlock() { s.mu.Unlock() }

func paramsFromConfig(c config.TrimConfig) trim.Params {
	return trim.Params{
		FaceSensitivity:      c.FaceSensitivity,
		CornerSensitivity:    c.CornerSensitivity,
		TranslateSensitivity: c.TranslateSensitivity,
		RotateSensitivity:    c.RotateSensitivity,
		LongPress:            time.Duration(c.LongPressMs) * time.Millisecond,
		MotionTolerance:      c.MotionTolerance,
		MinHalf:              c.MinHalfExtent,
	}
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	names    utils.RandomNameGenerator
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session)}
}

// Create builds a session around a loaded cloud. An empty name gets a
// generated one.
func (m *Manager) Create(name string, pc *cloud.PointCloud) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = m.names.RandomName()
	}

	vp := NewRemoteViewport()
	cfg := config.Current().Trim
	manip := trim.New(vp, pc, paramsFromConfig(cfg))
	manip.SetBoundaryBand(cfg.BoundaryBand)
	manip.SetBoxAppearance(mgl32.Vec3(cfg.BoxColor), cfg.BoxOpacity)

	s := &Session{
		ID:       uuid.New(),
		Name:     name,
		Created:  time.Now(),
		Cloud:    pc,
		Viewport: vp,
		Manip:    manip,
	}
	m.sessions[s.ID] = s
	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.Errorf("Unknown session %v", id)
	}
	return s, nil
}

func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.Manip.Hide()
		delete(m.sessions, id)
	}
}
