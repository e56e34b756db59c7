package web

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/mogaika/cloud_slicer/session"
	"github.com/mogaika/cloud_slicer/status"
	"github.com/mogaika/cloud_slicer/trim"
	"github.com/mogaika/cloud_slicer/utils"
	"github.com/mogaika/cloud_slicer/viewport"
	"github.com/mogaika/cloud_slicer/webutils"
)

var eventsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// jEvent is one normalized input message from the browser viewport.
type jEvent struct {
	Type string `json:"type"` // pointerdown pointermove pointerup key blur camera

	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Button int     `json:"button"`
	Ctrl   bool    `json:"ctrl"`

	Key     string `json:"key"`
	Pressed bool   `json:"pressed"`

	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
	Up       [3]float32 `json:"up"`
	Fov      float32    `json:"fov"`
	Aspect   float32    `json:"aspect"`
}

type jHandle struct {
	Kind        int        `json:"kind"`
	Position    [3]float32 `json:"position"`
	Orientation [4]float32 `json:"orientation"` // x y z w
	Visible     bool       `json:"visible"`
}

// jUpdate is pushed to the client after events that changed anything.
type jUpdate struct {
	Type string `json:"type"` // always "state"

	Orbit  bool   `json:"orbit"`
	Cursor string `json:"cursor"`

	Box     *jBox     `json:"box"`
	Moving  bool      `json:"moving"`
	Handles []jHandle `json:"handles"`

	Inside   int `json:"inside"`
	Outside  int `json:"outside"`
	Boundary int `json:"boundary"`
}

var cursorNames = map[viewport.Cursor]string{
	viewport.CursorDefault:  "default",
	viewport.CursorGrab:     "grab",
	viewport.CursorGrabbing: "grabbing",
}

// HandlerSessionEvents runs the interaction loop of one browser tab.
// Events are applied under the session lock, one at a time, so a later
// event never observes a half-applied edit.
func HandlerSessionEvents(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	conn, err := eventsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("[web] Events client connected to session %q", s.Name)

	s.Lock()
	s.Manip.OnPreview(func(p *trim.Partition) {
		status.Preview(s.ID.String(), p.InsideCount()+p.BoundaryCount(), p.OutsideCount(), p.BoundaryCount())
	})
	s.Unlock()

	// the ticker goroutine and the read loop share the connection
	var writeMu sync.Mutex
	writeUpdate := func(u *jUpdate) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(u)
	}

	// the long-press promotion is time based, so tick even without input
	// and push the new state when a tick changed it
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				s.Lock()
				wasMoving := s.Manip.Moving()
				s.Manip.Tick(now)
				var update *jUpdate
				if s.Manip.Moving() != wasMoving {
					update = stateUpdate(s)
				}
				s.Unlock()
				if update != nil {
					if err := writeUpdate(update); err != nil {
						return
					}
				}
			}
		}
	}()

	for {
		var ev jEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[web] ws read error: %v", err)
			}
			s.Lock()
			s.Manip.OnBlur()
			s.Unlock()
			return
		}
		s.Lock()
		dispatchEvent(s, ev)
		update := stateUpdate(s)
		s.Unlock()
		if err := writeUpdate(update); err != nil {
			log.Printf("[web] ws write error: %v", err)
			return
		}
	}
}

// domButton translates MouseEvent.button numbering (0 left, 1 middle,
// 2 right) into viewport buttons.
func domButton(b int) viewport.Button {
	switch b {
	case 0:
		return viewport.ButtonLeft
	case 1:
		return viewport.ButtonMiddle
	case 2:
		return viewport.ButtonRight
	default:
		return viewport.ButtonNone
	}
}

func dispatchEvent(s *session.Session, ev jEvent) {
	now := time.Now()
	switch ev.Type {
	case "camera":
		s.Viewport.SetCamera(viewport.Camera{
			Position: mgl32.Vec3(ev.Position),
			Target:   mgl32.Vec3(ev.Target),
			Up:       mgl32.Vec3(ev.Up),
			Fov:      ev.Fov,
			Aspect:   ev.Aspect,
		})

	case "pointerdown", "pointermove", "pointerup":
		pev := viewport.PointerEvent{
			NDC:    utils.ClampVec2(mgl32.Vec2{ev.X, ev.Y}, -1, 1),
			Button: domButton(ev.Button),
			Ctrl:   ev.Ctrl,
			Time:   now,
		}
		switch ev.Type {
		case "pointerdown":
			s.Manip.OnPointerDown(pev)
		case "pointermove":
			s.Manip.OnPointerMove(pev)
		case "pointerup":
			s.Manip.OnPointerUp(pev)
		}

	case "key":
		kev := viewport.KeyEvent{Pressed: ev.Pressed, Time: now}
		switch ev.Key {
		case "Escape":
			kev.Key = viewport.KeyEscape
		case "Control", "Meta":
			kev.Key = viewport.KeyControl
		default:
			return
		}
		s.Manip.OnKey(kev)

	case "blur":
		s.Manip.OnBlur()

	default:
		// unknown events are dropped, never failed
	}
}

func stateUpdate(s *session.Session) *jUpdate {
	orbit, cursor := s.Viewport.State()

	up := &jUpdate{
		Type:   "state",
		Orbit:  orbit,
		Cursor: cursorNames[cursor],
		Box:    boxToJson(s.Manip.GetBox()),
		Moving: s.Manip.Moving(),
	}
	for _, ph := range s.Manip.Handles() {
		q := ph.Pose.Orientation
		up.Handles = append(up.Handles, jHandle{
			Kind:        int(ph.Handle.Kind),
			Position:    [3]float32(ph.Pose.Position),
			Orientation: [4]float32{q.X(), q.Y(), q.Z(), q.W},
			Visible:     ph.Visible,
		})
	}
	if p := s.Manip.Preview(); p != nil {
		up.Inside = p.InsideCount() + p.BoundaryCount()
		up.Outside = p.OutsideCount()
		up.Boundary = p.BoundaryCount()
	}
	return up
}
