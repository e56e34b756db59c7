package web

import (
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/cloud_slicer/cloud"
	"github.com/mogaika/cloud_slicer/session"
	"github.com/mogaika/cloud_slicer/viewport"
)

func eventsTestSession(t *testing.T) (*session.Session, *httptest.Server) {
	t.Helper()
	Sessions = session.NewManager()
	s := Sessions.Create("events-test", cloud.New([]float32{0, 0, 0}, nil))

	r := mux.NewRouter()
	r.HandleFunc("/ws/session/{id}", HandlerSessionEvents)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return s, srv
}

func dialEvents(t *testing.T, srv *httptest.Server, s *session.Session) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session/" + s.ID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func projectNDC(cam viewport.Camera, p mgl32.Vec3) mgl32.Vec2 {
	d := p.Sub(cam.Position).Normalize()
	fw := d.Dot(cam.Forward())
	tanFov := float32(math.Tan(float64(cam.Fov) / 2))
	return mgl32.Vec2{
		d.Dot(cam.Right()) / (fw * tanFov * cam.Aspect),
		d.Dot(cam.UpOrtho()) / (fw * tanFov),
	}
}

// A held face press is promoted to a free box move by the ticker, not by
// a client event, so the client must still receive the new state. An
// abrupt disconnect mid-move must release the box.
func TestSessionEventsLongPressAndDisconnect(t *testing.T) {
	s, srv := eventsTestSession(t)
	conn := dialEvents(t, srv, s)
	defer conn.Close()

	cam := viewport.Camera{
		Position: mgl32.Vec3{0, 0, 10},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(60),
		Aspect:   1,
	}
	if err := conn.WriteJSON(jEvent{
		Type:     "camera",
		Position: [3]float32(cam.Position),
		Target:   [3]float32(cam.Target),
		Up:       [3]float32(cam.Up),
		Fov:      cam.Fov,
		Aspect:   cam.Aspect,
	}); err != nil {
		t.Fatal(err)
	}
	var up jUpdate
	if err := conn.ReadJSON(&up); err != nil {
		t.Fatal(err)
	}

	s.Lock()
	if err := s.Manip.Show(s.Cloud.Bounds()); err != nil {
		s.Unlock()
		t.Fatal(err)
	}
	box := *s.Manip.GetBox()
	s.Unlock()

	// press a bare spot of the near face and hold
	press := projectNDC(cam, box.Center.Add(mgl32.Vec3{0.5, 0.3, box.HalfExtents.Z()}))
	if err := conn.WriteJSON(jEvent{Type: "pointerdown", X: press.X(), Y: press.Y(), Button: 0}); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for !up.Moving {
		if err := conn.ReadJSON(&up); err != nil {
			t.Fatalf("no box-moving update pushed: %v", err)
		}
	}
	if up.Orbit {
		t.Error("orbit still enabled while the box is moving")
	}

	// drop the connection without releasing the pointer
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		s.Lock()
		moving := s.Manip.Moving()
		s.Unlock()
		if !moving {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("disconnect did not release the box move")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
