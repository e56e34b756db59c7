package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/cloud_slicer/cloud/pcd"
	"github.com/mogaika/cloud_slicer/session"
	"github.com/mogaika/cloud_slicer/status"
	"github.com/mogaika/cloud_slicer/trim"
	"github.com/mogaika/cloud_slicer/utils"
	"github.com/mogaika/cloud_slicer/webutils"
)

func sessionFromRequest(r *http.Request) (*session.Session, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return nil, errors.Wrapf(err, "Bad session id %q", mux.Vars(r)["id"])
	}
	return Sessions.Get(id)
}

type jSessionInfo struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

func HandlerSessions(w http.ResponseWriter, r *http.Request) {
	list := Sessions.List()
	out := make([]jSessionInfo, 0, len(list))
	for _, s := range list {
		out = append(out, jSessionInfo{
			Id:     s.ID.String(),
			Name:   s.Name,
			Points: s.Cloud.Count(),
		})
	}
	webutils.WriteJson(w, out)
}

type jBox struct {
	Center      [3]float32 `json:"center"`
	HalfExtents [3]float32 `json:"halfExtents"`
	Yaw         float32    `json:"yaw"`
}

func boxToJson(b *trim.Box) *jBox {
	if b == nil {
		return nil
	}
	return &jBox{Center: [3]float32(b.Center), HalfExtents: [3]float32(b.HalfExtents), Yaw: b.Yaw}
}

type jSessionState struct {
	jSessionInfo
	Box      *jBox   `json:"box"`
	Moving   bool    `json:"moving"`
	Inside   int     `json:"inside"`
	Outside  int     `json:"outside"`
	Boundary int     `json:"boundary"`
	Band     float32 `json:"band"`
}

func sessionState(s *session.Session) *jSessionState {
	st := &jSessionState{
		jSessionInfo: jSessionInfo{Id: s.ID.String(), Name: s.Name, Points: s.Cloud.Count()},
		Box:          boxToJson(s.Manip.GetBox()),
		Moving:       s.Manip.Moving(),
		Band:         s.Manip.BoundaryBand(),
	}
	if p := s.Manip.Preview(); p != nil {
		st.Inside = p.InsideCount() + p.BoundaryCount()
		st.Outside = p.OutsideCount()
		st.Boundary = p.BoundaryCount()
	}
	return st
}

func HandlerSessionState(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	webutils.WriteJson(w, sessionState(s))
}

func HandlerHandleAssets(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, HandleAssets)
}

type jCloud struct {
	Positions []float32 `json:"positions"`
	Colors    []float32 `json:"colors,omitempty"`
}

func HandlerSessionCloud(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	webutils.WriteJson(w, &jCloud{Positions: s.Cloud.Positions, Colors: s.Cloud.Colors})
}

func HandlerSessionShow(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	if err := s.Manip.Show(s.Cloud.Bounds()); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, sessionState(s))
}

func HandlerSessionHide(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	s.Manip.Hide()
	webutils.WriteJson(w, sessionState(s))
}

func HandlerSessionCommit(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	stats, err := s.Manip.Commit()
	if err != nil {
		if errors.Cause(err) == trim.ErrEmptySelection {
			status.Info("Nothing to trim in %q, box left as is", s.Name)
		} else {
			status.Error("Commit failed in %q: %v", s.Name, err)
		}
		webutils.WriteError(w, err)
		return
	}
	status.Info("Committed trim in %q: kept %v, removed %v", s.Name, stats.InsideCount, stats.OutsideCount)
	webutils.WriteJson(w, stats)
}

func HandlerSessionBand(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	v, err := strconv.ParseFloat(mux.Vars(r)["value"], 32)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Bad band value"))
		return
	}
	s.Manip.SetBoundaryBand(float32(v))
	webutils.WriteJson(w, sessionState(s))
}

func HandlerSessionClose(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	Sessions.Close(s.ID)
	webutils.WriteJson(w, true)
}

func HandlerUploadSession(w http.ResponseWriter, r *http.Request) {
	f, name, err := webutils.ReadFormFile(r, "pcd")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer f.Close()

	status.Progress(0.5, "Decoding %q", name)
	pc, err := pcd.Decode(f)
	if err != nil {
		status.Error("Failed to decode %q: %v", name, err)
		webutils.WriteError(w, errors.Wrapf(err, "Failed to decode %q", name))
		return
	}
	s := Sessions.Create(name, pc)
	status.Info("Loaded %q: %v points", name, pc.Count())
	webutils.WriteJson(w, sessionState(s))
}

// HandlerDumpSession downloads the session's current cloud as an ascii
// pcd file.
func HandlerDumpSession(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	var buf bytes.Buffer
	if err := pcd.Encode(&buf, s.Cloud); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, s.Name+".pcd")
}

func HandlerDebugSession(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	w.Header().Set("Content-Type", "text/plain")
	webutils.WriteResult(w, []byte(utils.SDump(sessionState(s), s.Manip.Handles())))
}
