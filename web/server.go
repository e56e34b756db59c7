package web

import (
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/cloud_slicer/arrows"
	"github.com/mogaika/cloud_slicer/session"
	"github.com/mogaika/cloud_slicer/status"
)

var Sessions *session.Manager
var HandleAssets *arrows.Set

func StartServer(addr string, mgr *session.Manager, assets *arrows.Set, webPath string) error {
	Sessions = mgr
	HandleAssets = assets

	r := mux.NewRouter()
	r.HandleFunc("/json/sessions", HandlerSessions)
	r.HandleFunc("/json/session/{id}", HandlerSessionState)
	r.HandleFunc("/json/assets/handles", HandlerHandleAssets)
	r.HandleFunc("/json/session/{id}/cloud", HandlerSessionCloud)
	r.HandleFunc("/action/session/{id}/show", HandlerSessionShow)
	r.HandleFunc("/action/session/{id}/hide", HandlerSessionHide)
	r.HandleFunc("/action/session/{id}/commit", HandlerSessionCommit)
	r.HandleFunc("/action/session/{id}/band/{value}", HandlerSessionBand)
	r.HandleFunc("/action/session/{id}/close", HandlerSessionClose)
	r.HandleFunc("/upload/session", HandlerUploadSession)
	r.HandleFunc("/dump/session/{id}", HandlerDumpSession)
	r.HandleFunc("/debug/session/{id}", HandlerDebugSession)
	r.HandleFunc("/ws/session/{id}", HandlerSessionEvents)
	r.HandleFunc("/ws/status", status.Handler)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
