// Package api exposes the simulation engine over HTTP as a JSON API for
// external chart and control layers.
package api

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rewired-gh/skyhook-sim/internal/config"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

// maxEntities bounds a single exposure request
const maxEntities = 1_000_000

// maxWindows bounds the windows one exposure request may open
// (entities times recurrences per entity)
const maxWindows = 50_000_000

// maxTrials bounds a single reachability request
const maxTrials = 1_000_000

// Server serves simulation requests. Request bodies override the
// configured defaults field by field.
type Server struct {
	cfg   *config.Config
	graph *universe.Graph // nil when no universe is loaded
}

// NewServer creates a server. graph may be nil, in which case reachability
// requests with a non-zero count fail with 503.
func NewServer(cfg *config.Config, graph *universe.Graph) *Server {
	return &Server{cfg: cfg, graph: graph}
}

// NewRouter registers every route on a fresh router
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/api/universe", s.universeInfo).Methods("GET")
	r.HandleFunc("/api/exposure", s.exposure).Methods("POST")
	r.HandleFunc("/api/daily", s.daily).Methods("POST")
	r.HandleFunc("/api/reachability", s.reachability).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Handler wraps the router with panic recovery, CORS for browser UIs, and
// Apache-style access logging to out.
func (s *Server) Handler(out io.Writer) http.Handler {
	var h http.Handler = s.NewRouter()
	h = handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler()(h)
	return handlers.LoggingHandler(out, h)
}
