// Package server exposes the lookup over HTTP so other tools can query the
// portal through one authenticated browser session.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"voterlookup/records"
	"voterlookup/session"
)

// Searcher is the lookup surface the handlers call. The browser driver
// implements it; tests substitute a stub.
type Searcher interface {
	SearchOne(name string, f session.Filters) ([]records.Summary, error)
}

// Server wraps one Searcher behind a mux router. Searches are serialized:
// the underlying browser session drives a single form.
type Server struct {
	searcher Searcher
	log      *zap.Logger
	mu       sync.Mutex
}

func New(searcher Searcher, log *zap.Logger) *Server {
	return &Server{searcher: searcher, log: log}
}

// Handler builds the routed, request-logged handler chain.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/search/{name}", s.SearchHandler).Methods("GET")
	router.HandleFunc("/healthz", s.HealthHandler).Methods("GET")
	return handlers.CombinedLoggingHandler(os.Stdout, router)
}

// SearchHandler runs one lookup. Filters arrive as query parameters:
// address, city, zip, phone, voter_id.
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]
	if name == "" {
		http.Error(w, "Name parameter is required", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	filters := session.Filters{
		Address: q.Get("address"),
		City:    q.Get("city"),
		Zip:     q.Get("zip"),
		Phone:   q.Get("phone"),
		VoterID: q.Get("voter_id"),
	}

	s.mu.Lock()
	results, err := s.searcher.SearchOne(name, filters)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("search failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "Error searching records", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []records.Summary{}
	}

	jsonData, err := json.MarshalIndent(map[string][]records.Summary{name: results}, "", "    ")
	if err != nil {
		http.Error(w, "Error marshaling to JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
