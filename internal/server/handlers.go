package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/unkn0wn-root/worldcache"
)

//go:embed templates/fortunes.html
var templatesFS embed.FS

var fortunesTmpl = template.Must(template.ParseFS(templatesFS, "templates/fortunes.html"))

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

type message struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "ready"
	if !s.b.Ready() {
		status = http.StatusServiceUnavailable
		state = "warming"
	}
	s.writeJSON(w, status, map[string]string{"status": state})
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, message{Message: "Hello, World!"})
}

func (s *Server) handlePlaintext(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeText)
	_, _ = w.Write([]byte("Hello, World!"))
}

func (s *Server) handleDB(w http.ResponseWriter, r *http.Request) {
	world, err := s.b.RandomWorld(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, world)
}

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	worlds, err := s.b.QueryBatch(r.Context(), queriesParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, worlds)
}

func (s *Server) handleCachedQueries(w http.ResponseWriter, r *http.Request) {
	worlds, err := s.b.ReadBatch(r.Context(), queriesParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, worlds)
}

func (s *Server) handleCachedWorld(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, worldcache.ErrInvalidID)
		return
	}
	world, err := s.b.Read(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, world)
}

func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	worlds, err := s.b.MutateBatch(r.Context(), queriesParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, worlds)
}

func (s *Server) handleFortunes(w http.ResponseWriter, r *http.Request) {
	fortunes, err := s.b.Fortunes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := fortunesTmpl.Execute(w, fortunes); err != nil {
		s.log.Error("render fortunes", worldcache.Fields{"err": err})
	}
}

// queriesParam parses ?queries=; absent or non-numeric counts as 1.
func queriesParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("queries"))
	if err != nil {
		n = worldcache.MinQueries
	}
	return worldcache.ClampQueries(n)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encode response", worldcache.Fields{"err": err})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", worldcache.Fields{"path": r.URL.Path, "status": status, "err": err})
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, worldcache.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, worldcache.ErrNotWarmed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
