// Package devserver is an in-memory notes service speaking the same HTTP
// contract the client expects. It backs `notepad devserver` for local runs
// and the HTTP tests. Notes live in memory unless a Store is attached.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"notepad/internal/logging"
	"notepad/internal/types"
)

type Server struct {
	mu       sync.Mutex
	notes    []types.Note
	failures map[string][]int
	newID    func() string
	logger   logging.Logger
	store    Store
}

type Option func(*Server)

func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the uuid-based id source.
func WithIDGenerator(next func() string) Option {
	return func(s *Server) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithStore writes every change through to store. Call Restore to load
// what it already holds.
func WithStore(store Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		notes:    []types.Note{},
		failures: map[string][]int{},
		newID:    uuid.NewString,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the stored notes. Order is kept as given.
func (s *Server) Seed(notes ...types.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]types.Note{}, notes...)
}

// Restore replaces the served notes with the attached store's contents.
func (s *Server) Restore() error {
	if s.store == nil {
		return nil
	}
	loaded, err := s.store.Load()
	if err != nil {
		return err
	}
	s.Seed(loaded...)
	s.logger.Info("notes restored", logging.F("count", len(loaded)))
	return nil
}

func (s *Server) Notes() []types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Note{}, s.notes...)
}

// FailNext makes the next request with the given method answer with status
// instead of being served. Calls queue up per method.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	method = strings.ToUpper(strings.TrimSpace(method))
	s.failures[method] = append(s.failures[method], status)
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/notes").HandlerFunc(s.listNotes)
	r.Methods(http.MethodPost).Path("/notes").HandlerFunc(s.createNote)
	r.Methods(http.MethodPut).Path("/notes/{id}").HandlerFunc(s.updateNote)
	r.Methods(http.MethodDelete).Path("/notes/{id}").HandlerFunc(s.deleteNote)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	// Every request is logged, including 404 and 405 answers.
	return s.accessLog(s.injectFailures(r))
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devserver listening", logging.F("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Notes())
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var fields types.NoteFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	s.mu.Lock()
	note := types.Note{ID: types.NoteID(s.newID()), Title: fields.Title, Content: fields.Content}
	err := s.commitLocked(append([]types.Note{note}, s.notes...))
	s.mu.Unlock()
	if err != nil {
		s.persistFailed(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id := types.NoteID(mux.Vars(r)["id"])
	var fields types.NoteFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	note := types.Note{ID: id, Title: fields.Title, Content: fields.Content}
	next := append([]types.Note{}, s.notes...)
	next[index] = note
	err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		s.persistFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id := types.NoteID(mux.Vars(r)["id"])
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	next := append(append([]types.Note{}, s.notes[:index]...), s.notes[index+1:]...)
	err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		s.persistFailed(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// commitLocked saves next to the store before it becomes visible, so a
// failed write leaves the served notes unchanged.
func (s *Server) commitLocked(next []types.Note) error {
	if s.store != nil {
		if err := s.store.Save(next); err != nil {
			return err
		}
	}
	s.notes = next
	return nil
}

func (s *Server) persistFailed(w http.ResponseWriter, err error) {
	s.logger.Error("persist notes failed", logging.Err(err))
	writeError(w, http.StatusInternalServerError, "persist failed")
}

func (s *Server) indexLocked(id types.NoteID) int {
	for i, note := range s.notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		queue := s.failures[r.Method]
		status := 0
		if len(queue) > 0 {
			status = queue[0]
			s.failures[r.Method] = queue[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("http_request",
			logging.F("request_id", r.Header.Get("X-Request-ID")),
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F("status", m.Code),
			logging.F("bytes", m.Written),
			logging.F("duration", m.Duration),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
