// Package httpapi serves generated fixtures over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zarlcorp/zpersona/internal/age"
	"github.com/zarlcorp/zpersona/internal/fixture"
	"github.com/zarlcorp/zpersona/internal/persona"
)

// MaxCount caps fixtures per request.
const MaxCount = 1000

// Server handles fixture requests.
type Server struct {
	gen fixture.Generator
	log *slog.Logger
}

// New creates a server generating with gen.
func New(gen fixture.Generator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{gen: gen, log: log}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Route("/v1/personas", func(r chi.Router) {
		r.Get("/", s.handlePersonas)
		r.Get("/username", s.handleUsername)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count, err := intParam(q.Get("count"), 1)
	if err != nil || count < 1 || count > MaxCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be 1..%d", MaxCount))
		return
	}

	src, err := source(q.Get("seed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen := s.gen
	if q.Has("min_age") || q.Has("max_age") {
		win := age.Adult
		if gen.Window != nil {
			win = *gen.Window
		}
		if win.Min, err = intParam(q.Get("min_age"), win.Min); err != nil {
			writeError(w, http.StatusBadRequest, "min_age must be an integer")
			return
		}
		if win.Max, err = intParam(q.Get("max_age"), win.Max); err != nil {
			writeError(w, http.StatusBadRequest, "max_age must be an integer")
			return
		}
		if err := win.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		gen.Window = &win
	}

	fixtures, err := gen.Batch(src, count)
	if err != nil {
		s.log.Error("generate personas", "err", err)
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	s.log.Debug("generated personas", "count", count, "seeded", q.Has("seed"))
	writeJSON(w, http.StatusOK, fixtures)
}

type usernameResponse struct {
	GivenName string   `json:"given_name"`
	Surname   string   `json:"surname"`
	Usernames []string `json:"usernames"`
}

func (s *Server) handleUsername(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id := persona.Identity{
		GivenName:  q.Get("given"),
		MiddleName: q.Get("middle"),
		Surname:    q.Get("surname"),
	}
	if id.GivenName == "" || id.Surname == "" {
		writeError(w, http.StatusBadRequest, "given and surname are required")
		return
	}

	if dob := q.Get("dob"); dob != "" {
		t, err := time.Parse(time.DateOnly, dob)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dob must be YYYY-MM-DD")
			return
		}
		id.DateOfBirth = t
	} else {
		id.DateOfBirth = s.gen.Composer.Now().UTC()
	}

	count, err := intParam(q.Get("count"), 1)
	if err != nil || count < 1 || count > MaxCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be 1..%d", MaxCount))
		return
	}

	src, err := source(q.Get("seed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, usernameResponse{
		GivenName: id.GivenName,
		Surname:   id.Surname,
		Usernames: s.gen.Usernames(src, id, count),
	})
}

// source returns a seeded source for a seed parameter, otherwise a
// crypto source. Each request gets its own.
func source(seed string) (persona.Source, error) {
	if seed == "" {
		return persona.CryptoSource{}, nil
	}
	n, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, errors.New("seed must be an unsigned integer")
	}
	return persona.NewSource(n), nil
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
