package server

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindw/pipshow/pkg/buildinfo"
	"github.com/mindw/pipshow/pkg/errors"
	"github.com/mindw/pipshow/pkg/inspect"
)

type listEntry struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Location string `json:"location"`
}

type listResponse struct {
	ID          string      `json:"id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Count       int         `json:"count"`
	Packages    []listEntry `json:"packages"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	idx, _, err := s.cfg.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}

	packages := make([]listEntry, 0, idx.Len())
	for _, p := range idx.Packages() {
		packages = append(packages, listEntry{Name: p.Name, Version: p.Version, Location: p.Location})
	}
	slices.SortFunc(packages, func(a, b listEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})

	writeJSON(w, http.StatusOK, listResponse{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Count:       len(packages),
		Packages:    packages,
	})
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidatePythonPackageName(name); err != nil {
		s.writeError(w, err)
		return
	}

	idx, src, err := s.cfg.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := inspect.SearchOptions{
		Metadata: src,
		Files:    boolParam(r, "files"),
		Logf:     s.logf(r),
	}
	if boolParam(r, "latest") {
		opts.Latest = s.cfg.Latest
	}

	reports, missing := inspect.Search(r.Context(), []string{name}, idx, opts)
	for report := range reports {
		writeJSON(w, http.StatusOK, report)
		return
	}
	if len(missing) > 0 {
		s.writeError(w, errors.New(errors.ErrCodePackageNotFound, "package not found: %s", missing[0]))
		return
	}
	// The context died between resolution and assembly.
	s.writeError(w, errors.Wrap(errors.ErrCodeInternal, r.Context().Err(), "report assembly interrupted"))
}

func (s *Server) logf(r *http.Request) func(format string, args ...any) {
	logger := s.cfg.Logger.With("request_id", r.Context().Value(requestIDKey))
	return func(format string, args ...any) {
		logger.Warnf(format, args...)
	}
}

func boolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodePackageNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPackage:
		return http.StatusBadRequest
	case errors.ErrCodeNoEnvironment:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
