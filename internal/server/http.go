// Package server exposes the explanation pipeline over HTTP.
//
// The API surface mirrors what downstream UIs need: a parse endpoint, a
// file-upload variant, a health check, and CRUD over saved searches when
// a store is configured.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/valyala/fastjson"

	"github.com/roach88/querylens/internal/astjson"
	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/store"
)

// maxBodyBytes bounds request bodies; queries are short strings.
const maxBodyBytes = 1 << 20

// Server serves the querylens HTTP API.
type Server struct {
	parser   *explain.Parser
	searches *store.Store // nil when persistence is disabled
	logger   *slog.Logger
	version  string
	srv      *http.Server
	bodyPool fastjson.ParserPool
}

// New creates a Server. searches may be nil, which disables the
// saved-search endpoints.
func New(parser *explain.Parser, searches *store.Store, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		parser:   parser,
		searches: searches,
		logger:   logger,
		version:  version,
	}
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/v1/parse", s.handleParse)
	mux.HandleFunc("/api/v1/parse-file", s.handleParseFile)
	mux.HandleFunc("/api/v1/searches", s.handleSearches)
	mux.HandleFunc("/api/v1/searches/", s.handleSearchItem)
	return mux
}

// Start runs the HTTP server until Shutdown or listen failure.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	s.logger.Info("http server listening", "addr", addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// handleParse explains one query: {"query": "..."} in, QueryResult out.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	p := s.bodyPool.Get()
	defer s.bodyPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	query := string(v.GetStringBytes("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing or empty \"query\" field")
		return
	}

	s.respondWithResult(w, query)
}

// handleParseFile explains a query uploaded as a UTF-8 text file.
func (s *Server) handleParseFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing \"file\" upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	if !utf8.Valid(content) {
		writeError(w, http.StatusBadRequest, "file must be UTF-8 encoded text")
		return
	}

	query := strings.TrimSpace(string(content))
	if query == "" {
		writeError(w, http.StatusBadRequest, "file is empty or contains only whitespace")
		return
	}

	s.respondWithResult(w, query)
}

// respondWithResult runs the pipeline and writes the bundle or an error.
func (s *Server) respondWithResult(w http.ResponseWriter, query string) {
	result, err := s.parser.Parse(query)
	if err != nil {
		var synErr *explain.SyntaxError
		if errors.As(err, &synErr) {
			writeError(w, http.StatusBadRequest, synErr.Error())
			return
		}
		s.logger.Error("parse failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSearches serves GET (list) and POST (create) on the collection.
func (s *Server) handleSearches(w http.ResponseWriter, r *http.Request) {
	if s.searches == nil {
		writeError(w, http.StatusNotFound, "saved searches are disabled")
		return
	}

	switch r.Method {
	case http.MethodGet:
		searches, err := s.searches.List(r.Context())
		if err != nil {
			s.logger.Error("list searches failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, searches)

	case http.MethodPost:
		s.handleCreateSearch(w, r)

	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

func (s *Server) handleCreateSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	p := s.bodyPool.Get()
	defer s.bodyPool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	query := string(v.GetStringBytes("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing or empty \"query\" field")
		return
	}
	name := string(v.GetStringBytes("name"))
	if name == "" {
		name = query
	}

	result, err := s.parser.Parse(query)
	if err != nil {
		var synErr *explain.SyntaxError
		if errors.As(err, &synErr) {
			writeError(w, http.StatusBadRequest, synErr.Error())
			return
		}
		s.logger.Error("parse failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	canonical, err := astjson.MarshalCanonical(result.ASTJSON)
	if err != nil {
		s.logger.Error("canonical encoding failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	saved := &store.SavedSearch{
		Name:              name,
		Query:             result.Query,
		DeterministicText: result.DeterministicText,
		NarrativeText:     result.NarrativeText,
		ASTJSON:           string(canonical),
	}
	if err := s.searches.Save(r.Context(), saved); err != nil {
		s.logger.Error("save search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("saved search created", "id", saved.ID, "name", saved.Name)
	writeJSON(w, http.StatusCreated, saved)
}

// handleSearchItem serves GET and DELETE on one saved search.
func (s *Server) handleSearchItem(w http.ResponseWriter, r *http.Request) {
	if s.searches == nil {
		writeError(w, http.StatusNotFound, "saved searches are disabled")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/searches/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		search, err := s.searches.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no saved search with id %q", id))
			return
		}
		if err != nil {
			s.logger.Error("get search failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, search)

	case http.MethodDelete:
		err := s.searches.Delete(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no saved search with id %q", id))
			return
		}
		if err != nil {
			s.logger.Error("delete search failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or DELETE required")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
