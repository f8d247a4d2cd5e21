// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/0xcro3dile/phtqa/internal/adapters/markup"
	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/usecases"
)

const defaultHistoryLimit = 20

// Server is the HTTP server for the QA API.
type Server struct {
	query  *usecases.QueryUseCase
	intent *usecases.IntentUseCase
	ingest *usecases.IngestUseCase
	markup *markup.Converter
	addr   string
	logger *slog.Logger
	router chi.Router
}

// NewServer creates a new HTTP server. ingest may be nil, which disables /api/reload.
func NewServer(
	queryUC *usecases.QueryUseCase,
	intentUC *usecases.IntentUseCase,
	ingestUC *usecases.IngestUseCase,
	conv *markup.Converter,
	addr string,
	logger *slog.Logger,
) *Server {
	if conv == nil {
		conv = markup.NewConverter()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		query:  queryUC,
		intent: intentUC,
		ingest: ingestUC,
		markup: conv,
		addr:   addr,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/lookup", s.handleLookup)
		r.Post("/ask", s.handleAsk)
		r.Post("/intent", s.handleIntent)
		r.Get("/history", s.handleHistory)
		r.Post("/reload", s.handleReload)
	})
	s.router = r
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // extractor calls can be slow
	}

	s.logger.Info("phtqa server starting", "addr", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("server shutdown", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type lookupRequest struct {
	Keyword   string `json:"keyword"`
	Highlight *bool  `json:"highlight"`
	Dataset   string `json:"dataset"`
}

type renderedJSON struct {
	Found    bool   `json:"found"`
	Response string `json:"response"`
	Context  string `json:"context,omitempty"`
}

type totalJSON struct {
	Region string `json:"region,omitempty"`
	Rows   int    `json:"rows"`
	DMN    string `json:"dmn"`
	TML    string `json:"tml"`
}

type generationJSON struct {
	Found    bool        `json:"found"`
	Title    string      `json:"title,omitempty"`
	Mode     string      `json:"mode,omitempty"`
	HTML     string      `json:"html,omitempty"`
	Markdown string      `json:"markdown,omitempty"`
	Regions  []totalJSON `json:"regions,omitempty"`
	Total    *totalJSON  `json:"total,omitempty"`
}

type lookupResponse struct {
	Keyword    string          `json:"keyword"`
	Matches    int             `json:"matches"`
	Asset      *renderedJSON   `json:"asset,omitempty"`
	Mitigation *renderedJSON   `json:"mitigation,omitempty"`
	Generation *generationJSON `json:"generation,omitempty"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kinds, err := usecases.ParseDatasetFilter(req.Dataset)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.query.Lookup(r.Context(), req.Keyword)
	if err != nil {
		s.writeUseCaseError(w, err)
		return
	}
	highlight := req.Highlight == nil || *req.Highlight

	out := lookupResponse{Keyword: res.Keyword, Matches: res.Matches()}
	for _, kind := range kinds {
		switch kind {
		case entities.Asset:
			out.Asset = s.rendered(res.Asset, highlight)
		case entities.Mitigation:
			out.Mitigation = s.rendered(res.Mitigation, highlight)
		case entities.Generation:
			gen, err := s.generation(res.Generation, highlight)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			out.Generation = gen
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) rendered(r entities.Rendered, highlight bool) *renderedJSON {
	out := &renderedJSON{Found: r.Found, Response: r.Response, Context: r.Context}
	if !highlight {
		out.Response = s.markup.Strip(r.Response)
	}
	return out
}

func (s *Server) generation(v entities.GenerationView, highlight bool) (*generationJSON, error) {
	out := &generationJSON{Found: v.Found, Title: v.Title, Mode: v.Mode}
	if highlight {
		out.HTML = v.HTML
	} else {
		md, err := s.markup.Markdown(v.HTML)
		if err != nil {
			return nil, err
		}
		out.Markdown = md
	}
	if !v.Found {
		return out, nil
	}
	for _, rt := range v.Regions {
		out.Regions = append(out.Regions, toTotalJSON(rt))
	}
	total := toTotalJSON(v.Total)
	out.Total = &total
	return out, nil
}

func toTotalJSON(t entities.RegionTotal) totalJSON {
	return totalJSON{Region: t.Region, Rows: t.Rows, DMN: t.DMN.StringFixed(2), TML: t.TML.StringFixed(2)}
}

type askRequest struct {
	Keyword  string `json:"keyword"`
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.query.Ask(r.Context(), req.Keyword, req.Question)
	if err != nil {
		s.writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"answer":  res.Answer,
		"context": res.Context,
	})
}

type intentRequest struct {
	Question    string `json:"question"`
	Region      string `json:"region"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply := s.intent.Handle(req.Question, usecases.IntentParams{
		Region:      req.Region,
		Origin:      req.Origin,
		Destination: req.Destination,
	})
	s.query.RecordIntent(r.Context(), req.Question, reply)
	writeJSON(w, http.StatusOK, map[string]any{
		"intent":      reply.Intent.String(),
		"text":        reply.Text,
		"needs_input": reply.NeedsInput,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	records, err := s.query.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []entities.QueryRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		writeError(w, http.StatusNotImplemented, errors.New("reload is not enabled"))
		return
	}
	if err := s.ingest.Load(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecases.ErrEmptyKeyword):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
