package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KacperZiemski-fixtra/company-news-api/internal/model"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/pipeline"
	"github.com/KacperZiemski-fixtra/company-news-api/internal/store"
)

// Runner executes one curation pass.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) *pipeline.Result
}

// Store persists and serves curated article sets.
type Store interface {
	ReplaceArticles(ctx context.Context, company, website, industry string, articles []model.Summary) error
	LatestArticles(ctx context.Context, company, industry string, limit int) ([]model.Summary, time.Time, error)
}

// Server exposes the curation pipeline over HTTP.
type Server struct {
	runner Runner
	store  Store
	limit  int
	logger *slog.Logger
}

func NewServer(runner Runner, store Store, limit int, logger *slog.Logger) *Server {
	return &Server{runner: runner, store: store, limit: limit, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	r.HandleFunc("/api/news/find", s.handleFind).Methods("POST")
	r.HandleFunc("/api/news", s.handleGet).Methods("GET")
	return r
}

type findRequest struct {
	CompanyName      string `json:"CompanyName"`
	CompanyWebsite   string `json:"CompanyWebsite"`
	SearchedIndustry string `json:"SearchedIndustry"`
}

// handleFind runs the pipeline for a company and replaces its stored
// articles. A run that finds nothing is a valid, empty answer.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.CompanyName == "" || req.SearchedIndustry == "" {
		writeError(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	result := s.runner.Run(r.Context(), pipeline.Request{
		Company:  req.CompanyName,
		Website:  req.CompanyWebsite,
		Industry: req.SearchedIndustry,
	})
	articles := summariesOf(result)

	if s.store != nil {
		err := s.store.ReplaceArticles(r.Context(), req.CompanyName, req.CompanyWebsite, req.SearchedIndustry, articles)
		if err != nil {
			s.logger.Error("persisting articles failed", "company", req.CompanyName, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to store articles")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// handleGet serves the stored article set for a company/industry pairing.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("CompanyName")
	industry := r.URL.Query().Get("SearchedIndustry")
	if company == "" || industry == "" {
		writeError(w, http.StatusBadRequest, "Missing parameters")
		return
	}

	articles, lastUpdated, err := s.store.LatestArticles(r.Context(), company, industry, s.limit)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("loading articles failed", "company", company, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load articles")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"articles":     articles,
		"last_updated": lastUpdated.UTC().Format(time.RFC3339),
	})
}

// summariesOf prefers the LLM summaries and degrades to bare entries built
// from the ranked candidates only when summarization is disabled. A non-nil
// empty summary set means every candidate failed summarization and the
// output stays empty.
func summariesOf(result *pipeline.Result) []model.Summary {
	if result.Summaries != nil {
		return result.Summaries
	}
	articles := make([]model.Summary, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		date := c.RawDate
		if !c.PublishedAt.IsZero() {
			date = c.PublishedAt.Format("2006-01-02")
		}
		articles = append(articles, model.Summary{
			Title:           c.Title,
			URL:             c.URL,
			PublicationDate: date,
		})
	}
	return articles
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
