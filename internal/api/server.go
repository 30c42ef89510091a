package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/beyond-expertise/backend/internal/catalog"
	"github.com/beyond-expertise/backend/internal/engine"
	"github.com/beyond-expertise/backend/internal/filter"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/search", s.logged(s.handleSearch))
	s.Router.HandleFunc("/api/v1/match", s.logged(s.handleMatch))
	s.Router.HandleFunc("/api/v1/filter", s.logged(s.handleFilter))
	s.Router.HandleFunc("/api/v1/reload", s.logged(s.handleReload))
	s.Router.HandleFunc("/api/v1/status", s.logged(s.handleStatus))
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// logged tags each request with an id and logs its duration.
func (s *Server) logged(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		h(w, r)
		s.Logger.WithFields(logrus.Fields{
			"request_id": uuid.NewString(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(started).String(),
		}).Info("Request handled")
	}
}

// Responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query    string       `json:"query"`
	Internal []ScoredView `json:"internal"`
	RNCP     []ScoredView `json:"rncp"`
}

type MatchResponse struct {
	Results []ScoredView `json:"results"`
}

type FilterResponse struct {
	Results []CourseView `json:"results"`
}

// Handlers

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}
	k := s.Engine.Config.Index.SearchTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		if parsed, ok := parsePositive(raw); ok {
			k = parsed
		} else {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Parameter 'k' must be a positive integer"})
			return
		}
	}

	hits, err := s.Engine.Search(query, k)
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	// Internal results are presented first by convention.
	response := SearchResponse{Query: query, Internal: []ScoredView{}, RNCP: []ScoredView{}}
	for _, hit := range hits {
		view := ScoredView{Course: newCourseView(hit.Course), Score: hit.Score}
		if hit.Course.Source == catalog.SourceInternal {
			response.Internal = append(response.Internal, view)
		} else {
			response.RNCP = append(response.RNCP, view)
		}
	}
	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Objective string `json:"objective"`
		Knowledge string `json:"knowledge"`
		Level     string `json:"level"`
		MinScore  *int   `json:"min_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}
	if req.Objective == "" && req.Knowledge == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Objective or knowledge is required"})
		return
	}
	minScore := s.Engine.Config.Match.MinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	scored := s.Engine.MatchProfile(req.Objective, req.Knowledge, req.Level, minScore)
	response := MatchResponse{Results: []ScoredView{}}
	for _, sc := range scored {
		response.Results = append(response.Results, ScoredView{
			Course: newCourseView(sc.Course),
			Score:  float64(sc.Score),
		})
	}
	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Certifying      *bool    `json:"certifying"`
		Modalities      []string `json:"modalities"`
		Level           string   `json:"level"`
		MaxDurationDays int      `json:"max_duration_days"`
		PriceMin        *float64 `json:"price_min"`
		PriceMax        *float64 `json:"price_max"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	criteria := filter.Criteria{
		Certifying:      req.Certifying,
		LevelContains:   req.Level,
		MaxDurationDays: req.MaxDurationDays,
		PriceMin:        req.PriceMin,
		PriceMax:        req.PriceMax,
	}
	for _, raw := range req.Modalities {
		mod, ok := filter.ParseModality(raw)
		if !ok {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown modality: " + raw})
			return
		}
		criteria.Modalities = append(criteria.Modalities, mod)
	}

	courses := s.Engine.Filter(criteria)
	response := FilterResponse{Results: []CourseView{}}
	for _, course := range courses {
		response.Results = append(response.Results, newCourseView(course))
	}
	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	force := r.URL.Query().Get("force") == "true"
	if err := s.Engine.Reload(force); err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	jsonResponse(w, http.StatusOK, s.Engine.Stats())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, http.StatusOK, s.Engine.Stats())
}

func parsePositive(raw string) (int, bool) {
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
