package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clubpulse/internal/domain"
	"github.com/clubpulse/internal/service"
	"github.com/clubpulse/internal/websocket"
)

// Handler provides HTTP handlers for the club API
type Handler struct {
	service *service.ClubService
	hub     *websocket.Hub
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *service.ClubService, hub *websocket.Hub, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// WebSocket endpoint
	r.Get("/ws", h.HandleWebSocket)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Post("/", h.CreateTeam)
			r.Get("/{teamID}", h.GetTeam)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Post("/", h.RegisterPlayer)
			r.Get("/{playerID}", h.GetPlayer)
		})

		r.Get("/practice-questions", h.ListQuestions)

		r.Route("/practices", func(r chi.Router) {
			r.Get("/", h.ListPractices)
			r.Post("/", h.SchedulePractice)

			r.Route("/{practiceID}", func(r chi.Router) {
				r.Get("/", h.GetPractice)
				r.Get("/responses", h.GetResponses)
				r.Post("/responses", h.SubmitResponse)
				r.Get("/summary", h.GetSummary)
				r.Post("/summary", h.RegenerateSummary)
			})
		})

		// WebSocket info endpoint
		r.Get("/ws/stats", h.GetWebSocketStats)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeCreated writes a 201 JSON response with the created record
func (h *Handler) writeCreated(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// respondError maps a service error to a status code. Unclassified errors
// (storage failures included) become a generic 500 with the cause logged.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidationError(err):
		h.writeError(w, http.StatusBadRequest, err)
	case domain.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrTeamMismatch):
		h.writeError(w, http.StatusForbidden, err)
	case domain.IsConflictError(err):
		h.writeError(w, http.StatusConflict, err)
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// GetWebSocketStats returns WebSocket connection statistics
func (h *Handler) GetWebSocketStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]interface{}{
		"total_connections": h.hub.GetTotalConnections(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

// ListTeams returns all teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.Teams(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, teams)
}

// CreateTeam handles team creation
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	team, err := h.service.CreateTeam(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeCreated(w, team)
}

// GetTeam returns a team by id
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.service.Team(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, team)
}

// ListPlayers returns players, optionally filtered by the teamId query param
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.Players(r.Context(), r.URL.Query().Get("teamId"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, players)
}

// RegisterPlayer handles player registration
func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	player, err := h.service.RegisterPlayer(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeCreated(w, player)
}

// GetPlayer returns a player by id
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.service.Player(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, player)
}

// ListPractices returns practices, optionally filtered by the teamId query param
func (h *Handler) ListPractices(w http.ResponseWriter, r *http.Request) {
	practices, err := h.service.Practices(r.Context(), r.URL.Query().Get("teamId"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, practices)
}

// SchedulePractice handles practice creation
func (h *Handler) SchedulePractice(w http.ResponseWriter, r *http.Request) {
	var req domain.SchedulePracticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	practice, err := h.service.SchedulePractice(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeCreated(w, practice)
}

// GetPractice returns a practice by id
func (h *Handler) GetPractice(w http.ResponseWriter, r *http.Request) {
	practice, err := h.service.Practice(r.Context(), chi.URLParam(r, "practiceID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, practice)
}

// ListQuestions returns the feedback question catalog
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, questions)
}

// GetResponses returns a practice together with all submitted responses
func (h *Handler) GetResponses(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.service.PracticeFeedback(r.Context(), chi.URLParam(r, "practiceID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, feedback)
}

// SubmitResponse handles feedback submission for a practice
func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	response, err := h.service.SubmitResponse(r.Context(), chi.URLParam(r, "practiceID"), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeCreated(w, response)
}

// GetSummary returns the practice summary, generating and caching it on
// first access
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "practiceID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, summary)
}

// RegenerateSummary rebuilds the practice summary from current responses
func (h *Handler) RegenerateSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RegenerateSummary(r.Context(), chi.URLParam(r, "practiceID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeSuccess(w, summary)
}
