package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/wricardo/pong-client/game/config"
	"github.com/wricardo/pong-client/game/service"
	"github.com/wricardo/pong-client/game/session"
)

// ProfileStore reads and writes client profiles
type ProfileStore interface {
	ListProfiles() ([]*config.ProfileInfo, error)
	LoadProfile(name string) (*config.Profile, error)
	SaveProfile(name string, p *config.Profile) error
	GetDefault() *config.Profile
	SetDefault(name string) error
	RefreshCache() error
}

// Server represents the control API server
type Server struct {
	service  service.ClientService
	profiles ProfileStore
	router   *mux.Router
}

// NewServer creates a new API server. profiles may be nil.
func NewServer(clientService service.ClientService, profiles ProfileStore) *Server {
	s := &Server{
		service:  clientService,
		profiles: profiles,
		router:   mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/frame", s.handleGetFrame).Methods("GET")
	api.HandleFunc("/input", s.handleInput).Methods("POST")
	api.HandleFunc("/stats", s.handleGetStats).Methods("GET")

	// Profiles
	api.HandleFunc("/profiles", s.handleListProfiles).Methods("GET")
	api.HandleFunc("/profiles", s.handleSaveProfile).Methods("POST")
	api.HandleFunc("/profiles/default", s.handleGetDefaultProfile).Methods("GET")
	api.HandleFunc("/profiles/default", s.handleSetDefaultProfile).Methods("PUT")
	api.HandleFunc("/profiles/refresh", s.handleRefreshProfiles).Methods("POST")
	api.HandleFunc("/profiles/{name}", s.handleGetProfile).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Router exposes the router so callers can mount extra handlers.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownKey), errors.Is(err, service.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFrameUnavailable):
		return http.StatusConflict
	case errors.Is(err, session.ErrLoopStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.State(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := s.service.Frame(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		for _, op := range frame.Ops {
			w.Write([]byte(op.String() + "\n"))
		}
		return
	}

	respondJSON(w, http.StatusOK, frame)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key    string `json:"key"`
		Action string `json:"action"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}
	if req.Action == "" {
		req.Action = service.ActionPress
	}

	result, err := s.service.Input(r.Context(), req.Key, req.Action)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		respondJSON(w, http.StatusOK, []*config.ProfileInfo{})
		return
	}

	profiles, err := s.profiles.ListProfiles()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profiles == nil {
		profiles = []*config.ProfileInfo{}
	}

	respondJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		respondError(w, http.StatusNotFound, "profiles are not available")
		return
	}

	name := strings.TrimSuffix(mux.Vars(r)["name"], ".toml")
	p, err := s.profiles.LoadProfile(name)
	if err != nil {
		respondError(w, profileStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		respondError(w, http.StatusNotFound, "profiles are not available")
		return
	}

	var p config.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if p.Name == "" {
		respondError(w, http.StatusBadRequest, "Profile name is required")
		return
	}
	p.FillDefaults(config.MinimalProfile())

	if err := s.profiles.SaveProfile(p.Name, &p); err != nil {
		respondError(w, profileStatus(err), fmt.Sprintf("Failed to save profile: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Profile saved successfully",
		"profile_id": p.Name,
	})
}

func (s *Server) handleGetDefaultProfile(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		respondJSON(w, http.StatusOK, config.MinimalProfile())
		return
	}
	respondJSON(w, http.StatusOK, s.profiles.GetDefault())
}

func (s *Server) handleSetDefaultProfile(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		respondError(w, http.StatusNotFound, "profiles are not available")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.profiles.SetDefault(req.Name); err != nil {
		respondError(w, profileStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.profiles.GetDefault())
}

func (s *Server) handleRefreshProfiles(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		respondError(w, http.StatusNotFound, "profiles are not available")
		return
	}

	if err := s.profiles.RefreshCache(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.handleListProfiles(w, r)
}

// profileStatus maps profile errors to HTTP status codes
func profileStatus(err error) int {
	switch {
	case errors.Is(err, config.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.service.Health(r.Context())
	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, health)
}
