package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/receipt-escape/game/config"
	"github.com/wricardo/receipt-escape/game/puzzle"
	"github.com/wricardo/receipt-escape/game/service"
	"github.com/wricardo/receipt-escape/transport/websocket"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// Server represents the REST API server
type Server struct {
	service service.PuzzleService
	hub     *websocket.Hub
	router  *mux.Router
	log     logrus.FieldLogger
}

// NewServer creates a new API server. hub may be nil, in which case /ws
// answers 503.
func NewServer(puzzleService service.PuzzleService, hub *websocket.Hub) *Server {
	s := &Server{
		service: puzzleService,
		hub:     hub,
		router:  mux.NewRouter(),
		log:     logrus.WithField("component", "api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.loggingMiddleware)

	// Puzzle types
	api.HandleFunc("/types", s.handleListTypes).Methods("GET")

	// Puzzles
	api.HandleFunc("/puzzles", s.handleGenerate).Methods("POST")
	api.HandleFunc("/puzzles", s.handleListPuzzles).Methods("GET")
	api.HandleFunc("/puzzles/{id}", s.handleGetPuzzle).Methods("GET")
	api.HandleFunc("/puzzles/{id}", s.handleDeletePuzzle).Methods("DELETE")
	api.HandleFunc("/puzzles/{id}/check", s.handleCheckAnswer).Methods("POST")

	// Decks
	api.HandleFunc("/decks", s.handleListDecks).Methods("GET")
	api.HandleFunc("/decks", s.handleSaveDeck).Methods("POST")
	api.HandleFunc("/decks/{name}", s.handleGetDeck).Methods("GET")
	api.HandleFunc("/decks/{name}/generate", s.handleGenerateDeck).Methods("POST")

	// Barcodes
	api.HandleFunc("/barcode", s.handleBarcode).Methods("GET")

	// Other methods on a known path answer 405. These must come after the
	// method-bound routes.
	for _, path := range apiPaths {
		api.HandleFunc(path, s.handleMethodNotAllowed)
	}

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/health", s.handleMethodNotAllowed)
}

// apiPaths lists every route under /api
var apiPaths = []string{
	"/types",
	"/puzzles",
	"/puzzles/{id}",
	"/puzzles/{id}/check",
	"/decks",
	"/decks/{name}",
	"/decks/{name}/generate",
	"/barcode",
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", r.Method))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrArtifactNotFound), errors.Is(err, config.ErrDeckNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, puzzle.ErrInvalidDeck):
		status = http.StatusBadRequest
	}
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// Puzzle Handlers

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types := s.service.ListTypes(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"count": len(types),
		"types": types,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	artifact, err := s.service.Generate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, artifact)
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	puzzles, err := s.service.ListArtifacts(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":   len(puzzles),
		"puzzles": puzzles,
	})
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	artifact, err := s.service.GetArtifact(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, artifact)
}

func (s *Server) handleDeletePuzzle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.service.DeleteArtifact(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Puzzle %s deleted", id),
	})
}

func (s *Server) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Answer string `json:"answer"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.CheckAnswer(r.Context(), id, req.Answer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Deck Handlers

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.service.ListDecks(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	deck, err := s.service.LoadDeck(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) handleSaveDeck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string       `json:"name"`
		Deck *puzzle.Deck `json:"deck"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Deck name is required")
		return
	}
	if req.Deck == nil {
		respondError(w, http.StatusBadRequest, "Deck is required")
		return
	}

	if err := s.service.SaveDeck(r.Context(), req.Name, req.Deck); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Deck saved successfully",
		"deck_id": req.Name,
	})
}

func (s *Server) handleGenerateDeck(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req struct {
		Station string `json:"station"`
	}
	// The body is optional
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.GenerateDeck(r.Context(), name, req.Station)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Barcode Handler

func (s *Server) handleBarcode(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		respondError(w, http.StatusBadRequest, "text parameter required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"text":  text,
		"image": s.service.Barcode(r.Context(), text),
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "print stations not enabled", http.StatusServiceUnavailable)
		return
	}

	station := strings.TrimSpace(r.URL.Query().Get("station"))
	if station == "" {
		station = service.DefaultStation
	}
	s.hub.ServeWS(w, r, station)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}
