package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paylink-hq/paylink/pkg/logger"
	"github.com/paylink-hq/paylink/pkg/metrics"
	"github.com/paylink-hq/paylink/pkg/models"
)

// Server exposes the ledger over HTTP, plus health and metrics
// endpoints for monitoring.
type Server struct {
	port       string
	store      *Store
	httpServer *http.Server
	logger     logger.Logger
}

// NewServer creates a ledger API server
func NewServer(port string, store *Store, log logger.Logger) *Server {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	s := &Server{
		port:   port,
		store:  store,
		logger: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/intents", s.handleCreateIntent)
	mux.HandleFunc("GET /api/v1/intents", s.handleListIntents)
	mux.HandleFunc("GET /api/v1/intents/{id}", s.handleGetIntent)
	mux.HandleFunc("DELETE /api/v1/intents/{id}", s.handleDeleteIntent)
	mux.HandleFunc("POST /api/v1/splits", s.handleCreateSplit)
	mux.HandleFunc("POST /api/v1/splits/{id}/pay", s.handlePaySplit)
	mux.HandleFunc("POST /api/v1/fusion/callback", s.handleFusionCallback)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s
}

// Start starts the ledger server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting ledger server on port %s", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route table, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type createIntentRequest struct {
	Amount    string `json:"amount"`
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Note      string `json:"note,omitempty"`
}

type createIntentResponse struct {
	IntentID string `json:"intentId"`
}

type createSplitRequest struct {
	Amount       string               `json:"amount"`
	Token        string               `json:"token"`
	Recipient    string               `json:"recipient"`
	Note         string               `json:"note,omitempty"`
	Participants []models.Participant `json:"participants"`
}

type createSplitResponse struct {
	SplitID string `json:"splitId"`
}

type paySplitRequest struct {
	ParticipantAddress string `json:"participantAddress"`
	TxHash             string `json:"txHash"`
}

type paySplitResponse struct {
	PaidCount         int                 `json:"paidCount"`
	TotalParticipants int                 `json:"totalParticipants"`
	Status            models.IntentStatus `json:"status"`
}

type fusionCallbackRequest struct {
	IntentID string `json:"intentId"`
	TxHash   string `json:"txHash"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (s *Server) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "create-intent", http.StatusBadRequest, "invalid json payload")
		return
	}
	intent, err := s.store.CreateIntent(req.Amount, req.Token, req.Recipient, req.Note)
	if err != nil {
		s.writeError(w, "create-intent", http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("Created intent %s for %s %s", intent.ID, intent.Amount, intent.Token)
	s.writeJSON(w, "create-intent", http.StatusCreated, createIntentResponse{IntentID: intent.ID})
}

func (s *Server) handleListIntents(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, "list-intents", http.StatusOK, s.store.ListIntents())
}

func (s *Server) handleGetIntent(w http.ResponseWriter, r *http.Request) {
	intent, err := s.store.GetIntent(r.PathValue("id"))
	if err != nil {
		s.writeError(w, "get-intent", http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, "get-intent", http.StatusOK, intent)
}

func (s *Server) handleDeleteIntent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteIntent(r.PathValue("id")); err != nil {
		s.writeError(w, "delete-intent", http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, "delete-intent", http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleCreateSplit(w http.ResponseWriter, r *http.Request) {
	var req createSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "create-split", http.StatusBadRequest, "invalid json payload")
		return
	}
	intent, err := s.store.CreateSplit(req.Amount, req.Token, req.Recipient, req.Note, req.Participants)
	if err != nil {
		s.writeError(w, "create-split", http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("Created split %s with %d participants", intent.ID, len(intent.Participants))
	s.writeJSON(w, "create-split", http.StatusCreated, createSplitResponse{SplitID: intent.ID})
}

func (s *Server) handlePaySplit(w http.ResponseWriter, r *http.Request) {
	var req paySplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "pay-split", http.StatusBadRequest, "invalid json payload")
		return
	}
	intent, err := s.store.PayParticipant(r.PathValue("id"), req.ParticipantAddress, req.TxHash)
	if err != nil {
		code := http.StatusNotFound
		if errors.Is(err, ErrUnknownParticipant) {
			code = http.StatusBadRequest
		}
		s.writeError(w, "pay-split", code, err.Error())
		return
	}
	s.writeJSON(w, "pay-split", http.StatusOK, paySplitResponse{
		PaidCount:         intent.PaidCount,
		TotalParticipants: len(intent.Participants),
		Status:            intent.Status,
	})
}

func (s *Server) handleFusionCallback(w http.ResponseWriter, r *http.Request) {
	var req fusionCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "fusion-callback", http.StatusBadRequest, "invalid json payload")
		return
	}
	if req.IntentID == "" || req.TxHash == "" {
		s.writeError(w, "fusion-callback", http.StatusBadRequest, "intentId and txHash are required")
		return
	}
	if _, err := s.store.MarkPaid(req.IntentID, req.TxHash); err != nil {
		s.writeError(w, "fusion-callback", http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, "fusion-callback", http.StatusOK, okResponse{OK: true})
}

func (s *Server) writeJSON(w http.ResponseWriter, route string, code int, payload interface{}) {
	metrics.LedgerRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response for %s: %v", route, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, route string, code int, message string) {
	s.writeJSON(w, route, code, map[string]string{"error": message})
}
