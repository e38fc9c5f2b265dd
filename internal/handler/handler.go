package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/analytics"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/evaluation"
	appI18n "github.com/garvtayal-05/Interview-Platform-sub000/internal/i18n"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc     *evaluation.Service
	records analytics.RecordLister
	config  model.ServiceConfig
}

// New creates a new Handler.
func New(svc *evaluation.Service, records analytics.RecordLister, cfg model.ServiceConfig) *Handler {
	return &Handler{svc: svc, records: records, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/evaluations/answer", h.handleSubmitAnswer)
		r.Post("/evaluations/finalize", h.handleFinalize)
		r.Get("/sessions/{userID}", h.handleActiveSession)
		r.Get("/performance/{userID}", h.handlePerformance)
	})
}

type finalizeRequest struct {
	UserID string `json:"userId"`
}

type sessionResponse struct {
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId"`
	StartTime   time.Time `json:"startTime"`
	Answered    int       `json:"answered"`
	Evaluations int       `json:"evaluations"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req evaluation.AnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	res, err := h.svc.Evaluate(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, req.UserID)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var req finalizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	res, err := h.svc.Finalize(r.Context(), req.UserID)
	if err != nil {
		h.writeError(w, r, err, req.UserID)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	sess, ok := h.svc.ActiveSession(userID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: appI18n.T(r.Context(), "ErrNoSession")})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:   sess.SessionID,
		UserID:      sess.UserID,
		StartTime:   sess.StartTime,
		Answered:    len(sess.Answers),
		Evaluations: len(sess.Evaluations),
	})
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	report, err := analytics.Load(r.Context(), h.records, userID, appI18n.Translator(r.Context()))
	if err != nil {
		h.writeError(w, r, err, userID)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", model.ErrValidation, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
