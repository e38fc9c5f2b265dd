// Package evaluation scores interview answers one at a time and produces
// the holistic summary that closes a session.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/llm"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/llm/prompts"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/metrics"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/session"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/store"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RecordStore persists evaluation records keyed by session ID.
type RecordStore interface {
	AppendEvaluation(ctx context.Context, userID, sessionID string, eval model.Evaluation, sessionDuration int64) error
	FinalizeRecord(ctx context.Context, sessionID string, summary model.Summary, sessionDuration int64) error
}

// AnswerRequest is one submitted answer.
type AnswerRequest struct {
	Question     string  `json:"question" validate:"required"`
	Answer       string  `json:"answer" validate:"required"`
	UserID       string  `json:"userId" validate:"required"`
	ResponseTime float64 `json:"responseTime" validate:"gte=0"`
}

// Timing combines the client-reported and server-measured times.
type Timing struct {
	ResponseTime   float64 `json:"responseTime"`
	ProcessingTime int64   `json:"processingTime"`
}

// AnswerResult is the outcome of scoring one answer.
type AnswerResult struct {
	Scores   model.Scores `json:"scores"`
	Feedback string       `json:"feedback"`
	Timing   Timing       `json:"timing"`
}

// FinalizeResult is the holistic outcome of a finished session.
type FinalizeResult struct {
	OverallScores   model.OverallEvaluation `json:"overallScores"`
	Strengths       []string                `json:"strengths"`
	Weaknesses      []string                `json:"weaknesses"`
	Recommendations []string                `json:"recommendations"`
	SessionDuration int64                   `json:"sessionDuration"`
}

// Service orchestrates answer scoring and session finalization.
type Service struct {
	gen      Generator
	records  RecordStore
	sessions *session.Store
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Service. m may be nil.
func New(gen Generator, records RecordStore, sessions *session.Store, m *metrics.Metrics) *Service {
	return &Service{
		gen:      gen,
		records:  records,
		sessions: sessions,
		metrics:  m,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Evaluate scores a single answer, appends it to the persisted record of the
// user's live session and then to the session itself. A session is created on
// the first answer. Nothing is saved when scoring fails.
func (s *Service) Evaluate(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	res, err := s.evaluate(ctx, req)
	s.metrics.Request(metrics.OpEvaluate, outcome(err))
	s.metrics.ActiveSessions(s.sessions.Len())
	return res, err
}

func (s *Service) evaluate(ctx context.Context, req AnswerRequest) (*AnswerResult, error) {
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	sess := s.sessions.GetOrCreate(req.UserID)

	prompt, err := prompts.BuildAnswerPrompt(req.Question, req.Answer)
	if err != nil {
		return nil, err
	}

	start := s.now()
	raw, err := s.gen.Generate(ctx, prompt)
	elapsed := s.now().Sub(start)
	s.metrics.Generation(metrics.OpEvaluate, elapsed)
	if err != nil {
		slog.Error("answer generation failed", "user_id", req.UserID, "session_id", sess.SessionID, "error", err)
		return nil, fmt.Errorf("%w: %w", model.ErrGeneration, err)
	}
	processingTime := elapsed.Milliseconds()

	parsed, err := llm.ParseScore(raw)
	if err != nil {
		slog.Warn("unparseable score response", "user_id", req.UserID, "session_id", sess.SessionID, "error", err)
		slog.Debug("unparseable score response", "raw", raw)
		return nil, err
	}

	eval := model.Evaluation{
		Question:       req.Question,
		Answer:         req.Answer,
		ResponseTime:   req.ResponseTime,
		ProcessingTime: processingTime,
		Scores:         parsed.Scores,
		Feedback:       parsed.Feedback,
	}

	// The record's duration is overwritten with the latest processing time
	// until finalization replaces it with the elapsed session time.
	if err := s.records.AppendEvaluation(ctx, req.UserID, sess.SessionID, eval, processingTime); err != nil {
		if errors.Is(err, store.ErrRecordClosed) {
			return nil, fmt.Errorf("%w: session %s already finalized", model.ErrNoData, sess.SessionID)
		}
		return nil, fmt.Errorf("save evaluation: %w", err)
	}

	answer := model.AnswerEntry{Question: req.Question, Answer: req.Answer, ResponseTime: req.ResponseTime}
	if !s.sessions.Append(req.UserID, sess.SessionID, answer, eval) {
		slog.Warn("session retired before answer was recorded", "user_id", req.UserID, "session_id", sess.SessionID)
	}

	slog.Info("answer evaluated",
		"user_id", req.UserID,
		"session_id", sess.SessionID,
		"processing_ms", processingTime,
	)
	return &AnswerResult{
		Scores:   parsed.Scores,
		Feedback: parsed.Feedback,
		Timing: Timing{
			ResponseTime:   req.ResponseTime,
			ProcessingTime: processingTime,
		},
	}, nil
}

// Finalize produces the holistic summary of the user's live session, stores
// it on the session's record and retires the session. It fails with
// model.ErrNoData when the user has no session with at least one evaluation,
// which includes a second call after a successful one.
func (s *Service) Finalize(ctx context.Context, userID string) (*FinalizeResult, error) {
	res, err := s.finalize(ctx, userID)
	s.metrics.Request(metrics.OpFinalize, outcome(err))
	s.metrics.ActiveSessions(s.sessions.Len())
	return res, err
}

func (s *Service) finalize(ctx context.Context, userID string) (*FinalizeResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}

	sess, ok := s.sessions.Get(userID)
	if !ok || len(sess.Evaluations) == 0 {
		return nil, fmt.Errorf("%w: no evaluations in active session for user %s", model.ErrNoData, userID)
	}

	duration := s.now().Sub(sess.StartTime).Milliseconds()

	prompt, err := prompts.BuildSummaryPrompt(sess.Evaluations)
	if err != nil {
		return nil, err
	}

	start := s.now()
	raw, err := s.gen.Generate(ctx, prompt)
	s.metrics.Generation(metrics.OpFinalize, s.now().Sub(start))
	if err != nil {
		slog.Error("summary generation failed", "user_id", userID, "session_id", sess.SessionID, "error", err)
		return nil, fmt.Errorf("%w: %w", model.ErrGeneration, err)
	}

	summary, err := llm.ParseSummary(raw)
	if err != nil {
		slog.Warn("unparseable summary response", "user_id", userID, "session_id", sess.SessionID, "error", err)
		slog.Debug("unparseable summary response", "raw", raw)
		return nil, err
	}

	if err := s.records.FinalizeRecord(ctx, sess.SessionID, *summary, duration); err != nil {
		if errors.Is(err, store.ErrRecordClosed) {
			return nil, fmt.Errorf("%w: session %s already finalized", model.ErrNoData, sess.SessionID)
		}
		return nil, fmt.Errorf("save summary: %w", err)
	}

	s.sessions.Delete(userID)

	slog.Info("session finalized",
		"user_id", userID,
		"session_id", sess.SessionID,
		"answers", len(sess.Evaluations),
		"duration_ms", duration,
	)
	return &FinalizeResult{
		OverallScores:   summary.OverallEvaluation,
		Strengths:       summary.Strengths,
		Weaknesses:      summary.Weaknesses,
		Recommendations: summary.Recommendations,
		SessionDuration: duration,
	}, nil
}

// ActiveSession returns a snapshot of the user's live session.
func (s *Service) ActiveSession(userID string) (model.Session, bool) {
	return s.sessions.Get(userID)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, model.ErrGeneration):
		return metrics.OutcomeGeneration
	case errors.Is(err, model.ErrParse):
		return metrics.OutcomeParse
	case errors.Is(err, model.ErrNoData):
		return metrics.OutcomeNoData
	default:
		return metrics.OutcomeError
	}
}
