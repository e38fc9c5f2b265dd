package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/evaluation"
	appI18n "github.com/garvtayal-05/Interview-Platform-sub000/internal/i18n"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/session"
	"github.com/garvtayal-05/Interview-Platform-sub000/internal/store"
)

func TestMain(m *testing.M) {
	if err := appI18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type scriptedGen struct {
	err error
}

func (g *scriptedGen) Generate(_ context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if strings.Contains(prompt, `"overallScores"`) {
		return `{"overallScores": {"technical": 6, "communication": 7, "problemSolving": 8, "confidence": 5}, "strengths": ["clarity"], "weaknesses": ["lacks confidence"], "recommendations": ["practice"]}`, nil
	}
	return "```json\n" + `{"scores": {"correctness": 8, "grammar": 7, "vocabulary": 6, "fluency": 9, "confidence": 5, "relevance": 10}, "feedback": "Nice."}` + "\n```", nil
}

func newTestServer(t *testing.T) (*httptest.Server, *scriptedGen) {
	t.Helper()
	db, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gen := &scriptedGen{}
	svc := evaluation.New(gen, db, session.NewStore(), nil)
	h := New(svc, db, model.ServiceConfig{Lang: "en"})

	r := chi.NewRouter()
	r.Use(appI18n.Middleware("en"))
	h.Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, gen
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func getJSON(t *testing.T, url string, header http.Header) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestFullFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, q := range []string{"What is a channel?", "What is a mutex?"} {
		resp, body := postJSON(t, srv.URL+"/api/evaluations/answer", map[string]any{
			"question": q, "answer": "An answer.", "userId": "u1", "responseTime": 12.5,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.Equal(t, "Nice.", body["feedback"])
		scores := body["scores"].(map[string]any)
		assert.Equal(t, 8.0, scores["correctness"])
		timing := body["timing"].(map[string]any)
		assert.Equal(t, 12.5, timing["responseTime"])
		assert.Contains(t, timing, "processingTime")
	}

	resp, body := getJSON(t, srv.URL+"/api/sessions/u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.0, body["evaluations"])

	resp, body = postJSON(t, srv.URL+"/api/evaluations/finalize", map[string]any{"userId": "u1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, []any{"clarity"}, body["strengths"])
	assert.Equal(t, []any{"lacks confidence"}, body["weaknesses"])
	assert.Contains(t, body, "sessionDuration")
	overall := body["overallScores"].(map[string]any)
	assert.Equal(t, 8.0, overall["problemSolving"])

	// Finalization is terminal.
	resp, body = postJSON(t, srv.URL+"/api/evaluations/finalize", map[string]any{"userId": "u1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "There is no active interview session with answers to finalize.", body["error"])

	resp, _ = getJSON(t, srv.URL+"/api/sessions/u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = getJSON(t, srv.URL+"/api/performance/u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, 1.0, body["totalSessions"])
	assert.Equal(t, 2.0, body["totalQuestions"])
	recs := body["recommendations"].([]any)
	assert.Contains(t, recs, "Take part in regular mock interviews to build confidence.")
	assert.Contains(t, recs, "Practice interview questions regularly to keep improving.")
}

func TestSubmitAnswerValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/evaluations/answer", map[string]any{
		"question": "Q", "answer": "", "userId": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "The request is missing a required field.", body["error"])

	r, err := http.Post(srv.URL+"/api/evaluations/answer", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestSubmitAnswerGenerationFailure(t *testing.T) {
	srv, gen := newTestServer(t)
	gen.err = errors.New("connection refused")

	resp, body := postJSON(t, srv.URL+"/api/evaluations/answer", map[string]any{
		"question": "Q", "answer": "A", "userId": "u1",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "The evaluation service is unavailable. Please try again.", body["error"])
	assert.NotContains(t, body["error"], "connection refused")
}

func TestFinalizeWithoutSession(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := postJSON(t, srv.URL+"/api/evaluations/finalize", map[string]any{"userId": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPerformanceNotFoundLocalized(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/performance/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No evaluation history was found for user ghost.", body["error"])

	resp, body = getJSON(t, srv.URL+"/api/performance/ghost", http.Header{"Accept-Language": {"ru"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "История оценок для пользователя ghost не найдена.", body["error"])
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := getJSON(t, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrValidation, http.StatusBadRequest},
		{model.ErrNoData, http.StatusNotFound},
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrGeneration, http.StatusBadGateway},
		{&model.ParseError{Raw: "x", Err: errors.New("bad")}, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}
