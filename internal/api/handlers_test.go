package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/hint"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/queue"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/worker"
)

type stubEvaluator struct {
	result *engine.Result
	err    error
}

func (s *stubEvaluator) Evaluate(ctx context.Context, source string) (*engine.Result, error) {
	return s.result, s.err
}

type staticHints struct{ text string }

func (s staticHints) Hint(context.Context, string, *engine.Result) (string, error) {
	return s.text, nil
}

// newTestHandler wires a real queue and worker around a stubbed engine, so
// requests travel the same path they do in production.
func newTestHandler(t *testing.T, ev worker.Evaluator, hints hint.Provider) *Handler {
	t.Helper()
	m := queue.NewManager(4)
	logger := zerolog.Nop()
	w := worker.NewWorker(0, ev, m, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx)

	return NewHandler(m, nil, hints, &logger, 5*time.Second)
}

func doSubmit(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/submit-code", strings.NewReader(body))
	h.SubmitCode(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{}, hint.Disabled{})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Backend Running")
}

func TestSubmitCodeSuccess(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{
		result: &engine.Result{Status: engine.StatusSuccess, Output: "Hello!"},
	}, hint.Disabled{})

	rec, env := doSubmit(t, h, `{"user_id": "alice", "code": "public class Main {}"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.Nil(t, env.Error)

	data := env.Data.(map[string]any)
	assert.Equal(t, "alice", data["user_id"])
	execution := data["execution"].(map[string]any)
	assert.Equal(t, "Success", execution["status"])
	assert.Equal(t, "Hello!", execution["output"])
	assert.Nil(t, data["hint"])
}

func TestSubmitCodeTimeoutMapsTo408(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{
		result: &engine.Result{Status: engine.StatusTimeout, ErrorMessage: "Execution time exceeded limit"},
	}, hint.Disabled{})

	rec, env := doSubmit(t, h, `{"user_id": "alice", "code": "while(true){}"}`)

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	assert.True(t, env.Success)
}

func TestSubmitCodeAttachesHintOnFailure(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{
		result: &engine.Result{Status: engine.StatusCompilationError, ErrorMessage: "';' expected"},
	}, staticHints{text: "Check the end of line 3."})

	rec, env := doSubmit(t, h, `{"user_id": "alice", "code": "broken"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "Check the end of line 3.", data["hint"])
}

func TestSubmitCodeOperationalErrorMapsTo500(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{err: errors.New("javac missing")}, hint.Disabled{})

	rec, env := doSubmit(t, h, `{"user_id": "alice", "code": "public class Main {}"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeExecutionFailed, env.Error.Code)
	// The raw failure stays in the logs, not in the response.
	assert.NotContains(t, env.Error.Message, "javac")
}

func TestSubmitCodeValidation(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{}, hint.Disabled{})

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "bad json", body: "{not json", wantCode: CodeInvalidInput},
		{name: "missing user_id", body: `{"code": "class Main {}"}`, wantCode: CodeMissingField},
		{name: "blank user_id", body: `{"user_id": "   ", "code": "class Main {}"}`, wantCode: CodeMissingField},
		{name: "missing code", body: `{"user_id": "alice"}`, wantCode: CodeMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doSubmit(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestSubmitCodeRejectsGet(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{}, hint.Disabled{})

	rec := httptest.NewRecorder()
	h.SubmitCode(rec, httptest.NewRequest(http.MethodGet, "/api/submit-code", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHistoryWithoutStore(t *testing.T) {
	h := newTestHandler(t, &stubEvaluator{}, hint.Disabled{})

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history?user_id=alice", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
