package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/database"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/hint"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/metrics"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/queue"
)

type SubmitRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

type submitResponse struct {
	UserID    string         `json:"user_id"`
	Execution *engine.Result `json:"execution"`
	Hint      *string        `json:"hint"`
}

type Handler struct {
	queueManager *queue.Manager
	store        *database.Database // nil when history is disabled
	hints        hint.Provider
	logger       *zerolog.Logger
	waitTimeout  time.Duration
}

func NewHandler(manager *queue.Manager, store *database.Database, hints hint.Provider, logger *zerolog.Logger, waitTimeout time.Duration) *Handler {
	return &Handler{
		queueManager: manager,
		store:        store,
		hints:        hints,
		logger:       logger,
		waitTimeout:  waitTimeout,
	}
}

// Health is the liveness probe for load balancers and deployments.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]string{"status": "Backend Running"}, http.StatusOK)
}

// SubmitCode accepts a Java snippet, queues it for evaluation, optionally
// attaches a tutor hint and logs the submission, then returns the classified
// result. Student-code failures are HTTP 200 (the service did its job);
// only an engine Timeout maps to 408 and an operational defect to 500.
func (h *Handler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeFail(w, "Method not allowed.", CodeMethodNotAllowed, nil, http.StatusMethodNotAllowed)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, "Request body must be valid JSON.", CodeInvalidInput, nil, http.StatusBadRequest)
		return
	}

	userID := strings.TrimSpace(req.UserID)
	code := strings.TrimSpace(req.Code)
	if userID == "" {
		writeFail(w, "Field 'user_id' is required and must not be empty.", CodeMissingField,
			map[string]any{"field": "user_id"}, http.StatusBadRequest)
		return
	}
	if code == "" {
		writeFail(w, "Field 'code' is required and must not be empty.", CodeMissingField,
			map[string]any{"field": "code"}, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
	defer cancel()

	job := &queue.Job{
		ID:     uuid.NewString(),
		UserID: userID,
		Source: code,
		Result: make(chan *engine.Result, 1),
		Err:    make(chan error, 1),
		Ctx:    ctx,
	}
	h.queueManager.Submit(job)

	select {
	case res := <-job.Result:
		h.respondWithResult(ctx, w, userID, code, res)

	case err := <-job.Err:
		// Operational defect: the service is misconfigured or broken.
		// Surface a generic message, keep the detail in the logs.
		h.logger.Error().Err(err).Str("job_id", job.ID).Str("user_id", userID).
			Msg("evaluation failed operationally")
		writeFail(w, "Internal error during code execution.", CodeExecutionFailed, nil,
			http.StatusInternalServerError)

	case <-ctx.Done():
		writeFail(w, "Evaluation did not finish in time.", CodeTimeout, nil,
			http.StatusGatewayTimeout)
	}
}

func (h *Handler) respondWithResult(ctx context.Context, w http.ResponseWriter, userID, code string, res *engine.Result) {
	var hintText *string
	if res.Status != engine.StatusSuccess {
		if text, err := h.hints.Hint(ctx, code, res); err != nil {
			metrics.HintFailures.Inc()
			h.logger.Error().Err(err).Msg("hint generation failed")
		} else if text != "" {
			hintText = &text
		}
	}

	if h.store != nil {
		if _, err := h.store.LogSubmission(ctx, userID, code, res); err != nil {
			// History is best-effort; a logging failure is never an API failure.
			h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to log submission")
		}
	}

	httpStatus := http.StatusOK
	if res.Status == engine.StatusTimeout {
		httpStatus = http.StatusRequestTimeout
	}
	writeOK(w, submitResponse{UserID: userID, Execution: res, Hint: hintText}, httpStatus)
}

// History returns a user's recent submissions, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeFail(w, "Method not allowed.", CodeMethodNotAllowed, nil, http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		writeFail(w, "Submission history is not enabled.", CodeNotFound, nil, http.StatusNotFound)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeFail(w, "Query parameter 'user_id' is required.", CodeMissingField,
			map[string]any{"field": "user_id"}, http.StatusBadRequest)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeFail(w, "Query parameter 'limit' must be between 1 and 100.", CodeInvalidInput, nil,
				http.StatusBadRequest)
			return
		}
		limit = n
	}

	subs, err := h.store.RecentByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load history")
		writeFail(w, "Internal error loading submission history.", CodeInternalError, nil,
			http.StatusInternalServerError)
		return
	}

	writeOK(w, map[string]any{"user_id": userID, "submissions": historyItems(subs)}, http.StatusOK)
}

type historyItem struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Output        string    `json:"output,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	ExceptionType string    `json:"exception_type,omitempty"`
	LineNumber    *int      `json:"line_number,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

func historyItems(subs []database.Submission) []historyItem {
	items := make([]historyItem, 0, len(subs))
	for _, s := range subs {
		items = append(items, historyItem{
			ID:            s.ID.String(),
			Status:        s.Status,
			Output:        s.Output,
			ErrorMessage:  s.ErrorMessage,
			ExceptionType: s.ExceptionType,
			LineNumber:    s.LineNumber,
			SubmittedAt:   s.SubmittedAt,
		})
	}
	return items
}
