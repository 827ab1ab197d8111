// Package hint generates short tutor-style hints for failed submissions by
// calling an OpenAI-compatible chat-completions endpoint (LM Studio or
// similar). Hints are strictly best-effort: every failure degrades to "no
// hint", never to an API error.
package hint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
)

// Provider generates a hint for a failed submission. An empty string means
// no hint is available.
type Provider interface {
	Hint(ctx context.Context, code string, res *engine.Result) (string, error)
}

// Disabled is the Provider used when no LLM endpoint is configured.
type Disabled struct{}

func (Disabled) Hint(context.Context, string, *engine.Result) (string, error) {
	return "", nil
}

type OpenAI struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	logger  *zerolog.Logger
}

func NewOpenAI(baseURL, model, apiKey string, logger *zerolog.Logger) *OpenAI {
	return &OpenAI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Hint(ctx context.Context, code string, res *engine.Result) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(code, res)}},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm endpoint returned %d: %s", resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm endpoint returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// buildPrompt composes a tutor-style prompt: encourage, point at the
// problem, never hand over the full solution.
func buildPrompt(code string, res *engine.Result) string {
	var b strings.Builder
	b.WriteString("You are a helpful Java programming tutor.\n\n")
	b.WriteString("A student submitted the following Java code:\n\n")
	fmt.Fprintf(&b, "```java\n%s\n```\n\n", code)

	location := ""
	if res.LineNumber != nil {
		location = fmt.Sprintf(" at line %d", *res.LineNumber)
	}
	excInfo := ""
	if res.ExceptionType != "" {
		excInfo = fmt.Sprintf(" (%s)", res.ExceptionType)
	}
	fmt.Fprintf(&b, "Execution result: %s%s%s.\n", res.Status, excInfo, location)
	fmt.Fprintf(&b, "Error message: %s\n\n", res.ErrorMessage)
	b.WriteString("Give the student a short, encouraging hint (2-3 sentences) that " +
		"helps them understand and fix the problem without revealing the " +
		"complete solution.")
	return b.String()
}
