// Package llm composes analysis prompts and proxies them to a
// chat-completion service, optionally enriched with real-time context from
// a file-search service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// systemPersona is the fixed system instruction for every analysis call.
const systemPersona = `You are an expert financial analyst specializing in historical stock market analysis.
Focus on providing factual analysis of past market events and their documented impact on stock prices.
Use technical analysis patterns and market data to explain price movements.
Always include specific numbers and percentages in your analysis.
At the end of your response, please list all references (URLs or source names) that you accessed to compile your answer, or clearly state if no external references were used.`

const (
	completionTemperature = 0.3
	completionMaxTokens   = 750
)

// Analyzer answers dashboard questions through a chat-completion API. The
// bearer credential stays inside the go-openai client and is never echoed
// in errors or logs.
type Analyzer struct {
	client        *openai.Client
	httpc         *http.Client
	model         string
	fileSearchURL string
	log           *slog.Logger
}

// NewAnalyzer creates an Analyzer against the default OpenAI endpoint.
// fileSearchURL may be empty when no context service is deployed.
func NewAnalyzer(apiKey, model, fileSearchURL string, log *slog.Logger) *Analyzer {
	return NewAnalyzerWithBaseURL(apiKey, model, fileSearchURL, "", log)
}

// NewAnalyzerWithBaseURL creates an Analyzer against a non-default
// completion endpoint. Used by tests to point at a local fake.
func NewAnalyzerWithBaseURL(apiKey, model, fileSearchURL, baseURL string, log *slog.Logger) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Analyzer{
		client:        openai.NewClientWithConfig(cfg),
		httpc:         &http.Client{Timeout: 30 * time.Second},
		model:         model,
		fileSearchURL: fileSearchURL,
		log:           log,
	}
}

// Analyze validates the prompt, composes the full question, and submits it
// to the completion service. Each outbound call is attempted exactly once.
func (a *Analyzer) Analyze(ctx context.Context, prompt string, points []ChartPoint, useFileSearch bool) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrInvalidRequest
	}

	realtime := ""
	if useFileSearch && a.fileSearchURL != "" {
		// Context lookup uses the original prompt, before augmentation.
		// Failure here degrades to an uncontextualized analysis.
		c, err := a.FetchContext(ctx, prompt)
		if err != nil {
			a.log.Warn("file search context unavailable", "error", err)
		} else {
			realtime = c
		}
	}

	composed := Compose(prompt, points, realtime)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona},
			{Role: openai.ChatMessageRoleUser, Content: composed},
		},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", normalizeUpstream(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// FetchContext queries the file-search service for real-time context.
func (a *Analyzer) FetchContext(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.fileSearchURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("file search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Details: string(text)}
	}

	var out struct {
		Context string `json:"context"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("file search decode: %w", err)
	}
	return out.Context, nil
}

// normalizeUpstream maps go-openai errors to UpstreamError with the
// upstream status preserved. The messages carried over never include the
// Authorization header.
func normalizeUpstream(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Details: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{StatusCode: reqErr.HTTPStatusCode, Details: reqErr.Error()}
	}
	return fmt.Errorf("completion request: %w", err)
}
