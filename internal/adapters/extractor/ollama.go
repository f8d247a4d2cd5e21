// Package extractor provides answer extraction adapters.
// Clean Architecture: Adapters implementing ports.AnswerExtractor.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

const ollamaPrompt = `Answer the question using only the table below.
Reply with the shortest span copied exactly from the table, with no explanation.

Table:
%s

Question: %s
Answer:`

// OllamaExtractor implements ports.AnswerExtractor with a local generative model
// that is asked to copy a verbatim span out of the context.
type OllamaExtractor struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaExtractor creates a new Ollama-backed extractor.
func NewOllamaExtractor(baseURL, model string, timeout time.Duration) *OllamaExtractor {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// ollamaGenerateResponse is the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Extract asks the model for a span and locates it in context.
// Start and End are -1 when the reply is not a verbatim substring.
func (e *OllamaExtractor) Extract(ctx context.Context, question, context string) (entities.Answer, error) {
	reqBody := ollamaGenerateRequest{
		Model:   e.model,
		Prompt:  fmt.Sprintf(ollamaPrompt, context, question),
		Stream:  false,
		Options: map[string]any{"temperature": 0},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return entities.Answer{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return entities.Answer{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return entities.Answer{}, fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Answer{}, fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return entities.Answer{}, fmt.Errorf("decoding response: %w", err)
	}

	text := strings.Trim(strings.TrimSpace(genResp.Response), "\"'`")
	start, end := locate(context, text)
	return entities.Answer{Text: text, Score: 0, Start: start, End: end}, nil
}

// locate finds span in text, exactly first and then ignoring case.
func locate(text, span string) (int, int) {
	if span == "" {
		return -1, -1
	}
	if i := strings.Index(text, span); i >= 0 {
		return i, i + len(span)
	}
	lowerText, lowerSpan := strings.ToLower(text), strings.ToLower(span)
	if len(lowerText) != len(text) || len(lowerSpan) != len(span) {
		return -1, -1
	}
	if i := strings.Index(lowerText, lowerSpan); i >= 0 {
		return i, i + len(span)
	}
	return -1, -1
}
