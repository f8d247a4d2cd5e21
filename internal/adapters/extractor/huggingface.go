package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// Hosted inference defaults.
const (
	DefaultHuggingFaceURL   = "https://api-inference.huggingface.co"
	DefaultHuggingFaceModel = "distilbert-base-cased-distilled-squad"
)

// HuggingFaceExtractor implements ports.AnswerExtractor with a hosted
// extractive question-answering model.
type HuggingFaceExtractor struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// NewHuggingFaceExtractor creates an extractor for the inference API. token may be empty
// for self-hosted endpoints.
func NewHuggingFaceExtractor(baseURL, model, token string, timeout time.Duration) *HuggingFaceExtractor {
	if baseURL == "" {
		baseURL = DefaultHuggingFaceURL
	}
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HuggingFaceExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

type qaError struct {
	Error string `json:"error"`
}

// Extract returns the model's top span for question over context.
func (e *HuggingFaceExtractor) Extract(ctx context.Context, question, context string) (entities.Answer, error) {
	body, err := json.Marshal(qaRequest{Inputs: qaInputs{Question: question, Context: context}})
	if err != nil {
		return entities.Answer{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/models/"+e.model, bytes.NewReader(body))
	if err != nil {
		return entities.Answer{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return entities.Answer{}, fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entities.Answer{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr qaError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return entities.Answer{}, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return entities.Answer{}, fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	best, err := decodeQA(data)
	if err != nil {
		return entities.Answer{}, fmt.Errorf("decoding response: %w", err)
	}
	return entities.Answer{Text: best.Answer, Score: best.Score, Start: best.Start, End: best.End}, nil
}

// decodeQA accepts a single answer object or a ranked array of them.
func decodeQA(data []byte) (qaResponse, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []qaResponse
		if err := json.Unmarshal(data, &list); err != nil {
			return qaResponse{}, err
		}
		if len(list) == 0 {
			return qaResponse{}, errors.New("empty answer list")
		}
		return list[0], nil
	}
	var one qaResponse
	err := json.Unmarshal(data, &one)
	return one, err
}
