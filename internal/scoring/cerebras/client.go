// Package cerebras implements scoring.Client against the Cerebras Chat
// Completions API.
package cerebras

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

	"github.com/google/uuid"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/scoring"
)

// Client calls the Cerebras chat completions endpoint and parses the
// structured scoring payload out of the first choice's message content.
type Client struct {
	baseURL    string
	apiToken   string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Cerebras-backed scoring client.
func NewClient(baseURL, apiToken, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("SCORING_BASE_URL is required")
	}
	if strings.TrimSpace(apiToken) == "" {
		return nil, fmt.Errorf("SCORING_API_TOKEN is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("SCORING_MODEL is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// analysisPayload mirrors the JSON schema the system prompt demands. The
// provider capitalizes field names, so the tags do too.
type analysisPayload struct {
	Score       int `json:"Score"`
	Suggestions []struct {
		Type        string `json:"Type"`
		Title       string `json:"Title"`
		Description string `json:"Description"`
		Example     string `json:"Example"`
		Impact      string `json:"Impact"`
	} `json:"Suggestions"`
	KeywordMatches  []string `json:"KeywordMatches"`
	MissingKeywords []string `json:"MissingKeywords"`
}

func (c *Client) Analyze(ctx context.Context, resumeText, jobDescription string) (scoring.Result, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage(resumeText, jobDescription)},
		},
		Temperature:    &temp,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return scoring.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return scoring.Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return scoring.Result{}, &scoring.ScoringError{Message: "request timeout", Err: err}
		}
		return scoring.Result{}, &scoring.ScoringError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return scoring.Result{}, &scoring.ScoringError{Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return scoring.Result{}, &scoring.ScoringError{
			StatusCode: resp.StatusCode,
			Message:    "scoring API returned non-success status",
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return scoring.Result{}, &scoring.ScoringError{Message: "response parse", Err: err}
	}
	if parsed.Error != nil {
		return scoring.Result{}, &scoring.ScoringError{
			Message: fmt.Sprintf("scoring API error: %s (%s)", parsed.Error.Message, parsed.Error.Type),
		}
	}
	if len(parsed.Choices) == 0 {
		return scoring.Result{}, &scoring.ScoringError{Message: "response missing choices"}
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return scoring.Result{}, &scoring.ScoringError{Message: "response empty content"}
	}

	return parseContent(content)
}

// parseContent decodes the message content. Some models return a bare
// object, others wrap it in a single-element array; both are accepted.
func parseContent(content string) (scoring.Result, error) {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		var list []analysisPayload
		if arrErr := json.Unmarshal([]byte(content), &list); arrErr != nil || len(list) == 0 {
			return scoring.Result{}, &scoring.ScoringError{Message: "invalid response format", Err: err}
		}
		payload = list[0]
	}
	if payload.Score < 0 || payload.Score > 100 {
		return scoring.Result{}, &scoring.ScoringError{
			Message: fmt.Sprintf("score %d out of range", payload.Score),
		}
	}

	result := scoring.Result{
		Score:           payload.Score,
		Suggestions:     make([]scoring.Suggestion, 0, len(payload.Suggestions)),
		KeywordMatches:  payload.KeywordMatches,
		MissingKeywords: payload.MissingKeywords,
	}
	for _, s := range payload.Suggestions {
		result.Suggestions = append(result.Suggestions, scoring.Suggestion{
			ID:          uuid.NewString(),
			Type:        scoring.NormalizeSuggestionType(s.Type),
			Title:       s.Title,
			Description: s.Description,
			Example:     s.Example,
			Impact:      s.Impact,
		})
	}
	return result, nil
}

var _ scoring.Client = (*Client)(nil)
