package ai

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

	"screening-backend/internal/scoring"
	"screening-backend/internal/shared/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements scoring.Analyzer over an OpenAI-compatible
// chat-completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Options configures the analysis client. BaseURL is optional and lets
// compatible providers be swapped in without code changes.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewClient validates the options and builds the client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("AI_MODEL is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: baseURL,
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
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// analysisReply is the JSON contract the model is asked to produce.
type analysisReply struct {
	Summary         string   `json:"summary"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	ScoreAdjustment int      `json:"score_adjustment"`
}

// Analyze asks the model for a qualitative read of the candidate and
// returns the bounded adjustment. Callers treat any error as a neutral
// outcome; this method never fabricates a score on failure.
func (c *Client) Analyze(ctx context.Context, job scoring.JobContext, resumeText string, answers map[string]string) (scoring.Adjustment, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:          c.model,
		Messages:       buildMessages(job, resumeText, answers),
		Temperature:    &temp,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return scoring.Adjustment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return scoring.Adjustment{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return scoring.Adjustment{}, fmt.Errorf("analysis request timeout: %w", err)
		}
		return scoring.Adjustment{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return scoring.Adjustment{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return scoring.Adjustment{}, fmt.Errorf("analysis response parse: %w", err)
	}
	if parsed.Error != nil {
		return scoring.Adjustment{}, fmt.Errorf("analysis provider error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return scoring.Adjustment{}, fmt.Errorf("analysis response missing choices")
	}
	if parsed.Usage != nil {
		telemetry.Info("ai.usage", map[string]any{
			"model":             c.model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
		})
	}

	content := stripCodeFence(parsed.Choices[0].Message.Content)
	if content == "" {
		return scoring.Adjustment{}, fmt.Errorf("analysis response empty content")
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return scoring.Adjustment{}, fmt.Errorf("analysis content is not valid JSON: %w", err)
	}

	adj := scoring.Adjustment{
		Summary: strings.TrimSpace(reply.Summary),
		Pros:    reply.Pros,
		Cons:    reply.Cons,
		Delta:   reply.ScoreAdjustment,
	}
	if adj.Summary == "" {
		adj.Summary = "No summary provided"
	}
	return adj.Clamp(), nil
}

// stripCodeFence removes a surrounding markdown fence, with or without
// a language tag, since some models wrap JSON despite instructions.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		first := strings.TrimSpace(content[:idx])
		if first == "json" || first == "" {
			content = content[idx+1:]
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

var _ scoring.Analyzer = (*Client)(nil)
