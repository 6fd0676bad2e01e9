package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storascout/storascout/pkg/httpclient"
)

// DefaultEndpoint is the DashScope text-generation endpoint.
const DefaultEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// DefaultModel is the model used when none is configured.
const DefaultModel = "qwen-long"

// ClientConfig configures the LLM service client. APIKey is mandatory and
// always injected from configuration.
type ClientConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
	// Transport overrides the HTTP transport, e.g. for tests.
	Transport http.RoundTripper
}

// Client is a minimal HTTP client for the DashScope-style generation API.
type Client struct {
	cfg  ClientConfig
	http *httpclient.Client
}

// NewClient creates an LLM service client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: httpclient.New(httpclient.Config{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		}),
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generationRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []message `json:"messages"`
	} `json:"input"`
	Parameters struct {
		ResultFormat string `json:"result_format"`
	} `json:"parameters"`
}

type generationResponse struct {
	Output struct {
		Choices []struct {
			Message message `json:"message"`
		} `json:"choices"`
	} `json:"output"`
}

// Invoke posts a system+user message pair and returns the raw text content
// of the first choice. Any HTTP failure, non-2xx status or unexpected
// response shape is a transport error subject to the caller's retry policy.
func (c *Client) Invoke(ctx context.Context, system, user string) (string, error) {
	var reqBody generationRequest
	reqBody.Model = c.cfg.Model
	reqBody.Input.Messages = []message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	reqBody.Parameters.ResultFormat = "message"

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm service returned %d: %s", resp.StatusCode, truncateForError(body))
	}

	var genResp generationResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(genResp.Output.Choices) == 0 {
		return "", fmt.Errorf("llm response has no choices")
	}

	return genResp.Output.Choices[0].Message.Content, nil
}

func truncateForError(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
