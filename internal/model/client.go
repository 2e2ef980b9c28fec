package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the model call surface the assistant depends on. Tests swap in
// fakes; production uses AnthropicClient.
type Client interface {
	Messages(ctx context.Context, req MessageRequest) (*MessageResponse, error)
	Available() bool
}

// AnthropicClient is a concrete client backed by Anthropic's Messages API.
type AnthropicClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewAnthropicClient builds a client. An empty apiKey yields a client whose
// Available reports false; callers degrade to offline behavior.
func NewAnthropicClient(apiKey string, httpClient *http.Client) *AnthropicClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &AnthropicClient{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		apiKey:     strings.TrimSpace(apiKey),
	}
}

// Available reports whether the client has credentials to make calls.
func (c *AnthropicClient) Available() bool {
	return c.apiKey != ""
}

// Messages performs a blocking Messages API call.
func (c *AnthropicClient) Messages(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	if !c.Available() {
		return nil, fmt.Errorf("anthropic client: no API key configured")
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, fmt.Errorf("encode anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("create anthropic request: %w", err)
	}
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, readAPIError(resp)
	}

	var msgResp MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return nil, fmt.Errorf("decode anthropic response: %w", err)
	}
	return &msgResp, nil
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic api status %d: %w", resp.StatusCode, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var apiErr ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return APIError{StatusCode: resp.StatusCode, Type: apiErr.Error.Type, Message: apiErr.Error.Message}
	}

	return APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
