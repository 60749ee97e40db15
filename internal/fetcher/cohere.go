package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"taxmate-go/config"
)

// ErrUpstreamUnavailable 网络错误、超时或响应格式不对
var ErrUpstreamUnavailable = errors.New("cohere unavailable")

// UpstreamHTTPError Cohere 返回非2xx状态码
type UpstreamHTTPError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("cohere returned status %d: %s", e.StatusCode, e.Body)
}

const (
	defaultTemperature = 0
	defaultMaxTokens   = 700
	// maxErrorBodyBytes 非2xx响应体最多保留的字节数
	maxErrorBodyBytes = 4 << 10
)

// CohereClient Cohere Chat API 客户端
type CohereClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewCohereClient 创建Cohere客户端
func NewCohereClient(cfg *config.Config) *CohereClient {
	return &CohereClient{
		apiKey: cfg.CohereKey,
		apiURL: cfg.CohereURL,
		model:  cfg.CohereModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	System      string  `json:"system"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type chatResponse struct {
	Text *string `json:"text"`
}

// Chat 发送一次对话请求，返回生成的文本
func (c *CohereClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Message:     userPrompt,
		System:      systemPrompt,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &UpstreamHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstreamUnavailable, err)
	}

	if chatResp.Text == nil {
		return "", fmt.Errorf("%w: response has no text field", ErrUpstreamUnavailable)
	}

	return *chatResp.Text, nil
}

// Reply 调用LLM，错误转换为可直接展示的文本，不向上抛出
func Reply(ctx context.Context, llm LLMClient, systemPrompt, userPrompt string) string {
	text, err := llm.Chat(ctx, systemPrompt, userPrompt)
	if err == nil {
		return text
	}
	return ErrorText(err)
}

// ErrorText 把调用错误转换为展示文本
func ErrorText(err error) string {
	var httpErr *UpstreamHTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("API Error: %d - %s", httpErr.StatusCode, httpErr.Body)
	}
	return fmt.Sprintf("Unexpected Error: %v", err)
}
