package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"cv-generator-backend/pkg/apperror"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	DefaultChatEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultChatModel    = "gpt-4o-mini"
)

// ChatConfig configures a ChatClient.
type ChatConfig struct {
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// ChatClient calls an OpenAI-compatible chat completion endpoint. The prompt is
// sent as a single system message.
type ChatClient struct {
	apiKey     string
	endpoint   string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewChatClient(cfg ChatConfig) *ChatClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultChatEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &ChatClient{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

func (c *ChatClient) Generate(ctx context.Context, prompt string, temperature float64) (completion *Completion, err error) {
	if c.apiKey == "" {
		return nil, apperror.Configuration("Chat completion API key is not configured")
	}

	var reqBody []byte
	reqBody, err = json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "system", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chat request")
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "chat request failed")
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chat response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = string(respBody)
		}
		return nil, errors.Errorf("chat request failed with status %d: %s", resp.StatusCode, msg)
	}

	var parsed chatResponse
	if err = json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to parse chat response: %s", string(respBody))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, errors.New("no content in chat response")
	}

	model := parsed.Model
	if model == "" {
		model = c.model
	}
	usage := Usage{
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
		TotalTokens:      parsed.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	return &Completion{Text: parsed.Choices[0].Message.Content, Model: model, Usage: usage}, nil
}
