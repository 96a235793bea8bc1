package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cv-generator-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatGenerate(t *testing.T) {
	var req chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer chat-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-test",
			"choices": [{"message": {"role": "assistant", "content": "# Tailored"}}],
			"usage": {"prompt_tokens": 50, "completion_tokens": 25, "total_tokens": 75}
		}`))
	}))
	defer server.Close()

	c := NewChatClient(ChatConfig{APIKey: "chat-key", Endpoint: server.URL, Model: "gpt-test", MaxTokens: 1000})
	out, err := c.Generate(context.Background(), "system prompt", 0.3)
	require.NoError(t, err)

	assert.Equal(t, "# Tailored", out.Text)
	assert.Equal(t, "gpt-test", out.Model)
	assert.Equal(t, int64(75), out.Usage.TotalTokens)

	require.Len(t, req.Messages, 1)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "system prompt", req.Messages[0].Content)
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, 1000, req.MaxTokens)
}

func TestChatGenerateErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	c := NewChatClient(ChatConfig{APIKey: "bad", Endpoint: server.URL})
	_, err := c.Generate(context.Background(), "prompt", 0.3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestChatGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	c := NewChatClient(ChatConfig{APIKey: "k", Endpoint: server.URL})
	_, err := c.Generate(context.Background(), "prompt", 0.3)
	assert.ErrorContains(t, err, "no content")
}

func TestChatGenerateWithoutKey(t *testing.T) {
	c := NewChatClient(ChatConfig{})
	_, err := c.Generate(context.Background(), "prompt", 0.3)
	assert.True(t, apperror.Is(err, apperror.KindConfiguration))
}
