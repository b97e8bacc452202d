package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_CompleteSendsSystemAndSession(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Namaste! Kasto chha?"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer srv.Close()

	client, err := NewOpenAICompatibleClient("test-key", srv.URL, "")
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), &CompletionRequest{
		System:    "You are Maya.",
		Messages:  UserMessage("Namaste"),
		SessionID: "psid-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Namaste! Kasto chha?", resp.Content)
	assert.Equal(t, 12, resp.TokensIn)
	assert.Equal(t, 5, resp.TokensOut)
	assert.Equal(t, "stop", resp.StopReason)

	assert.Equal(t, DefaultOpenAIModel, captured["model"])
	assert.Equal(t, "psid-1", captured["user"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "You are Maya.", messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestOpenAIClient_EmptyChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","model":"gpt-4o-mini","choices":[]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAICompatibleClient("test-key", srv.URL, "")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), &CompletionRequest{Messages: UserMessage("hi")})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIClient_HTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAICompatibleClient("bad", srv.URL, "")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), &CompletionRequest{Messages: UserMessage("hi")})
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ProviderOpenAI, "", "", "")
	assert.Error(t, err)

	_, err = NewClient("mystery", "key", "", "")
	assert.Error(t, err)

	c, err := NewClient(ProviderAnthropic, "key", "", "")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())

	c, err = NewClient(ProviderOpenAI, "key", "", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
}

func TestUnavailableClient(t *testing.T) {
	reason := errors.New("no api key")
	c := NewUnavailableClient(reason)

	_, err := c.Complete(context.Background(), &CompletionRequest{})
	assert.ErrorIs(t, err, reason)
	assert.Equal(t, "unavailable", c.Name())
}
