package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interviewer-be/pkg/llm"
)

func TestChatSendsOllamaWireFormat(t *testing.T) {
	var captured ollamaChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   captured.Model,
			Message: ollamaMessage{Role: "assistant", Content: `{"question": "Q1"}`},
			Done:    true,
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	out, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "You interview people."},
		{Role: "user", Content: "Start."},
	}, llm.WithTemperature(0.2), llm.WithMaxTokens(128))

	require.NoError(t, err)
	assert.Equal(t, `{"question": "Q1"}`, out)
	assert.Equal(t, "llama3", captured.Model)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	require.NotNil(t, captured.Options)
	assert.Equal(t, 0.2, captured.Options.Temperature)
	assert.Equal(t, 128, captured.Options.NumPredict)
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var captured ollamaChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "ok"},
			Done:    true,
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "model", Content: "previous turn"},
	})

	require.NoError(t, err)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
}

func TestChatSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "nope")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.ErrorContains(t, err, "status 404")
}
