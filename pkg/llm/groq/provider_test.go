package groq

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

func TestChatSendsOpenAIWireFormat(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: `{"question": "Q1"}`}},
			},
		})
	}))
	defer server.Close()

	provider := NewGroqProvider(server.URL, "test-key", "llama-3.3-70b-versatile")
	out, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "You interview people."},
		{Role: "user", Content: "Start."},
	}, llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, `{"question": "Q1"}`, out)
	assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, 0.2, captured.Temperature)
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "ok"}},
			},
		})
	}))
	defer server.Close()

	provider := NewGroqProvider(server.URL, "k", "m")
	_, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "model", Content: "previous turn"},
	})

	require.NoError(t, err)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
}

func TestChatSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewGroqProvider(server.URL, "k", "m")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.ErrorContains(t, err, "status 429")
}

func TestChatRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	provider := NewGroqProvider(server.URL, "k", "m")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	assert.ErrorContains(t, err, "no choices")
}
