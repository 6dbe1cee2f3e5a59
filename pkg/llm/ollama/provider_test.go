package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"edudash-be/internal/pkg/apperrors"
	"edudash-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStreamTokensAndToolCalls(t *testing.T) {
	lines := []string{
		`{"message":{"role":"assistant","content":"Hel"},"done":false}`,
		`{"message":{"role":"assistant","content":"lo"},"done":false}`,
		`{"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"get_user_courses","arguments":{}}}]},"done":true}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		require.Len(t, req.Tools, 1)
		assert.Equal(t, "get_user_courses", req.Tools[0].Function.Name)

		for _, line := range lines {
			w.Write([]byte(line + "\n"))
		}
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")

	var tokens []string
	result, err := provider.ChatStream(
		context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "what are my courses?"}},
		[]llm.ToolSpec{{Name: "get_user_courses", Description: "courses", Parameters: map[string]any{"type": "object"}}},
		func(tok string) { tokens = append(tokens, tok) },
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, tokens)
	assert.Equal(t, "Hello", result.Content)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "get_user_courses", result.ToolCalls[0].Name)
}

func TestChatStreamServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "missing")
	_, err := provider.ChatStream(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, nil, nil)

	assert.ErrorIs(t, err, apperrors.ErrModelService)
}

func TestChatNonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "New Conversation"},
			Done:    true,
		})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")
	out, err := provider.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "title?"}})

	require.NoError(t, err)
	assert.Equal(t, "New Conversation", out)
}
