package genai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritest/veritest-backend/internal/config"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced json block",
			in:   "```json\n[{\"question\":\"What is Go?\"}]\n```",
			want: `[{"question":"What is Go?"}]`,
		},
		{
			name: "fenced without language tag",
			in:   "```\n{\"score\": 4}\n```",
			want: `{"score": 4}`,
		},
		{
			name: "bare json untouched",
			in:   `[1, 2, 3]`,
			want: `[1, 2, 3]`,
		},
		{
			name: "surrounding whitespace",
			in:   "\n\n  ```json\n{}\n```  \n",
			want: `{}`,
		},
		{
			name: "unterminated fence",
			in:   "```json\n[\"partial\"]",
			want: `["partial"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello from the model"}]}}]}`))
	}))
	defer srv.Close()

	client := New(&config.Config{
		GeminiBaseURL: srv.URL,
		GeminiAPIKey:  "test-key",
		GeminiModel:   "gemini-2.0-flash",
	}, zerolog.Nop())

	text, err := client.GenerateContent(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", text)
}

func TestGenerateContentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	client := New(&config.Config{
		GeminiBaseURL: srv.URL,
		GeminiAPIKey:  "test-key",
		GeminiModel:   "gemini-2.0-flash",
	}, zerolog.Nop())

	_, err := client.GenerateContent(context.Background(), "say hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateContentNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := New(&config.Config{
		GeminiBaseURL: srv.URL,
		GeminiAPIKey:  "k",
		GeminiModel:   "m",
	}, zerolog.Nop())

	_, err := client.GenerateContent(context.Background(), "prompt")
	require.Error(t, err)
}
