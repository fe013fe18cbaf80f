package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Options{APIKey: "test-key", URL: server.URL, Timeout: time.Second})
}

func temp(v float64) *float64 { return &v }

func TestNewClient_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		expectedTemp float64
		expectedURL  string
		configured   bool
	}{
		{"defaults", Options{APIKey: "k"}, defaultTemperature, defaultAPIURL, true},
		{"negative temperature", Options{APIKey: "k", Temperature: temp(-1)}, defaultTemperature, defaultAPIURL, true},
		{"zero temperature", Options{APIKey: "k", Temperature: temp(0)}, 0, defaultAPIURL, true},
		{"custom", Options{APIKey: "k", URL: "http://x", Temperature: temp(0.7)}, 0.7, "http://x", true},
		{"no key", Options{}, defaultTemperature, defaultAPIURL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.opts)
			assert.Equal(t, tt.expectedTemp, c.temperature)
			assert.Equal(t, tt.expectedURL, c.apiURL)
			assert.Equal(t, defaultModel, c.model)
			assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
			assert.Equal(t, tt.configured, c.IsConfigured())
		})
	}
}

func TestAsk_Success(t *testing.T) {
	var got chatRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"event_title": "Team sync", "start_datetime": null}`))
	})

	raw, err := client.Ask(context.Background(), "extract this")
	require.NoError(t, err)

	assert.JSONEq(t, `{"event_title": "Team sync", "start_datetime": null}`, string(raw))
	assert.Equal(t, defaultModel, got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, defaultTemperature, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "extract this", got.Messages[0].Content)
}

func TestAsk_FencedContent(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion("```json\n{\"title\": \"a {b}\"}\n```"))
	})

	raw, err := client.Ask(context.Background(), "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "a {b}"}`, string(raw))
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind Kind
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantKind: Transport,
		},
		{
			name: "envelope not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			wantKind: Malformed,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
			wantKind: Malformed,
		},
		{
			name: "content is prose",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(completion("I could not find an event"))
			},
			wantKind: Malformed,
		},
		{
			name: "content is truncated json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(completion(`{"title": "x"`))
			},
			wantKind: Malformed,
		},
		{
			name: "api error object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error": {"type": "auth", "message": "bad key"}}`))
			},
			wantKind: Transport,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(1500 * time.Millisecond)
			},
			wantKind: Transport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, tt.handler)

			raw, err := client.Ask(context.Background(), "p")
			require.Error(t, err)
			assert.Nil(t, raw)

			failure, ok := IsFailure(err)
			require.True(t, ok, "expected *Failure, got %T", err)
			assert.Equal(t, tt.wantKind, failure.Kind)
		})
	}
}

func TestAsk_NotConfigured(t *testing.T) {
	client := NewClient(Options{})

	_, err := client.Ask(context.Background(), "p")
	failure, ok := IsFailure(err)
	require.True(t, ok)
	assert.Equal(t, Transport, failure.Kind)
}

func TestAsk_ContextCancelled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Ask(ctx, "p")
	failure, ok := IsFailure(err)
	require.True(t, ok)
	assert.Equal(t, Transport, failure.Kind)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Here you go: {"a":{"b":2}} thanks`, `{"a":{"b":2}}`},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`},
		{"escaped quote", `{"a":"\"}"}`, `{"a":"\"}"}`},
		{"no object", "  nothing  ", "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	s := "Встреча"

	assert.Equal(t, s, truncate(s, len(s)))
	for n := 0; n < len(s); n++ {
		got := truncate(s, n)
		assert.True(t, utf8.ValidString(got), "cut at %d: %q", n, got)
		assert.LessOrEqual(t, len(got), n+len("..."))
	}
	assert.Equal(t, "Вс...", truncate(s, 5))
}
