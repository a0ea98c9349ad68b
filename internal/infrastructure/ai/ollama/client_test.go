package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	return newTimedClient(t, 0, handler)
}

func newTimedClient(t *testing.T, timeout time.Duration, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AIConfig{
		BaseURL:      srv.URL,
		FastModel:    "llama3.2:3b",
		CapableModel: "llama3.1:70b",
		Timeout:      timeout,
	}, zaptest.NewLogger(t))
}

func TestGenerate_SendsSchemaAsFormat(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Model:   got.Model,
			Message: ChatMessage{Role: "assistant", Content: `["vegan"]`},
			Done:    true,
		})
	})

	resp, err := c.Generate(context.Background(), outbound.GenerateRequest{
		Tier:   outbound.TierCapable,
		Prompt: "tags please",
		Schema: outbound.ArrayOf(outbound.Primitive(outbound.TypeString, "")),
	})

	require.NoError(t, err)
	assert.Equal(t, `["vegan"]`, resp.Text)
	assert.Equal(t, "llama3.1:70b", got.Model)
	assert.False(t, got.Stream)
	format, ok := got.Format.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", format["type"])
}

func TestGenerate_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := c.Generate(context.Background(), outbound.GenerateRequest{Prompt: "x"})

	assert.ErrorContains(t, err, "model not found")
}

func TestStream_ReadsNDJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		for _, piece := range []string{"Hel", "lo"} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", piece)
		}
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	})

	var text string
	for chunk, err := range c.Stream(context.Background(), outbound.GenerateRequest{Prompt: "hi"}) {
		require.NoError(t, err)
		text += chunk.Text
	}

	assert.Equal(t, "Hello", text)
}

func TestGenerate_TimeoutBoundsUnaryCall(t *testing.T) {
	c := newTimedClient(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	_, err := c.Generate(context.Background(), outbound.GenerateRequest{Prompt: "x"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStream_OutlivesUnaryTimeout(t *testing.T) {
	c := newTimedClient(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, piece := range []string{"Slow ", "stew"} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", piece)
			flusher.Flush()
			time.Sleep(80 * time.Millisecond)
		}
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	})

	var text string
	for chunk, err := range c.Stream(context.Background(), outbound.GenerateRequest{Prompt: "hi"}) {
		require.NoError(t, err)
		text += chunk.Text
	}

	assert.Equal(t, "Slow stew", text)
}

func TestStream_TruncatedStreamIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"Hi"},"done":false}`)
	})

	var lastErr error
	for _, err := range c.Stream(context.Background(), outbound.GenerateRequest{Prompt: "hi"}) {
		lastErr = err
	}

	assert.Error(t, lastErr)
}

func TestHealthCheck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, c.HealthCheck(context.Background()))
}
