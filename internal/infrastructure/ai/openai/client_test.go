package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap/zaptest"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// fakeLLM replays canned content, streaming it in the given pieces.
type fakeLLM struct {
	pieces   []string
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	f.opts = llms.CallOptions{}
	for _, opt := range options {
		opt(&f.opts)
	}
	content := ""
	for _, p := range f.pieces {
		if f.opts.StreamingFunc != nil {
			if err := f.opts.StreamingFunc(ctx, []byte(p)); err != nil {
				return nil, err
			}
		}
		content += p
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func newTestClient(t *testing.T, llm llms.Model) *Client {
	return newClient(llm, config.AIConfig{FastModel: "small", CapableModel: "large", Temperature: 0.2}, zaptest.NewLogger(t))
}

func TestGenerate_SchemaTravelsAsSystemMessage(t *testing.T) {
	llm := &fakeLLM{pieces: []string{`{"isValid":true}`}}
	c := newTestClient(t, llm)

	resp, err := c.Generate(context.Background(), outbound.GenerateRequest{
		Tier:   outbound.TierCapable,
		Prompt: "is milk food?",
		Schema: outbound.Primitive(outbound.TypeBoolean, ""),
	})

	require.NoError(t, err)
	assert.Equal(t, `{"isValid":true}`, resp.Text)
	assert.Equal(t, "large", resp.Model)
	assert.Equal(t, "large", llm.opts.Model)
	assert.True(t, llm.opts.JSONMode)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, llm.messages[0].Role)
}

func TestGenerate_EmptyReply(t *testing.T) {
	c := newTestClient(t, &fakeLLM{})

	_, err := c.Generate(context.Background(), outbound.GenerateRequest{Prompt: "hi"})

	assert.Error(t, err)
}

func TestStream_YieldsPieces(t *testing.T) {
	c := newTestClient(t, &fakeLLM{pieces: []string{"Hel", "", "lo"}})

	var got []string
	for chunk, err := range c.Stream(context.Background(), outbound.GenerateRequest{Prompt: "hi"}) {
		require.NoError(t, err)
		got = append(got, chunk.Text)
	}

	assert.Equal(t, []string{"Hel", "lo"}, got)
}

func TestStream_EarlyBreak(t *testing.T) {
	c := newTestClient(t, &fakeLLM{pieces: []string{"a", "b", "c"}})

	count := 0
	for range c.Stream(context.Background(), outbound.GenerateRequest{Prompt: "hi"}) {
		count++
		break
	}

	assert.Equal(t, 1, count)
}

func TestStream_Error(t *testing.T) {
	c := newTestClient(t, &fakeLLM{pieces: []string{"partial"}, err: errors.New("boom")})

	var lastErr error
	for _, err := range c.Stream(context.Background(), outbound.GenerateRequest{Prompt: "hi"}) {
		lastErr = err
	}

	assert.ErrorContains(t, lastErr, "boom")
}
