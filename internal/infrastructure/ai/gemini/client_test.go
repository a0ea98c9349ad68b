package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/fridgeraider/fridgeraider/internal/domain/chat"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

func TestToSchema(t *testing.T) {
	in := outbound.ArrayOf(outbound.Object(
		[]string{"name", "amount"},
		map[string]*outbound.Schema{
			"name":   outbound.Primitive(outbound.TypeString, "ingredient"),
			"amount": outbound.Primitive(outbound.TypeNumber, ""),
		},
		"name",
	))

	out := toSchema(in)

	require.NotNil(t, out.Items)
	assert.Equal(t, genai.TypeArray, out.Type)
	assert.Equal(t, genai.TypeObject, out.Items.Type)
	assert.Equal(t, []string{"name", "amount"}, out.Items.PropertyOrdering)
	assert.Equal(t, []string{"name"}, out.Items.Required)
	assert.Equal(t, genai.TypeNumber, out.Items.Properties["amount"].Type)
	assert.Equal(t, "ingredient", out.Items.Properties["name"].Description)
}

func TestCitations(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A"}},
					{Web: &genai.GroundingChunkWeb{URI: "https://a.example", Title: "A again"}},
					{Web: &genai.GroundingChunkWeb{Title: "no uri"}},
					{},
				},
			},
		}},
	}

	assert.Equal(t, []chat.Citation{{Title: "A", URI: "https://a.example"}}, citations(resp))
	assert.Nil(t, citations(&genai.GenerateContentResponse{}))
}

func TestContentConfig(t *testing.T) {
	c := &Client{fastModel: "fast", capableModel: "capable", temperature: 0.5}

	plain := c.contentConfig(outbound.GenerateRequest{})
	assert.Empty(t, plain.ResponseMIMEType)
	assert.Nil(t, plain.Tools)

	structured := c.contentConfig(outbound.GenerateRequest{Schema: outbound.Primitive(outbound.TypeString, ""), WebSearch: true})
	assert.Equal(t, "application/json", structured.ResponseMIMEType)
	require.Len(t, structured.Tools, 1)
	assert.NotNil(t, structured.Tools[0].GoogleSearch)

	assert.Equal(t, "capable", c.model(outbound.TierCapable))
	assert.Equal(t, "fast", c.model(outbound.TierFast))
}

func TestWithTimeout(t *testing.T) {
	bounded := &Client{timeout: time.Minute}
	ctx, cancel := bounded.withTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)

	unbounded := &Client{}
	ctx, cancel = unbounded.withTimeout(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok, "streams and zero timeouts carry no deadline")
}
