package preference

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ShouldDropBlankAndDuplicateTags(t *testing.T) {
	p := New([]string{"Vegan", " ", "gluten-free", "vegan"}, "  I am vegan  ")

	assert.Equal(t, []string{"Vegan", "gluten-free"}, p.Tags)
	assert.Equal(t, "I am vegan", p.RawText)
	assert.True(t, p.HasTags())
	assert.Equal(t, "Vegan, gluten-free", p.Describe())
}

func TestTags_ShouldNeverBeNull(t *testing.T) {
	var decoded UserPreferences
	require.NoError(t, json.Unmarshal([]byte(`{"tags":null,"rawText":"x"}`), &decoded))

	data, err := json.Marshal(decoded.Normalize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[],"rawText":"x"}`, string(data))

	data, err = json.Marshal(Empty())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[],"rawText":""}`, string(data))
	assert.False(t, Empty().HasTags())
}
