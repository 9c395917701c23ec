package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMarshalPlain(t *testing.T) {
	m := Message{Role: "user", Content: "hello"}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hello"}`, string(b))
}

func TestMessageMarshalMultimodal(t *testing.T) {
	m := Message{
		Role: "user",
		Parts: []ContentPart{
			{Type: "text", Text: "Describe this image"},
			{Type: "image_url", ImageURL: &ImageURL{URL: "data:image/png;base64,iVBOR"}},
		},
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "user", decoded["role"])

	parts, ok := decoded["content"].([]any)
	require.True(t, ok, "multimodal content must encode as an array")
	require.Len(t, parts, 2)

	img := parts[1].(map[string]any)
	assert.Equal(t, "image_url", img["type"])
	assert.Equal(t, "data:image/png;base64,iVBOR", img["image_url"].(map[string]any)["url"])
}

func TestMessageUnmarshalBothShapes(t *testing.T) {
	var plain Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":"hi"}`), &plain))
	assert.Equal(t, "hi", plain.Content)
	assert.Empty(t, plain.Parts)

	var multi Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":[{"type":"text","text":"hi"}]}`), &multi))
	require.Len(t, multi.Parts, 1)
	assert.Equal(t, "hi", multi.Parts[0].Text)
}

func TestChatRequestRoundTrip(t *testing.T) {
	req := ChatRequest{
		Model:     "anthropic/claude-sonnet-4",
		Messages:  []Message{{Role: "user", Content: "ping"}},
		MaxTokens: 1024,
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var back ChatRequest
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, req.Model, back.Model)
	assert.Equal(t, 1024, back.MaxTokens)
	require.Len(t, back.Messages, 1)
	assert.Equal(t, "ping", back.Messages[0].Content)
}

func TestStatusError(t *testing.T) {
	err := ErrBadRequest("no image data")
	assert.Equal(t, 400, err.StatusCode)
	assert.Equal(t, "no image data", err.Error())

	wrapped := WrapError(assert.AnError, 502, "upstream failed")
	assert.Equal(t, 502, wrapped.StatusCode)
	assert.Contains(t, wrapped.Error(), "upstream failed")
}
