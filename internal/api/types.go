package api

import "encoding/json"

// ChatRequest represents a chat completion request in the OpenAI-compatible
// wire shape, both as received from clients and as forwarded upstream.
type ChatRequest struct {
	Model     string    `binding:"required"            json:"model"`
	Messages  []Message `binding:"required,min=1,dive" json:"messages"`
	Stream    *bool     `json:"stream,omitempty"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// Message is a single chat message. Content carries plain text; Parts carries
// multimodal content (text plus inline images). Exactly one of the two is
// set, and MarshalJSON picks the matching wire encoding.
type Message struct {
	Role    string        `binding:"required,oneof=system user assistant tool" json:"role"`
	Content string        `json:"-"`
	Parts   []ContentPart `json:"-"`
}

// ContentPart is one element of a multimodal message body.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference; for piped images this is a
// data:<mime>;base64,<payload> URI.
type ImageURL struct {
	URL string `json:"url"`
}

// MarshalJSON emits string content for plain messages and a part array for
// multimodal ones.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(struct {
			Role    string        `json:"role"`
			Content []ContentPart `json:"content"`
		}{Role: m.Role, Content: m.Parts})
	}
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: m.Role, Content: m.Content})
}

// UnmarshalJSON accepts both wire encodings of content.
func (m *Message) UnmarshalJSON(data []byte) error {
	var plain struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &plain); err == nil {
		m.Role = plain.Role
		m.Content = plain.Content
		return nil
	}
	var multi struct {
		Role    string        `json:"role"`
		Content []ContentPart `json:"content"`
	}
	if err := json.Unmarshal(data, &multi); err != nil {
		return err
	}
	m.Role = multi.Role
	m.Parts = multi.Content
	return nil
}

// DescribeRequest is the CLI-to-service payload for the piped-image path:
// raw image bytes, base64 encoded, with the sniffed mime type.
type DescribeRequest struct {
	Data     string `binding:"required" json:"data"`
	MimeType string `binding:"required" json:"mime_type"`
	Prompt   string `json:"prompt,omitempty"`
}
