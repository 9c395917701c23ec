// Package models describes the model identifiers the router advertises.
package models

// Model is one entry of the OpenAI-compatible /v1/models listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// List is the catalog response shape.
type List struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Catalog builds the model listing from the configured routing targets.
// Duplicates collapse so a shared chat/image model appears once.
func Catalog(ids ...string) List {
	seen := make(map[string]bool, len(ids))
	list := List{Object: "list"}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		list.Data = append(list.Data, Model{
			ID:      id,
			Object:  "model",
			OwnedBy: ownerOf(id),
		})
	}
	return list
}

// ownerOf derives the owner from a provider-prefixed id like
// "anthropic/claude-sonnet-4"; plain ids fall back to "claude-code-router".
func ownerOf(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '/' {
			return id[:i]
		}
	}
	return "claude-code-router"
}
