// Package chat models the assistant conversation and its streamed replies.
package chat

import "strings"

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed assistant texts.
const (
	Greeting   = "Hi! I'm your FRIDGERAIDER assistant. Ask me anything about your inventory, recipes, or search for food trends!"
	ErrorReply = "I'm sorry, I encountered an error processing your request."
	EmptyReply = "I couldn't get a response. Please try again."
)

// Citation is a web source the model grounded its answer on.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Message is one entry of the transcript. Streaming is set while an
// assistant reply is still arriving.
type Message struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"links,omitempty"`
	Streaming bool       `json:"streaming,omitempty"`
}

// Reply is a complete assistant answer.
type Reply struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"links"`
}

// CleanCitations drops citations without a uri and repeated uris, keeping
// order. The result is never nil.
func CleanCitations(in []Citation) []Citation {
	out := make([]Citation, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		uri := strings.TrimSpace(c.URI)
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = uri
		}
		out = append(out, Citation{Title: title, URI: uri})
	}
	return out
}
