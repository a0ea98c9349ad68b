package chat

// Transcript is the in-memory conversation. It is not safe for concurrent
// use; the owner serializes access.
type Transcript struct {
	messages []Message
}

// NewTranscript starts a conversation with the assistant greeting.
func NewTranscript() *Transcript {
	return &Transcript{messages: []Message{{Role: RoleAssistant, Content: Greeting}}}
}

// Append adds a message and returns its index.
func (t *Transcript) Append(m Message) int {
	t.messages = append(t.messages, m)
	return len(t.messages) - 1
}

// Update replaces the message at idx. Out of range indexes are ignored.
func (t *Transcript) Update(idx int, fn func(*Message)) {
	if idx < 0 || idx >= len(t.messages) {
		return
	}
	fn(&t.messages[idx])
}

// Messages returns a copy of the conversation.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}
