package chat

import "iter"

// EventKind distinguishes partial text from the final event of a stream.
type EventKind string

const (
	EventPartial EventKind = "partial"
	EventDone    EventKind = "done"
)

// StreamEvent is one step of a streamed reply. Partial events carry the
// cumulative text so far. The single Done event carries the final citations.
type StreamEvent struct {
	Kind      EventKind  `json:"kind"`
	Text      string     `json:"text,omitempty"`
	Citations []Citation `json:"links,omitempty"`
}

// Partial builds a partial event.
func Partial(text string) StreamEvent {
	return StreamEvent{Kind: EventPartial, Text: text}
}

// Done builds the completion event.
func Done(citations []Citation) StreamEvent {
	if citations == nil {
		citations = []Citation{}
	}
	return StreamEvent{Kind: EventDone, Citations: citations}
}

// Drain consumes a stream through callbacks: onChunk for every partial text
// and onDone exactly once. onDone runs with no citations if the stream ends
// without a Done event. It returns the last text seen.
func Drain(stream iter.Seq[StreamEvent], onChunk func(text string), onDone func(citations []Citation)) string {
	var last string
	done := false
	for ev := range stream {
		switch ev.Kind {
		case EventPartial:
			last = ev.Text
			if onChunk != nil {
				onChunk(ev.Text)
			}
		case EventDone:
			if done {
				continue
			}
			done = true
			if onDone != nil {
				onDone(ev.Citations)
			}
		}
	}
	if !done && onDone != nil {
		onDone([]Citation{})
	}
	return last
}
