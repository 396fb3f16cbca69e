package model

// Passage is a retrieved piece of text tagged with the namespace it came from.
type Passage struct {
	ID        string         `json:"id"`
	Namespace string         `json:"namespace"`
	Content   string         `json:"content"`
	Score     float32        `json:"score"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NamespaceResult is the outcome of searching a single namespace.
// Err is set when the search failed; Passages is then empty.
type NamespaceResult struct {
	Namespace string
	Passages  []Passage
	Err       error
}

// AnswerChunk is one piece of a streamed generation. A chunk with Err set
// is always the last one on its channel.
type AnswerChunk struct {
	Text string
	Err  error
}

type AskRequest struct {
	Question string `json:"question"`
}
