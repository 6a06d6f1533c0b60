package tool

// Attachment references a non-text artifact produced by a tool, such
// as an image read from disk and inlined as a data URL.
type Attachment struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
	Type      string `json:"type"`
	Mime      string `json:"mime"`
	URL       string `json:"url"`
}

// Result captures the outcome of a tool invocation.
type Result struct {
	Title       string         `json:"title"`
	Output      string         `json:"output"`
	Metadata    map[string]any `json:"metadata"`
	Attachments []Attachment   `json:"attachments,omitempty"`
}
