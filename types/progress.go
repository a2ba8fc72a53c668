package types

// Progress event names used on the SSE stream.
const (
	EventProgress = "progress"
	EventError    = "error"
	EventComplete = "complete"
)

// ProgressPayload is the body of a "progress" event.
type ProgressPayload struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ErrorPayload is the body of an "error" event. Exactly one terminal event
// (error or complete) ends a stream.
type ErrorPayload struct {
	Message string `json:"message"`
}

// CompletePayload is the body of a "complete" event. ModelUrl carries the
// first published URL for client compatibility; ModelUrls carries all of them.
type CompletePayload struct {
	ModelURL  string   `json:"modelUrl"`
	ModelURLs []string `json:"modelUrls,omitempty"`
}

// StreamNotice is the envelope broadcast to progress-ws monitor clients.
type StreamNotice struct {
	Token   string `json:"token"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
