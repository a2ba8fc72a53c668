package types

// Generation result statuses. The relay boundary always returns one of these,
// it never lets a collaborator error escape as a Go error.
const (
	GenerationSuccess = "success"
	GenerationFailed  = "failed"
	GenerationError   = "error"
)

// GenerationResult is the normalized outcome of one remote generation task.
type GenerationResult struct {
	Status string            `json:"status"`
	Files  map[string]string `json:"files,omitempty"` // output name -> local path
	Detail string            `json:"detail,omitempty"`
}

// Succeeded reports whether the remote task reached a successful terminal state.
func (r GenerationResult) Succeeded() bool {
	return r.Status == GenerationSuccess
}
