package tripo

// Task statuses reported by the Tripo3D API.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusBanned    = "banned"
	StatusExpired   = "expired"
	StatusUnknown   = "unknown"
)

// Task is the remote task record returned by GET /v2/openapi/task/{id}.
type Task struct {
	TaskID   string     `json:"task_id"`
	Type     string     `json:"type"`
	Status   string     `json:"status"`
	Progress int        `json:"progress"`
	Output   TaskOutput `json:"output"`
}

// TaskOutput holds the downloadable artifacts of a finished task. Fields the
// API leaves empty are omitted from the download set.
type TaskOutput struct {
	Model         string `json:"model"`
	BaseModel     string `json:"base_model"`
	PBRModel      string `json:"pbr_model"`
	RenderedImage string `json:"rendered_image"`
}

// IsTerminal reports whether the task reached a state that will never change.
func (t *Task) IsTerminal() bool {
	switch t.Status {
	case StatusSuccess, StatusFailed, StatusCancelled, StatusBanned, StatusExpired, StatusUnknown:
		return true
	}
	return false
}

// downloadSet returns name -> URL for every artifact the task produced.
func (t *Task) downloadSet() map[string]string {
	out := make(map[string]string, 4)
	if t.Output.Model != "" {
		out["model"] = t.Output.Model
	}
	if t.Output.BaseModel != "" {
		out["base_model"] = t.Output.BaseModel
	}
	if t.Output.PBRModel != "" {
		out["pbr_model"] = t.Output.PBRModel
	}
	if t.Output.RenderedImage != "" {
		out["rendered_image"] = t.Output.RenderedImage
	}
	return out
}
