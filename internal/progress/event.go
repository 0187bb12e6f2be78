// Package progress carries analysis progress events from the orchestrator to
// SSE subscribers. Delivery is at-most-once with no replay: events published
// before a subscriber attaches are not seen by it.
package progress

type Status string

const (
	StatusQueued     Status = "queued"
	StatusScanning   Status = "scanning"
	StatusIndexing   Status = "indexing"
	StatusStructural Status = "gpt_structural"
	StatusDimensions Status = "claude_dimensions"
	StatusDeep       Status = "analyzing_deep"
	StatusMerging    Status = "merging"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Percent is the fixed progress value reported with each status.
func (s Status) Percent() int {
	switch s {
	case StatusScanning:
		return 10
	case StatusIndexing:
		return 20
	case StatusStructural:
		return 30
	case StatusDimensions:
		return 60
	case StatusDeep:
		return 70
	case StatusMerging:
		return 90
	case StatusCompleted:
		return 100
	default:
		return 0
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

type Event struct {
	ProjectID      int64    `json:"projectId,string"`
	Status         Status   `json:"status"`
	Message        string   `json:"message"`
	Progress       int      `json:"progress"`
	SuggestedFiles []string `json:"suggestedFiles,omitempty"`
}

func NewEvent(projectID int64, status Status, message string) Event {
	return Event{
		ProjectID: projectID,
		Status:    status,
		Message:   message,
		Progress:  status.Percent(),
	}
}

func (e Event) WithSuggestedFiles(files []string) Event {
	e.SuggestedFiles = files
	return e
}
