package queue

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AnalysisJob asks a worker to run one analysis on behalf of a user.
// An empty DeepFiles list means a quick analysis.
type AnalysisJob struct {
	ProjectID int64
	UserID    int64
	DeepFiles []string
	TraceID   string
	Attempt   int
}

// JobValues encodes a job as Redis stream fields.
func JobValues(job AnalysisJob, attempt int) map[string]any {
	if attempt <= 0 {
		attempt = 1
	}
	values := map[string]any{
		"project_id": strconv.FormatInt(job.ProjectID, 10),
		"user_id":    strconv.FormatInt(job.UserID, 10),
		"attempt":    attempt,
	}
	if len(job.DeepFiles) > 0 {
		encoded, _ := json.Marshal(job.DeepFiles)
		values["deep_files"] = string(encoded)
	}
	if job.TraceID != "" {
		values["trace_id"] = job.TraceID
	}
	return values
}

func parseDeepFiles(values map[string]any) ([]string, error) {
	raw, err := parseOptionalString(values, "deep_files")
	if err != nil || raw == "" {
		return nil, err
	}
	var files []string
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, fmt.Errorf("parsing deep_files: %w", err)
	}
	return files, nil
}
