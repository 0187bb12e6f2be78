package model

import "time"

type ActionType string

const (
	ActionAnalysisCompleted ActionType = "analysis_completed"
	ActionAnalysisQueued    ActionType = "analysis_queued"
	ActionDecisionUpdated   ActionType = "decision_updated"
)

type ActionHistoryEntry struct {
	ID        int64          `json:"id"`
	ProjectID int64          `json:"project_id"`
	UserID    int64          `json:"user_id"`
	Action    ActionType     `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}
