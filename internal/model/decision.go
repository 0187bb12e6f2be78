package model

import "time"

type DecisionRecommendation string

const (
	RecommendationHighPriority   DecisionRecommendation = "high_priority"
	RecommendationMediumPriority DecisionRecommendation = "medium_priority"
	RecommendationLowPriority    DecisionRecommendation = "low_priority"
)

type DecisionStatus string

const (
	DecisionStatusPending   DecisionStatus = "pending"
	DecisionStatusConfirmed DecisionStatus = "confirmed"
	DecisionStatusRejected  DecisionStatus = "rejected"
)

func (s DecisionStatus) Valid() bool {
	switch s {
	case DecisionStatusPending, DecisionStatusConfirmed, DecisionStatusRejected:
		return true
	}
	return false
}

type DecisionItem struct {
	Title           string                 `json:"title"`
	Category        string                 `json:"category"`
	Description     string                 `json:"description"`
	Pros            []string               `json:"pros"`
	Cons            []string               `json:"cons"`
	Recommendation  DecisionRecommendation `json:"recommendation"`
	EstimatedEffort string                 `json:"estimatedEffort"`
}

type Decision struct {
	ID         int64          `json:"id"`
	AnalysisID int64          `json:"analysis_id"`
	ProjectID  int64          `json:"project_id"`
	Item       DecisionItem   `json:"item"`
	Status     DecisionStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
