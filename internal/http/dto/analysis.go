package dto

import (
	"time"

	"orion.app/api/internal/model"
	"orion.app/api/internal/service"
)

type AnalyzeDeepRequest struct {
	DeepFiles []string `json:"deepFiles" binding:"required"`
}

// AnalyzeAsyncRequest is optional; an empty body queues a quick analysis.
type AnalyzeAsyncRequest struct {
	DeepFiles []string `json:"deepFiles"`
}

type UpdateDecisionRequest struct {
	Status model.DecisionStatus `json:"status" binding:"required"`
}

type AnalysisResponse struct {
	ID            int64                `json:"id,string"`
	ProjectID     int64                `json:"projectId,string"`
	UserID        int64                `json:"userId,string"`
	Kind          model.AnalysisKind   `json:"kind"`
	Result        model.AnalysisResult `json:"result"`
	Risks         []model.Risk         `json:"risks"`
	Assumptions   []model.Assumption   `json:"assumptions"`
	NextSteps     []model.NextStep     `json:"nextSteps"`
	IssueCount    int32                `json:"issueCount"`
	CriticalCount int32                `json:"criticalCount"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func ToAnalysisResponse(a *model.Analysis) AnalysisResponse {
	return AnalysisResponse{
		ID:            a.ID,
		ProjectID:     a.ProjectID,
		UserID:        a.UserID,
		Kind:          a.Kind,
		Result:        a.Result,
		Risks:         nonNil(a.Risks),
		Assumptions:   nonNil(a.Assumptions),
		NextSteps:     nonNil(a.NextSteps),
		IssueCount:    a.IssueCount,
		CriticalCount: a.CriticalCount,
		CreatedAt:     a.CreatedAt,
	}
}

// AnalysisSummaryResponse is the list form; it leaves out the full result.
type AnalysisSummaryResponse struct {
	ID            int64              `json:"id,string"`
	ProjectID     int64              `json:"projectId,string"`
	Kind          model.AnalysisKind `json:"kind"`
	Summary       string             `json:"summary"`
	Metrics       model.Metrics      `json:"metrics"`
	IssueCount    int32              `json:"issueCount"`
	CriticalCount int32              `json:"criticalCount"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func ToAnalysisSummaries(analyses []model.Analysis) []AnalysisSummaryResponse {
	out := make([]AnalysisSummaryResponse, len(analyses))
	for i, a := range analyses {
		out[i] = AnalysisSummaryResponse{
			ID:            a.ID,
			ProjectID:     a.ProjectID,
			Kind:          a.Kind,
			Summary:       a.Result.Summary,
			Metrics:       a.Result.Metrics,
			IssueCount:    a.IssueCount,
			CriticalCount: a.CriticalCount,
			CreatedAt:     a.CreatedAt,
		}
	}
	return out
}

type StatsResponse struct {
	TotalAnalyses  int64      `json:"totalAnalyses"`
	DeepAnalyses   int64      `json:"deepAnalyses"`
	TotalIssues    int64      `json:"totalIssues"`
	CriticalIssues int64      `json:"criticalIssues"`
	LastAnalysisAt *time.Time `json:"lastAnalysisAt"`
}

func ToStatsResponse(s *model.AnalysisStats) StatsResponse {
	return StatsResponse{
		TotalAnalyses:  s.TotalAnalyses,
		DeepAnalyses:   s.DeepAnalyses,
		TotalIssues:    s.TotalIssues,
		CriticalIssues: s.CriticalIssues,
		LastAnalysisAt: s.LastAnalysisAt,
	}
}

type ArtifactResponse struct {
	ID          int64              `json:"id,string"`
	AnalysisID  int64              `json:"analysisId,string"`
	Name        string             `json:"name"`
	Type        model.ArtifactType `json:"type"`
	Description string             `json:"description"`
	Content     string             `json:"content"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func ToArtifactResponses(artifacts []model.Artifact) []ArtifactResponse {
	out := make([]ArtifactResponse, len(artifacts))
	for i, a := range artifacts {
		out[i] = ArtifactResponse{
			ID:          a.ID,
			AnalysisID:  a.AnalysisID,
			Name:        a.Name,
			Type:        a.Type,
			Description: a.Description,
			Content:     a.Content,
			CreatedAt:   a.CreatedAt,
		}
	}
	return out
}

type DecisionResponse struct {
	ID         int64 `json:"id,string"`
	AnalysisID int64 `json:"analysisId,string"`
	model.DecisionItem
	Status    model.DecisionStatus `json:"status"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func ToDecisionResponse(d *model.Decision) DecisionResponse {
	return DecisionResponse{
		ID:           d.ID,
		AnalysisID:   d.AnalysisID,
		DecisionItem: d.Item,
		Status:       d.Status,
		UpdatedAt:    d.UpdatedAt,
	}
}

func ToDecisionResponses(decisions []model.Decision) []DecisionResponse {
	out := make([]DecisionResponse, len(decisions))
	for i := range decisions {
		out[i] = ToDecisionResponse(&decisions[i])
	}
	return out
}

type CodeIndexResponse struct {
	Index     model.CodeIndex `json:"index"`
	Version   int32           `json:"version"`
	Stale     bool            `json:"stale"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func ToCodeIndexResponse(v *service.CodeIndexView) CodeIndexResponse {
	return CodeIndexResponse{
		Index:     v.Index.Index,
		Version:   v.Index.Version,
		Stale:     v.Stale,
		UpdatedAt: v.Index.UpdatedAt,
	}
}

type EnqueueResponse struct {
	JobID     string `json:"jobId"`
	ProjectID int64  `json:"projectId,string"`
	Status    string `json:"status"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
