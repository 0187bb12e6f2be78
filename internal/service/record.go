package service

import (
	"fmt"

	"orion.app/api/internal/model"
)

const nextStepStatusPending = "pending"

// NewAnalysisRecord derives the persisted row from a result: risks from
// critical and high issues, assumptions from recommendations, next steps from
// suggested files.
func NewAnalysisRecord(id, projectID, userID int64, kind model.AnalysisKind, result *model.AnalysisResult) *model.Analysis {
	record := &model.Analysis{
		ID:          id,
		ProjectID:   projectID,
		UserID:      userID,
		Kind:        kind,
		Result:      *result,
		Risks:       []model.Risk{},
		Assumptions: []model.Assumption{},
		NextSteps:   []model.NextStep{},
		IssueCount:  int32(len(result.Issues)),
	}

	for _, issue := range result.Issues {
		if issue.Severity == model.SeverityCritical {
			record.CriticalCount++
		}
		if !issue.Severity.AtLeast(model.SeverityHigh) {
			continue
		}
		mitigation := issue.Suggestion
		if mitigation == "" {
			mitigation = fmt.Sprintf("Review %s findings", issue.Category)
		}
		record.Risks = append(record.Risks, model.Risk{
			Issue:      issue.Description,
			Severity:   issue.Severity,
			Mitigation: mitigation,
		})
	}

	for _, rec := range result.Recommendations {
		record.Assumptions = append(record.Assumptions, model.Assumption{Recommendation: rec})
	}

	for _, s := range result.Suggestions {
		step := "Review " + s.File
		if s.Reason != "" {
			step += ": " + s.Reason
		}
		priority := s.Priority
		if priority == "" {
			priority = "medium"
		}
		record.NextSteps = append(record.NextSteps, model.NextStep{
			Suggestion: step,
			Priority:   priority,
			Status:     nextStepStatusPending,
		})
	}

	return record
}
