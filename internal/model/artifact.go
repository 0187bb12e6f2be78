package model

import "time"

type ArtifactType string

const (
	ArtifactTypeDocumentation ArtifactType = "documentation"
	ArtifactTypeDiagram       ArtifactType = "diagram"
	ArtifactTypeChecklist     ArtifactType = "checklist"
	ArtifactTypePlan          ArtifactType = "plan"
	ArtifactTypeReport        ArtifactType = "report"
)

type GeneratedArtifact struct {
	Name        string       `json:"name"`
	Type        ArtifactType `json:"type"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
}

type Artifact struct {
	ID          int64        `json:"id"`
	AnalysisID  int64        `json:"analysis_id"`
	ProjectID   int64        `json:"project_id"`
	Name        string       `json:"name"`
	Type        ArtifactType `json:"type"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
}
