package model

import "time"

type Dimension string

const (
	DimensionArchitecture Dimension = "architecture"
	DimensionSecurity     Dimension = "security"
	DimensionPerformance  Dimension = "performance"
	DimensionQuality      Dimension = "quality"
)

// Dimensions lists every dimension in the order analyses are requested.
var Dimensions = []Dimension{DimensionArchitecture, DimensionSecurity, DimensionPerformance, DimensionQuality}

type Issue struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Suggestion  string   `json:"suggestion"`
}

type DimensionAnalysis struct {
	Dimension       Dimension `json:"dimension"`
	Score           int       `json:"score"`
	Issues          []Issue   `json:"issues"`
	Recommendations []string  `json:"recommendations"`
}

type SuggestedFile struct {
	Path     string `json:"path"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

type StructuralAnalysis struct {
	Understanding  string          `json:"understanding"`
	ProjectType    string          `json:"projectType"`
	TechStack      []string        `json:"techStack"`
	Complexity     string          `json:"complexity"`
	SuggestedFiles []SuggestedFile `json:"suggestedFiles"`
}

type FileIssue struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Line        *int     `json:"line,omitempty"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

type FileReview struct {
	File   string      `json:"file"`
	Issues []FileIssue `json:"issues"`
}

type Suggestion struct {
	File     string `json:"file"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

type Metrics struct {
	CodeQuality     int `json:"codeQuality"`
	Maintainability int `json:"maintainability"`
	Performance     int `json:"performance"`
	Security        int `json:"security"`
}

// AnalysisResult is the output of one orchestration run. It is never mutated
// once returned.
type AnalysisResult struct {
	Summary         string              `json:"summary"`
	Issues          []Issue             `json:"issues"`
	Suggestions     []Suggestion        `json:"suggestions"`
	Metrics         Metrics             `json:"metrics"`
	Recommendations []string            `json:"recommendations"`
	Artifacts       []GeneratedArtifact `json:"artifacts"`
	Decisions       []DecisionItem      `json:"decisions"`
}

type AnalysisKind string

const (
	AnalysisKindQuick AnalysisKind = "quick"
	AnalysisKindDeep  AnalysisKind = "deep"
)

type Risk struct {
	Issue      string   `json:"issue"`
	Severity   Severity `json:"severity"`
	Mitigation string   `json:"mitigation"`
}

type Assumption struct {
	Recommendation string `json:"recommendation"`
	Validated      bool   `json:"validated"`
}

type NextStep struct {
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
}

// Analysis is a persisted AnalysisResult with the derived columns.
type Analysis struct {
	ID            int64          `json:"id"`
	ProjectID     int64          `json:"project_id"`
	UserID        int64          `json:"user_id"`
	Kind          AnalysisKind   `json:"kind"`
	Result        AnalysisResult `json:"result"`
	Risks         []Risk         `json:"risks"`
	Assumptions   []Assumption   `json:"assumptions"`
	NextSteps     []NextStep     `json:"next_steps"`
	IssueCount    int32          `json:"issue_count"`
	CriticalCount int32          `json:"critical_count"`
	CreatedAt     time.Time      `json:"created_at"`
}

type AnalysisStats struct {
	TotalAnalyses  int64      `json:"total_analyses"`
	DeepAnalyses   int64      `json:"deep_analyses"`
	TotalIssues    int64      `json:"total_issues"`
	CriticalIssues int64      `json:"critical_issues"`
	LastAnalysisAt *time.Time `json:"last_analysis_at,omitempty"`
}
