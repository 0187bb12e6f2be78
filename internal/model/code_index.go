package model

import "time"

// CodeIndex is the structural summary of one project scan. It is rebuilt
// wholesale on every scan.
type CodeIndex struct {
	ProjectID    int64        `json:"projectId,string"`
	Timestamp    time.Time    `json:"timestamp"`
	Stats        IndexStats   `json:"stats"`
	Structure    Structure    `json:"structure"`
	Dependencies Dependencies `json:"dependencies"`
	RiskSignals  []string     `json:"riskSignals"`
	Complexity   Complexity   `json:"complexity"`
}

type IndexStats struct {
	TotalFiles int            `json:"totalFiles"`
	TotalLines int            `json:"totalLines"`
	Languages  map[string]int `json:"languages"`
}

// Structure holds file paths per bucket. A path appears in at most one bucket.
type Structure struct {
	Controllers []string `json:"controllers"`
	Services    []string `json:"services"`
	Routes      []string `json:"routes"`
	Models      []string `json:"models"`
	Utils       []string `json:"utils"`
	Configs     []string `json:"configs"`
}

func (s Structure) Count() int {
	return len(s.Controllers) + len(s.Services) + len(s.Routes) + len(s.Models) + len(s.Utils) + len(s.Configs)
}

type Dependencies struct {
	Runtime []string `json:"runtime"`
	Dev     []string `json:"dev"`
}

type Complexity struct {
	AvgFileSize    int `json:"avgFileSize"`
	MaxFileSize    int `json:"maxFileSize"`
	DeepestNesting int `json:"deepestNesting"`
}

func NewCodeIndex(projectID int64, now time.Time) CodeIndex {
	return CodeIndex{
		ProjectID: projectID,
		Timestamp: now,
		Stats:     IndexStats{Languages: map[string]int{}},
		Structure: Structure{
			Controllers: []string{},
			Services:    []string{},
			Routes:      []string{},
			Models:      []string{},
			Utils:       []string{},
			Configs:     []string{},
		},
		Dependencies: Dependencies{Runtime: []string{}, Dev: []string{}},
		RiskSignals:  []string{},
	}
}

// StoredCodeIndex is a CodeIndex as persisted. Version increments on every save.
type StoredCodeIndex struct {
	Index     CodeIndex
	Version   int32
	CreatedAt time.Time
	UpdatedAt time.Time
}
