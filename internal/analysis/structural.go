package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"orion.app/api/common/llm"
	"orion.app/api/internal/model"
)

const (
	structuralTemperature = 0.2
	maxSuggestedFiles     = 5

	structuralSystemPrompt = "You are a software architect classifying codebases from a structural index. Answer with JSON only."
)

type StructuralResponse struct {
	Understanding  string                  `json:"understanding" jsonschema_description:"Two or three sentences on what the project does and how it is organised"`
	ProjectType    string                  `json:"projectType" jsonschema_description:"Kind of project, e.g. REST API, SPA, CLI, library"`
	TechStack      []string                `json:"techStack" jsonschema_description:"Main languages, frameworks and libraries"`
	Complexity     string                  `json:"complexity" jsonschema:"enum=low,enum=medium,enum=high"`
	SuggestedFiles []SuggestedFileResponse `json:"suggestedFiles" jsonschema_description:"Files worth a line-level review, most important first"`
}

type SuggestedFileResponse struct {
	Path     string `json:"path" jsonschema_description:"Project-relative file path"`
	Reason   string `json:"reason" jsonschema_description:"Why the file deserves review"`
	Priority string `json:"priority" jsonschema:"enum=high,enum=medium,enum=low"`
}

var structuralSchema = llm.GenerateSchema[StructuralResponse]()

// StructuralFallback is used whenever the model reply cannot be parsed.
func StructuralFallback() model.StructuralAnalysis {
	return model.StructuralAnalysis{
		Understanding:  "",
		ProjectType:    "Unknown",
		TechStack:      []string{},
		Complexity:     "medium",
		SuggestedFiles: []model.SuggestedFile{},
	}
}

type StructuralAnalyzer struct {
	client    llm.TextClient
	maxTokens int
	logger    *slog.Logger
}

func NewStructuralAnalyzer(client llm.TextClient, maxTokens int, logger *slog.Logger) *StructuralAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructuralAnalyzer{client: client, maxTokens: maxTokens, logger: logger}
}

// AnalyzeStructure returns an error only when the model call itself fails.
// Unparseable replies yield the fallback.
func (a *StructuralAnalyzer) AnalyzeStructure(ctx context.Context, index model.CodeIndex) (Parsed[model.StructuralAnalysis], error) {
	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: structuralSystemPrompt,
		Prompt:       buildStructuralPrompt(index),
		MaxTokens:    a.maxTokens,
		Temperature:  llm.Temp(structuralTemperature),
	})
	if err != nil {
		return Parsed[model.StructuralAnalysis]{}, fmt.Errorf("structural analysis: %w", err)
	}

	raw, err := decodeResponse[StructuralResponse](resp.Text)
	if err != nil {
		a.logger.WarnContext(ctx, "structural response unparseable, using fallback",
			"model", a.client.Model(),
			"error", err)
		return parsedFallback(StructuralFallback(), err), nil
	}

	return parsedValue(normalizeStructural(raw)), nil
}

func normalizeStructural(raw StructuralResponse) model.StructuralAnalysis {
	out := model.StructuralAnalysis{
		Understanding:  raw.Understanding,
		ProjectType:    raw.ProjectType,
		TechStack:      raw.TechStack,
		Complexity:     raw.Complexity,
		SuggestedFiles: make([]model.SuggestedFile, 0, maxSuggestedFiles),
	}
	if out.ProjectType == "" {
		out.ProjectType = "Unknown"
	}
	if out.Complexity == "" {
		out.Complexity = "medium"
	}
	if out.TechStack == nil {
		out.TechStack = []string{}
	}
	for _, f := range capped(raw.SuggestedFiles, maxSuggestedFiles) {
		out.SuggestedFiles = append(out.SuggestedFiles, model.SuggestedFile{
			Path:     f.Path,
			Reason:   f.Reason,
			Priority: f.Priority,
		})
	}
	return out
}
