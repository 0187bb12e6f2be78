package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"orion.app/api/common/llm"
	"orion.app/api/internal/model"
)

const (
	dimensionTemperature = 0.3
	defaultScore         = 70
)

type DimensionResponse struct {
	Score           *float64        `json:"score" jsonschema_description:"Score from 0 to 100"`
	Issues          []IssueResponse `json:"issues"`
	Recommendations []string        `json:"recommendations" jsonschema_description:"Concrete improvement actions"`
}

type IssueResponse struct {
	Severity    model.Severity `json:"severity" jsonschema:"type=string,enum=critical,enum=high,enum=medium,enum=low"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description"`
	Location    string         `json:"location,omitempty" jsonschema_description:"File path, optionally with line"`
	Suggestion  string         `json:"suggestion"`
}

var dimensionSchema = llm.GenerateSchema[DimensionResponse]()

// DimensionFallback is used whenever the model reply cannot be parsed.
func DimensionFallback(dim model.Dimension) model.DimensionAnalysis {
	return model.DimensionAnalysis{
		Dimension:       dim,
		Score:           defaultScore,
		Issues:          []model.Issue{},
		Recommendations: []string{fmt.Sprintf("Review %s manually", dim)},
	}
}

type DimensionAnalyzer struct {
	client    llm.TextClient
	maxTokens int
	logger    *slog.Logger
}

func NewDimensionAnalyzer(client llm.TextClient, maxTokens int, logger *slog.Logger) *DimensionAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DimensionAnalyzer{client: client, maxTokens: maxTokens, logger: logger}
}

func dimensionSystemPrompt(dim model.Dimension) string {
	return fmt.Sprintf("You are a senior engineer auditing the %s of a codebase. Answer with JSON only.", dim)
}

// AnalyzeDimension returns an error only when the model call itself fails.
// Scores are passed through as returned; a missing score becomes 70.
func (a *DimensionAnalyzer) AnalyzeDimension(ctx context.Context, index model.CodeIndex, dim model.Dimension) (Parsed[model.DimensionAnalysis], error) {
	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: dimensionSystemPrompt(dim),
		Prompt:       buildDimensionPrompt(index, dim),
		MaxTokens:    a.maxTokens,
		Temperature:  llm.Temp(dimensionTemperature),
	})
	if err != nil {
		return Parsed[model.DimensionAnalysis]{}, fmt.Errorf("%s analysis: %w", dim, err)
	}

	raw, err := decodeResponse[DimensionResponse](resp.Text)
	if err != nil {
		a.logger.WarnContext(ctx, "dimension response unparseable, using fallback",
			"dimension", dim,
			"model", a.client.Model(),
			"error", err)
		return parsedFallback(DimensionFallback(dim), err), nil
	}

	return parsedValue(normalizeDimension(dim, raw)), nil
}

func normalizeDimension(dim model.Dimension, raw DimensionResponse) model.DimensionAnalysis {
	out := model.DimensionAnalysis{
		Dimension:       dim,
		Score:           defaultScore,
		Issues:          make([]model.Issue, 0, len(raw.Issues)),
		Recommendations: raw.Recommendations,
	}
	if raw.Score != nil {
		out.Score = int(math.Round(*raw.Score))
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	for _, issue := range raw.Issues {
		out.Issues = append(out.Issues, model.Issue{
			Severity:    issue.Severity,
			Category:    issue.Category,
			Description: issue.Description,
			Location:    issue.Location,
			Suggestion:  issue.Suggestion,
		})
	}
	return out
}
