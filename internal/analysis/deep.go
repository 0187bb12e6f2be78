package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"orion.app/api/common/llm"
	"orion.app/api/internal/filestore"
	"orion.app/api/internal/model"
)

const (
	deepTemperature     = 0.2
	defaultDeepMaxBytes = 12000

	deepSystemPrompt = "You are a meticulous code reviewer. Report only real, specific problems. Answer with JSON only."
)

type DeepResponse struct {
	Issues []FileIssueResponse `json:"issues"`
}

type FileIssueResponse struct {
	Severity    model.Severity `json:"severity" jsonschema:"type=string,enum=critical,enum=high,enum=medium,enum=low"`
	Category    string         `json:"category"`
	Line        *int           `json:"line,omitempty" jsonschema_description:"1-based line number when known"`
	Description string         `json:"description"`
	Suggestion  string         `json:"suggestion"`
}

var deepSchema = llm.GenerateSchema[DeepResponse]()

type DeepAnalyzer struct {
	client    llm.TextClient
	files     filestore.Reader
	maxTokens int
	maxBytes  int
	logger    *slog.Logger
}

func NewDeepAnalyzer(client llm.TextClient, files filestore.Reader, maxTokens, maxBytes int, logger *slog.Logger) *DeepAnalyzer {
	if maxBytes <= 0 {
		maxBytes = defaultDeepMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeepAnalyzer{client: client, files: files, maxTokens: maxTokens, maxBytes: maxBytes, logger: logger}
}

// AnalyzeFiles issues one model call per file. Unreadable files are skipped
// and unparseable replies yield a review with no issues; a failed model call
// aborts the whole stage.
func (a *DeepAnalyzer) AnalyzeFiles(ctx context.Context, refs []model.FileRef) ([]model.FileReview, error) {
	reviews := make([]model.FileReview, 0, len(refs))
	for _, ref := range refs {
		content, err := a.files.Read(ctx, ref.SourceURL)
		if err != nil {
			a.logger.WarnContext(ctx, "skipping unreadable file in deep analysis",
				"file", ref.SourceName,
				"error", err)
			continue
		}

		resp, err := a.client.Complete(ctx, llm.CompletionRequest{
			SystemPrompt: deepSystemPrompt,
			Prompt:       buildDeepPrompt(ref.SourceName, truncateContent(content, a.maxBytes)),
			MaxTokens:    a.maxTokens,
			Temperature:  llm.Temp(deepTemperature),
		})
		if err != nil {
			return nil, fmt.Errorf("deep analysis of %s: %w", ref.SourceName, err)
		}

		review := model.FileReview{File: ref.SourceName, Issues: []model.FileIssue{}}
		raw, err := decodeResponse[DeepResponse](resp.Text)
		if err != nil {
			a.logger.WarnContext(ctx, "deep response unparseable, reporting no issues",
				"file", ref.SourceName,
				"error", err)
			reviews = append(reviews, review)
			continue
		}
		for _, issue := range raw.Issues {
			review.Issues = append(review.Issues, model.FileIssue{
				Severity:    issue.Severity,
				Category:    issue.Category,
				Line:        issue.Line,
				Description: issue.Description,
				Suggestion:  issue.Suggestion,
			})
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func truncateContent(content string, maxBytes int) string {
	if len(content) <= maxBytes {
		return content
	}
	cut := maxBytes
	// Back off to a rune boundary.
	for cut > 0 && content[cut]&0xC0 == 0x80 {
		cut--
	}
	return content[:cut] + "\n... (truncated)"
}
