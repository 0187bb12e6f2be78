package analysis

import (
	"fmt"
	"slices"
	"strings"

	"orion.app/api/internal/model"
)

const deepCategory = "deep_analysis"

// MergeIssues tags dimension issues with their dimension, appends deep review
// findings, drops issues without a description and orders the rest by
// descending severity. The sort is stable.
func MergeIssues(dims []model.DimensionAnalysis, deep []model.FileReview) []model.Issue {
	merged := []model.Issue{}
	for _, d := range dims {
		for _, issue := range d.Issues {
			issue.Category = string(d.Dimension)
			merged = append(merged, issue)
		}
	}
	for _, review := range deep {
		for _, fi := range review.Issues {
			category := fi.Category
			if category == "" {
				category = deepCategory
			}
			location := review.File
			if fi.Line != nil {
				location = fmt.Sprintf("%s:%d", review.File, *fi.Line)
			}
			merged = append(merged, model.Issue{
				Severity:    fi.Severity,
				Category:    category,
				Description: fi.Description,
				Location:    location,
				Suggestion:  fi.Suggestion,
			})
		}
	}

	merged = slices.DeleteFunc(merged, func(i model.Issue) bool {
		return strings.TrimSpace(i.Description) == ""
	})
	slices.SortStableFunc(merged, func(a, b model.Issue) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})
	return merged
}

type severityCounts struct {
	critical, high, medium, low int
}

func countSeverities(issues []model.Issue) severityCounts {
	var c severityCounts
	for _, i := range issues {
		switch i.Severity.Rank() {
		case int(model.SeverityCritical):
			c.critical++
		case int(model.SeverityHigh):
			c.high++
		case int(model.SeverityMedium):
			c.medium++
		default:
			c.low++
		}
	}
	return c
}

func BuildSummary(structural model.StructuralAnalysis, dims []model.DimensionAnalysis, issues []model.Issue) string {
	counts := countSeverities(issues)

	var b strings.Builder
	b.WriteString("# Code Analysis Summary\n\n")
	fmt.Fprintf(&b, "**Project type:** %s\n", structural.ProjectType)
	fmt.Fprintf(&b, "**Complexity:** %s\n", structural.Complexity)
	if len(structural.TechStack) > 0 {
		fmt.Fprintf(&b, "**Tech stack:** %s\n", strings.Join(structural.TechStack, ", "))
	}
	if structural.Understanding != "" {
		fmt.Fprintf(&b, "\n%s\n", structural.Understanding)
	}

	b.WriteString("\n## Findings\n\n")
	fmt.Fprintf(&b, "- Total issues: %d\n", len(issues))
	fmt.Fprintf(&b, "- Critical: %d\n", counts.critical)
	fmt.Fprintf(&b, "- High: %d\n", counts.high)
	fmt.Fprintf(&b, "- Medium: %d\n", counts.medium)
	fmt.Fprintf(&b, "- Low: %d\n", counts.low)

	b.WriteString("\n## Scores\n\n")
	for _, d := range dims {
		fmt.Fprintf(&b, "- %s: %d/100\n", titleCase(string(d.Dimension)), d.Score)
	}
	return b.String()
}

func BuildSuggestions(structural model.StructuralAnalysis) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(structural.SuggestedFiles))
	for _, f := range structural.SuggestedFiles {
		out = append(out, model.Suggestion{File: f.Path, Reason: f.Reason, Priority: f.Priority})
	}
	return out
}

func BuildMetrics(dims []model.DimensionAnalysis) model.Metrics {
	var m model.Metrics
	for _, d := range dims {
		switch d.Dimension {
		case model.DimensionQuality:
			m.CodeQuality = d.Score
		case model.DimensionArchitecture:
			m.Maintainability = d.Score
		case model.DimensionPerformance:
			m.Performance = d.Score
		case model.DimensionSecurity:
			m.Security = d.Score
		}
	}
	return m
}

func BuildRecommendations(dims []model.DimensionAnalysis) []string {
	out := []string{}
	for _, d := range dims {
		for _, r := range d.Recommendations {
			if strings.TrimSpace(r) != "" {
				out = append(out, r)
			}
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
