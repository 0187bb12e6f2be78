package analysis

import (
	"fmt"
	"strings"

	"orion.app/api/internal/model"
)

const (
	minIssuesForArtifacts = 3
	maxDecisions          = 5

	checklistHighLimit = 10
	planHighLimit      = 8
	recommendLimit     = 10

	effortCritical = "3-5 días"
	effortHigh     = "1-3 días"
)

// BuildArtifacts returns no documents below three issues, otherwise exactly a
// checklist and an action plan.
func BuildArtifacts(issues []model.Issue, recommendations []string, metrics model.Metrics) []model.GeneratedArtifact {
	if len(issues) < minIssuesForArtifacts {
		return []model.GeneratedArtifact{}
	}
	return []model.GeneratedArtifact{
		{
			Name:        "Code Review Checklist",
			Type:        model.ArtifactTypeChecklist,
			Description: "Issues to resolve, ordered by severity",
			Content:     buildChecklist(issues, recommendations),
		},
		{
			Name:        "Action Plan",
			Type:        model.ArtifactTypePlan,
			Description: "Phased plan to address the findings",
			Content:     buildPlan(issues, recommendations, metrics),
		},
	}
}

func bySeverity(issues []model.Issue, sev model.Severity) []model.Issue {
	var out []model.Issue
	for _, i := range issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

func issueLine(i model.Issue) string {
	line := fmt.Sprintf("**%s**: %s", i.Category, i.Description)
	if i.Location != "" {
		line += fmt.Sprintf(" (`%s`)", i.Location)
	}
	if i.Suggestion != "" {
		line += " - " + i.Suggestion
	}
	return line
}

func buildChecklist(issues []model.Issue, recommendations []string) string {
	var b strings.Builder
	b.WriteString("# Code Review Checklist\n\n")

	if critical := bySeverity(issues, model.SeverityCritical); len(critical) > 0 {
		b.WriteString("## Critical\n\n")
		for _, i := range critical {
			fmt.Fprintf(&b, "- [ ] %s\n", issueLine(i))
		}
		b.WriteString("\n")
	}
	if high := bySeverity(issues, model.SeverityHigh); len(high) > 0 {
		b.WriteString("## High priority\n\n")
		for _, i := range capped(high, checklistHighLimit) {
			fmt.Fprintf(&b, "- [ ] %s\n", issueLine(i))
		}
		b.WriteString("\n")
	}
	if len(recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range capped(recommendations, recommendLimit) {
			fmt.Fprintf(&b, "- [ ] %s\n", r)
		}
	}
	return b.String()
}

func buildPlan(issues []model.Issue, recommendations []string, metrics model.Metrics) string {
	counts := countSeverities(issues)
	critical := bySeverity(issues, model.SeverityCritical)
	high := bySeverity(issues, model.SeverityHigh)

	var b strings.Builder
	b.WriteString("# Action Plan\n\n")

	b.WriteString("## Executive summary\n\n")
	fmt.Fprintf(&b, "- Total issues: %d\n", len(issues))
	fmt.Fprintf(&b, "- Critical: %d\n", counts.critical)
	fmt.Fprintf(&b, "- High: %d\n", counts.high)
	fmt.Fprintf(&b, "- Medium: %d\n", counts.medium)
	fmt.Fprintf(&b, "- Low: %d\n\n", counts.low)

	b.WriteString("## Current scores\n\n")
	fmt.Fprintf(&b, "- Code quality: %d/100\n", metrics.CodeQuality)
	fmt.Fprintf(&b, "- Maintainability: %d/100\n", metrics.Maintainability)
	fmt.Fprintf(&b, "- Performance: %d/100\n", metrics.Performance)
	fmt.Fprintf(&b, "- Security: %d/100\n\n", metrics.Security)

	if len(critical) > 0 {
		b.WriteString("## Phase 1: Critical issues\n\n")
		for n, i := range critical {
			fmt.Fprintf(&b, "### %d. %s\n\n", n+1, i.Description)
			fmt.Fprintf(&b, "- Category: %s\n", i.Category)
			if i.Location != "" {
				fmt.Fprintf(&b, "- Location: `%s`\n", i.Location)
			}
			if i.Suggestion != "" {
				fmt.Fprintf(&b, "- Action: %s\n", i.Suggestion)
			}
			b.WriteString("- Estimate: 2-5 days\n\n")
		}
	}

	if len(high) > 0 {
		b.WriteString("## Phase 2: High priority issues\n\n")
		for _, i := range capped(high, planHighLimit) {
			fmt.Fprintf(&b, "- %s\n", issueLine(i))
		}
		b.WriteString("\n")
	}

	if len(recommendations) > 0 {
		b.WriteString("## Phase 3: Continuous improvement\n\n")
		for n, r := range capped(recommendations, recommendLimit) {
			fmt.Fprintf(&b, "%d. %s\n", n+1, r)
		}
	}
	return b.String()
}

// BuildDecisions turns the first five critical or high issues, in merged
// order, into decisions awaiting user confirmation.
func BuildDecisions(issues []model.Issue) []model.DecisionItem {
	decisions := []model.DecisionItem{}
	for _, i := range issues {
		if len(decisions) == maxDecisions {
			break
		}
		if !i.Severity.AtLeast(model.SeverityHigh) || strings.TrimSpace(i.Description) == "" {
			continue
		}
		decisions = append(decisions, decisionFromIssue(i))
	}
	return decisions
}

func decisionFromIssue(i model.Issue) model.DecisionItem {
	critical := i.Severity == model.SeverityCritical

	recommendation := model.RecommendationMediumPriority
	effort := effortHigh
	if critical {
		recommendation = model.RecommendationHighPriority
		effort = effortCritical
	}

	pros := []string{
		fmt.Sprintf("Reduces %s risk", i.Category),
		"Improves long-term maintainability",
	}
	if i.Suggestion != "" {
		pros = append(pros, "Clear remediation: "+i.Suggestion)
	}
	cons := []string{
		fmt.Sprintf("Requires development time (%s)", effort),
		"Changes may need regression testing",
	}

	description := i.Description
	if i.Location != "" {
		description += fmt.Sprintf(" (%s)", i.Location)
	}

	return model.DecisionItem{
		Title:           fmt.Sprintf("Fix %s issue: %s", i.Category, shorten(i.Description, 80)),
		Category:        i.Category,
		Description:     description,
		Pros:            pros,
		Cons:            cons,
		Recommendation:  recommendation,
		EstimatedEffort: effort,
	}
}

func shorten(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
