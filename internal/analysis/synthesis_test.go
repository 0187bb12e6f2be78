package analysis_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"orion.app/api/internal/analysis"
	"orion.app/api/internal/model"
)

func issue(sev model.Severity, desc string) model.Issue {
	return model.Issue{Severity: sev, Description: desc, Suggestion: "fix it"}
}

func dimension(dim model.Dimension, score int, issues ...model.Issue) model.DimensionAnalysis {
	if issues == nil {
		issues = []model.Issue{}
	}
	return model.DimensionAnalysis{Dimension: dim, Score: score, Issues: issues, Recommendations: []string{}}
}

func descriptions(issues []model.Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Description
	}
	return out
}

var _ = Describe("MergeIssues", func() {
	It("orders by descending severity and keeps relative order within a level", func() {
		dims := []model.DimensionAnalysis{
			dimension(model.DimensionArchitecture, 80,
				issue(model.SeverityLow, "a-low"),
				issue(model.SeverityHigh, "a-high")),
			dimension(model.DimensionSecurity, 50,
				issue(model.SeverityCritical, "s-critical"),
				issue(model.SeverityHigh, "s-high")),
			dimension(model.DimensionQuality, 70,
				issue(model.SeverityLow, "q-low"),
				issue(model.SeverityMedium, "q-medium")),
		}

		merged := analysis.MergeIssues(dims, nil)

		Expect(descriptions(merged)).To(Equal([]string{
			"s-critical", "a-high", "s-high", "q-medium", "a-low", "q-low",
		}))
		for i := 1; i < len(merged); i++ {
			Expect(merged[i-1].Severity.Rank()).To(BeNumerically(">=", merged[i].Severity.Rank()))
		}
	})

	It("replaces the category with the dimension name", func() {
		is := issue(model.SeverityHigh, "Unbounded query")
		is.Category = "database"

		merged := analysis.MergeIssues([]model.DimensionAnalysis{dimension(model.DimensionPerformance, 60, is)}, nil)

		Expect(merged[0].Category).To(Equal("performance"))
	})

	It("appends deep findings with a file location", func() {
		line := 12
		deep := []model.FileReview{{
			File: "src/db.ts",
			Issues: []model.FileIssue{
				{Severity: model.SeverityCritical, Category: "injection", Line: &line, Description: "Raw SQL"},
				{Severity: model.SeverityMedium, Description: "Magic number"},
			},
		}}

		merged := analysis.MergeIssues(nil, deep)

		Expect(merged).To(HaveLen(2))
		Expect(merged[0].Location).To(Equal("src/db.ts:12"))
		Expect(merged[0].Category).To(Equal("injection"))
		Expect(merged[1].Location).To(Equal("src/db.ts"))
		Expect(merged[1].Category).To(Equal("deep_analysis"))
	})

	It("drops issues without a description", func() {
		merged := analysis.MergeIssues([]model.DimensionAnalysis{
			dimension(model.DimensionQuality, 70, issue(model.SeverityCritical, "  "), issue(model.SeverityLow, "kept")),
		}, nil)

		Expect(descriptions(merged)).To(Equal([]string{"kept"}))
	})

	It("returns an empty, non-nil slice when nothing was found", func() {
		merged := analysis.MergeIssues(nil, nil)
		Expect(merged).NotTo(BeNil())
		Expect(merged).To(BeEmpty())
	})
})

var _ = Describe("BuildMetrics", func() {
	It("maps dimension scores onto metrics", func() {
		metrics := analysis.BuildMetrics([]model.DimensionAnalysis{
			dimension(model.DimensionArchitecture, 81),
			dimension(model.DimensionSecurity, 42),
			dimension(model.DimensionPerformance, 63),
			dimension(model.DimensionQuality, 77),
		})

		Expect(metrics).To(Equal(model.Metrics{
			CodeQuality:     77,
			Maintainability: 81,
			Performance:     63,
			Security:        42,
		}))
	})
})

var _ = Describe("BuildRecommendations", func() {
	It("concatenates recommendations in dimension order and skips blanks", func() {
		a := dimension(model.DimensionArchitecture, 80)
		a.Recommendations = []string{"Split modules", ""}
		s := dimension(model.DimensionSecurity, 80)
		s.Recommendations = []string{"Rotate keys"}

		Expect(analysis.BuildRecommendations([]model.DimensionAnalysis{a, s})).
			To(Equal([]string{"Split modules", "Rotate keys"}))
	})
})

var _ = Describe("BuildSummary", func() {
	It("reports counts per severity and the dimension scores", func() {
		structural := model.StructuralAnalysis{ProjectType: "REST API", Complexity: "medium", TechStack: []string{"node", "express"}}
		dims := []model.DimensionAnalysis{dimension(model.DimensionSecurity, 40)}
		issues := []model.Issue{issue(model.SeverityCritical, "x"), issue(model.SeverityLow, "y")}

		summary := analysis.BuildSummary(structural, dims, issues)

		Expect(summary).To(HavePrefix("# Code Analysis Summary"))
		Expect(summary).To(ContainSubstring("**Project type:** REST API"))
		Expect(summary).To(ContainSubstring("**Tech stack:** node, express"))
		Expect(summary).To(ContainSubstring("- Total issues: 2"))
		Expect(summary).To(ContainSubstring("- Critical: 1"))
		Expect(summary).To(ContainSubstring("- Security: 40/100"))
	})
})

var _ = Describe("BuildArtifacts", func() {
	It("produces nothing below three issues", func() {
		issues := []model.Issue{issue(model.SeverityCritical, "a"), issue(model.SeverityCritical, "b")}
		artifacts := analysis.BuildArtifacts(issues, nil, model.Metrics{})
		Expect(artifacts).NotTo(BeNil())
		Expect(artifacts).To(BeEmpty())
	})

	It("produces a checklist and a plan from three issues", func() {
		issues := []model.Issue{
			{Severity: model.SeverityCritical, Category: "security", Description: "Hardcoded secret", Location: "src/config.ts"},
			issue(model.SeverityHigh, "N+1 query"),
			issue(model.SeverityLow, "Naming"),
		}

		artifacts := analysis.BuildArtifacts(issues, []string{"Adopt a secrets manager"}, model.Metrics{Security: 40})

		Expect(artifacts).To(HaveLen(2))
		Expect(artifacts[0].Name).To(Equal("Code Review Checklist"))
		Expect(artifacts[0].Type).To(Equal(model.ArtifactTypeChecklist))
		Expect(artifacts[0].Content).To(ContainSubstring("- [ ] **security**: Hardcoded secret (`src/config.ts`)"))
		Expect(artifacts[0].Content).To(ContainSubstring("- [ ] Adopt a secrets manager"))
		Expect(artifacts[1].Name).To(Equal("Action Plan"))
		Expect(artifacts[1].Type).To(Equal(model.ArtifactTypePlan))
		Expect(artifacts[1].Content).To(ContainSubstring("## Phase 1: Critical issues"))
		Expect(artifacts[1].Content).To(ContainSubstring("- Security: 40/100"))
	})
})

var _ = Describe("BuildDecisions", func() {
	It("takes at most five critical or high issues in order", func() {
		var issues []model.Issue
		for i := 0; i < 4; i++ {
			issues = append(issues, issue(model.SeverityCritical, fmt.Sprintf("critical-%d", i)))
		}
		issues = append(issues, issue(model.SeverityMedium, "medium"))
		for i := 0; i < 3; i++ {
			issues = append(issues, issue(model.SeverityHigh, fmt.Sprintf("high-%d", i)))
		}

		decisions := analysis.BuildDecisions(issues)

		Expect(decisions).To(HaveLen(5))
		Expect(decisions[0].Description).To(Equal("critical-0"))
		Expect(decisions[4].Description).To(Equal("high-0"))
		for _, d := range decisions {
			Expect(d.Description).NotTo(Equal("medium"))
		}
	})

	It("sets recommendation and effort from the severity", func() {
		critical := model.Issue{Severity: model.SeverityCritical, Category: "security", Description: "Open admin route", Location: "src/routes/admin.ts"}
		high := model.Issue{Severity: model.SeverityHigh, Category: "performance", Description: "Unbounded cache"}

		decisions := analysis.BuildDecisions([]model.Issue{critical, high})

		Expect(decisions).To(HaveLen(2))
		Expect(decisions[0].Title).To(Equal("Fix security issue: Open admin route"))
		Expect(decisions[0].Description).To(Equal("Open admin route (src/routes/admin.ts)"))
		Expect(decisions[0].Recommendation).To(Equal(model.RecommendationHighPriority))
		Expect(decisions[0].EstimatedEffort).To(Equal("3-5 días"))
		Expect(decisions[1].Recommendation).To(Equal(model.RecommendationMediumPriority))
		Expect(decisions[1].EstimatedEffort).To(Equal("1-3 días"))
		Expect(decisions[1].Pros).NotTo(BeEmpty())
		Expect(decisions[1].Cons).NotTo(BeEmpty())
	})

	It("returns an empty slice without serious issues", func() {
		decisions := analysis.BuildDecisions([]model.Issue{issue(model.SeverityLow, "x")})
		Expect(decisions).NotTo(BeNil())
		Expect(decisions).To(BeEmpty())
	})
})
