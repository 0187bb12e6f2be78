package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"orion.app/api/internal/model"
)

const (
	maxExamplePaths = 8
	maxDependencies = 15
	maxRiskSignals  = 10
)

var (
	securityKeywords    = []string{"password", "token", "secret", "credential"}
	performanceKeywords = []string{"sequential", "await", "long"}
)

func schemaInstruction(schema *jsonschema.Schema) string {
	raw, err := json.Marshal(schema)
	if err != nil {
		return "Respond with a single JSON object."
	}
	return "Respond with a single JSON object, optionally inside a ```json block, matching this JSON schema:\n" + string(raw)
}

func writeStats(b *strings.Builder, index model.CodeIndex) {
	fmt.Fprintf(b, "Files: %d, lines: %d\n", index.Stats.TotalFiles, index.Stats.TotalLines)
	if len(index.Stats.Languages) > 0 {
		exts := make([]string, 0, len(index.Stats.Languages))
		for ext := range index.Stats.Languages {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		parts := make([]string, len(exts))
		for i, ext := range exts {
			parts[i] = fmt.Sprintf("%s: %d", ext, index.Stats.Languages[ext])
		}
		fmt.Fprintf(b, "Languages: %s\n", strings.Join(parts, ", "))
	}
}

func writeStructureCounts(b *strings.Builder, s model.Structure) {
	b.WriteString("Structure:\n")
	fmt.Fprintf(b, "- controllers: %d\n", len(s.Controllers))
	fmt.Fprintf(b, "- services: %d\n", len(s.Services))
	fmt.Fprintf(b, "- routes: %d\n", len(s.Routes))
	fmt.Fprintf(b, "- models: %d\n", len(s.Models))
	fmt.Fprintf(b, "- utils: %d\n", len(s.Utils))
	fmt.Fprintf(b, "- configs: %d\n", len(s.Configs))
}

func writeComplexity(b *strings.Builder, c model.Complexity) {
	fmt.Fprintf(b, "Complexity: average file size %d chars, largest file %d chars, deepest nesting %d\n",
		c.AvgFileSize, c.MaxFileSize, c.DeepestNesting)
}

func writeList(b *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range capped(items, limit) {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func examplePaths(s model.Structure, limit int) []string {
	var out []string
	for _, group := range [][]string{s.Controllers, s.Services, s.Routes, s.Models, s.Utils, s.Configs} {
		for _, p := range group {
			if len(out) == limit {
				return out
			}
			out = append(out, p)
		}
	}
	return out
}

func dependencyNames(d model.Dependencies, limit int) []string {
	all := make([]string, 0, len(d.Runtime)+len(d.Dev))
	all = append(all, d.Runtime...)
	all = append(all, d.Dev...)
	return capped(all, limit)
}

func filterSignals(signals []string, keywords []string) []string {
	var out []string
	for _, s := range signals {
		lower := strings.ToLower(s)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func capped[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func buildStructuralPrompt(index model.CodeIndex) string {
	var b strings.Builder
	b.WriteString("Classify this project from its code index and pick the files most worth a detailed review.\n\n")
	writeStats(&b, index)
	writeStructureCounts(&b, index.Structure)
	writeList(&b, "Example files", examplePaths(index.Structure, maxExamplePaths), maxExamplePaths)
	writeList(&b, "Dependencies", dependencyNames(index.Dependencies, maxDependencies), maxDependencies)
	writeList(&b, "Risk signals", index.RiskSignals, maxRiskSignals)
	b.WriteString("\nSuggest at most 5 files, highest priority first.\n\n")
	b.WriteString(schemaInstruction(structuralSchema))
	return b.String()
}

func buildDimensionPrompt(index model.CodeIndex, dim model.Dimension) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dimension: %s\n\n", dim)

	switch dim {
	case model.DimensionArchitecture:
		b.WriteString("Evaluate the architecture: layering, separation of concerns, and module boundaries.\n\n")
		writeStats(&b, index)
		writeStructureCounts(&b, index.Structure)
		writeList(&b, "Example files", examplePaths(index.Structure, maxExamplePaths), maxExamplePaths)
		writeList(&b, "Dependencies", dependencyNames(index.Dependencies, maxDependencies), maxDependencies)
		writeComplexity(&b, index.Complexity)
	case model.DimensionSecurity:
		b.WriteString("Evaluate security: secret handling, input validation, authentication and risky dependencies.\n\n")
		writeList(&b, "Security risk signals", filterSignals(index.RiskSignals, securityKeywords), maxRiskSignals)
		writeList(&b, "Runtime dependencies", index.Dependencies.Runtime, maxDependencies)
		writeList(&b, "Configuration files", index.Structure.Configs, maxExamplePaths)
	case model.DimensionPerformance:
		b.WriteString("Evaluate performance: sequential I/O, blocking work, oversized modules.\n\n")
		writeStats(&b, index)
		writeList(&b, "Performance risk signals", filterSignals(index.RiskSignals, performanceKeywords), maxRiskSignals)
		writeComplexity(&b, index.Complexity)
	case model.DimensionQuality:
		b.WriteString("Evaluate code quality: error handling, readability, file size and test tooling.\n\n")
		writeStats(&b, index)
		writeList(&b, "Risk signals", index.RiskSignals, maxRiskSignals)
		writeList(&b, "Development dependencies", index.Dependencies.Dev, maxDependencies)
		writeComplexity(&b, index.Complexity)
	}

	b.WriteString("\nScore the dimension from 0 (worst) to 100 (best).\n\n")
	b.WriteString(schemaInstruction(dimensionSchema))
	return b.String()
}

func buildDeepPrompt(file, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review the file %s line by line and report concrete issues.\n\n", file)
	b.WriteString("```\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
	b.WriteString(schemaInstruction(deepSchema))
	return b.String()
}
