// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, with a "... and N more" line
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintJobProfile outputs a human-readable summary of the extracted job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:    %s\n", profile.ExperienceLevel))
	if profile.YearsExperience != nil {
		sb.WriteString(fmt.Sprintf("Years:    %.0f+\n", *profile.YearsExperience))
	}
	if len(profile.TechnicalFocus) > 0 {
		sb.WriteString(fmt.Sprintf("Focus:    %s\n", strings.Join(profile.TechnicalFocus, ", ")))
	}
	sb.WriteString("\n")

	writeList(&sb, "Required Skills", profile.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred Skills", profile.PreferredSkills, 3)
	writeList(&sb, "Responsibilities", profile.KeyResponsibilities, 3)

	p.printBox("JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the score breakdown of one match.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:  %.1f (%s)\n", result.OverallScore, result.Category))
	sb.WriteString(fmt.Sprintf("ATS:      %.1f\n", result.ATSScore))
	sb.WriteString(fmt.Sprintf("Strength: %d/10\n", result.ResumeStrength))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Skills      %5.1f  (%d/%d required)\n",
		result.SkillMatch.Score, result.SkillMatch.MatchedRequiredCount, result.SkillMatch.JDSkillsCount))
	sb.WriteString(fmt.Sprintf("Projects    %5.1f  (%s)\n", result.ProjectRelevance.Score, result.ProjectRelevance.Relevance))
	sb.WriteString(fmt.Sprintf("Experience  %5.1f  (%s)\n", result.ExperienceAlignment.Score, result.ExperienceMatchStatus))
	sb.WriteString(fmt.Sprintf("Education   %5.1f\n", result.EducationFit.Score))
	sb.WriteString(fmt.Sprintf("Similarity  %5.2f\n", result.KeywordSimilarity.CombinedScore))
	sb.WriteString("\n")

	writeList(&sb, "Missing Skills", result.MissingSkills, maxItemsToShow)
	writeList(&sb, "Improvements", result.Improvements, 3)

	p.printBox("MATCH RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintATSReport outputs the section scores and recommendations of an ATS report.
func (p *Printer) PrintATSReport(report *types.ATSReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS Score: %.1f\n\n", report.ATSScore))

	sections := make([]string, 0, len(report.SectionScores))
	for name := range report.SectionScores {
		sections = append(sections, name)
	}
	sort.Strings(sections)
	for _, name := range sections {
		sb.WriteString(fmt.Sprintf("  %-12s %5.1f\n", name, report.SectionScores[name]))
	}
	sb.WriteString("\n")

	writeList(&sb, "Recommendations", report.Recommendations, maxItemsToShow)

	p.printBox("ATS REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBulkResult outputs batch statistics and the top ranked resumes.
func (p *Printer) PrintBulkResult(result *types.BulkAnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyzed: %d/%d\n", result.Analyzed, result.TotalResumes))
	sb.WriteString(fmt.Sprintf("Average:  %.1f\n", result.AverageScore))
	for _, c := range types.AllCategories() {
		sb.WriteString(fmt.Sprintf("  %-14s %d\n", c, result.CategoryBreakdown[c]))
	}

	if len(result.Results) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Results), maxItemsToShow)
		for i, item := range result.Results[:count] {
			name := item.Filename
			if name == "" {
				name = item.ResumeID.String()
			}
			sb.WriteString(fmt.Sprintf("#%d  %5.1f  %s\n", i+1, item.Result.OverallScore, name))
		}
		if len(result.Results) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Results)-maxItemsToShow))
		}
	}

	if len(result.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠ %d failed\n", len(result.Errors)))
		for _, e := range result.Errors[:min(len(result.Errors), 3)] {
			sb.WriteString(fmt.Sprintf("  %s\n", e.Error))
		}
	}

	p.printBox("BULK ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}
