package observability

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
)

const reportWidth = 70

// WriteAnalysisReport renders one match result as a plain text report.
func WriteAnalysisReport(w io.Writer, name string, result *types.MatchResult, generated time.Time) error {
	if result == nil {
		return fmt.Errorf("no analysis result to report")
	}

	rule := strings.Repeat("=", reportWidth)
	thin := strings.Repeat("-", reportWidth)

	var sb strings.Builder
	sb.WriteString(rule + "\n")
	sb.WriteString("RESUME ANALYSIS REPORT\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Resume:    %s\n", name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generated.UTC().Format("2006-01-02 15:04:05 MST")))

	sb.WriteString("OVERALL ANALYSIS\n" + thin + "\n")
	sb.WriteString(fmt.Sprintf("Overall Match:  %.1f%% (%s)\n", result.OverallScore, result.Category))
	sb.WriteString(fmt.Sprintf("Semantic Match: %.1f%%\n", result.KeywordSimilarity.SemanticScore*100))
	sb.WriteString(fmt.Sprintf("Keyword Match:  %.1f%%\n", result.KeywordSimilarity.TFIDFScore*100))
	sb.WriteString(fmt.Sprintf("ATS Score:      %.1f\n", result.ATSScore))
	sb.WriteString(fmt.Sprintf("Experience:     %s\n\n", result.ExperienceMatchStatus))

	sb.WriteString("SKILLS ANALYSIS\n" + thin + "\n")
	sb.WriteString(fmt.Sprintf("Matched Skills (%d):\n", len(result.MatchedSkills)))
	for _, s := range result.MatchedSkills {
		sb.WriteString("  ✓ " + s + "\n")
	}
	sb.WriteString(fmt.Sprintf("Missing Skills (%d):\n", len(result.MissingSkills)))
	for _, s := range result.MissingSkills {
		sb.WriteString("  ✗ " + s + "\n")
	}
	if len(result.SkillMatch.SkillsJustListed) > 0 {
		sb.WriteString(fmt.Sprintf("Listed Without Project Evidence (%d):\n", len(result.SkillMatch.SkillsJustListed)))
		for _, s := range result.SkillMatch.SkillsJustListed {
			sb.WriteString("  + " + s + "\n")
		}
	}
	sb.WriteString("\n")

	if len(result.Improvements) > 0 {
		sb.WriteString("RECOMMENDATIONS\n" + thin + "\n")
		for i, rec := range result.Improvements {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		sb.WriteString("\n")
	}

	if result.Explanation != "" {
		sb.WriteString("SUMMARY\n" + thin + "\n")
		sb.WriteString(result.Explanation + "\n\n")
	}
	sb.WriteString(rule + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// bulkCSVHeader is the column order of WriteBulkCSV
var bulkCSVHeader = []string{
	"Rank", "Resume", "Overall Score", "Category", "Semantic Match", "Keyword Match",
	"Matched Skills", "Missing Skills",
}

// WriteBulkCSV writes the ranked results of a bulk analysis as CSV, one row per resume.
func WriteBulkCSV(w io.Writer, result *types.BulkAnalysisResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bulkCSVHeader); err != nil {
		return err
	}

	if result != nil {
		for i, item := range result.Results {
			name := item.Filename
			if name == "" {
				name = item.ResumeID.String()
			}
			r := item.Result
			if r == nil {
				continue
			}
			row := []string{
				strconv.Itoa(i + 1),
				name,
				strconv.FormatFloat(r.OverallScore, 'f', 1, 64),
				string(r.Category),
				strconv.FormatFloat(r.KeywordSimilarity.SemanticScore*100, 'f', 1, 64),
				strconv.FormatFloat(r.KeywordSimilarity.TFIDFScore*100, 'f', 1, 64),
				strings.Join(r.MatchedSkills, "; "),
				strings.Join(r.MissingSkills, "; "),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// PrintSkillGap outputs the matched and missing skills of a skill gap report.
func (p *Printer) PrintSkillGap(report *types.SkillGapReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Completion: %.1f%% (%d/%d)\n\n",
		report.CompletionPercentage, len(report.MatchedSkills), len(report.TargetSkills)))

	writeList(&sb, "Matched", report.MatchedSkills, maxItemsToShow)
	writeList(&sb, "Critical Gaps", report.CriticalGaps, 3)
	writeList(&sb, "Extra", report.ExtraSkills, 3)
	writeList(&sb, "Recommendations", report.Recommendations, 3)

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}
