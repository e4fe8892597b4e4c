package observability

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/types"
)

func sampleResult() *types.MatchResult {
	return &types.MatchResult{
		ATSScore:              64,
		OverallScore:          71.3,
		Category:              types.CategoryGoodMatch,
		MatchedSkills:         []string{"python", "sql"},
		MissingSkills:         []string{"aws"},
		KeywordSimilarity:     types.KeywordSimilarity{TFIDFScore: 0.42, SemanticScore: 0.615},
		ExperienceMatchStatus: types.ExperienceFair,
		Improvements:          []string{"Add AWS experience", "Quantify achievements"},
		Explanation:           "Good fit overall.",
	}
}

func TestWriteAnalysisReport(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, WriteAnalysisReport(&buf, "jane.pdf", sampleResult(), generated))
	out := buf.String()

	assert.Contains(t, out, "RESUME ANALYSIS REPORT")
	assert.Contains(t, out, "Resume:    jane.pdf")
	assert.Contains(t, out, "2025-03-01 12:00:00 UTC")
	assert.Contains(t, out, "Overall Match:  71.3% (Good Match)")
	assert.Contains(t, out, "Semantic Match: 61.5%")
	assert.Contains(t, out, "Keyword Match:  42.0%")
	assert.Contains(t, out, "✓ python")
	assert.Contains(t, out, "✗ aws")
	assert.Contains(t, out, "1. Add AWS experience")
	assert.Contains(t, out, "2. Quantify achievements")
	assert.Contains(t, out, "Good fit overall.")
	assert.NotContains(t, out, "Listed Without Project Evidence")
}

func TestWriteAnalysisReport_NilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteAnalysisReport(&buf, "x", nil, time.Now()))
	assert.Empty(t, buf.String())
}

func TestWriteBulkCSV(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	result := &types.BulkAnalysisResult{
		Results: []types.BulkResultItem{
			{ResumeID: uuid.New(), Filename: "smith, john.pdf", Result: sampleResult()},
			{ResumeID: id, Result: &types.MatchResult{OverallScore: 20, Category: types.CategoryNotSuitable}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBulkCSV(&buf, result))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bulkCSVHeader, rows[0])
	assert.Equal(t, []string{"1", "smith, john.pdf", "71.3", "Good Match", "61.5", "42.0", "python; sql", "aws"}, rows[1])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, id.String(), rows[2][1])
	assert.Equal(t, "", rows[2][6])
}

func TestWriteBulkCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBulkCSV(&buf, nil))
	assert.Equal(t, "Rank,Resume,Overall Score,Category,Semantic Match,Keyword Match,Matched Skills,Missing Skills\n", buf.String())
}

func TestPrintSkillGap(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSkillGap(&types.SkillGapReport{
		TargetSkills:         []string{"aws", "python", "sql"},
		MatchedSkills:        []string{"python", "sql"},
		CriticalGaps:         []string{"aws"},
		CompletionPercentage: 66.7,
		Recommendations:      []string{"Consider learning these in-demand skills: aws"},
	})
	out := buf.String()

	assert.Contains(t, out, "SKILL GAP")
	assert.Contains(t, out, "66.7% (2/3)")
	assert.Contains(t, out, "• aws")

	buf.Reset()
	NewPrinter(&buf).PrintSkillGap(nil)
	assert.Empty(t, buf.String())
}
