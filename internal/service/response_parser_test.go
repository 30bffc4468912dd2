package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/defense-eval-api/internal/dto"
)

const sampleReplyJSON = `{
  "summary": {
    "overallSummary": "The group defended a web platform.",
    "studentPerformance": "Confident presentation, weaker on databases.",
    "discussionFocus": ["System architecture", "Testing strategy"]
  },
  "lecturerFeedbacks": [
    {
      "lecturer": "Dr. Tran",
      "mainComments": "Solid work overall.",
      "positivePoints": ["Clear slides"],
      "improvementPoints": ["Benchmark the queries"],
      "rubricScores": {"Presentation Skills": 8.0, "Technical Depth": null}
    }
  ],
  "aiInsight": {
    "analysis": "The committee was broadly positive.",
    "rubricAverages": {"Presentation Skills": 8.0},
    "toneAnalysis": "Constructive"
  },
  "aiSuggestion": {
    "forStudent": "Practice database questions.",
    "forAdvisor": "Review query design with the group.",
    "forSystem": "Nothing to flag."
  }
}`

func TestParseAnalysisCleanJSON(t *testing.T) {
	result, ok := ParseAnalysis(sampleReplyJSON)
	require.True(t, ok)
	require.Equal(t, "The group defended a web platform.", result.Summary.OverallSummary)
	require.Len(t, result.LecturerFeedbacks, 1)
	require.Equal(t, "Dr. Tran", result.LecturerFeedbacks[0].Lecturer)

	score, present := result.LecturerFeedbacks[0].RubricScores["Presentation Skills"]
	require.True(t, present)
	value, set := score.Value()
	require.True(t, set)
	require.InDelta(t, 8.0, value, 0.001)

	// Explicit null means "not evaluated", not zero.
	unscored, present := result.LecturerFeedbacks[0].RubricScores["Technical Depth"]
	require.True(t, present)
	require.False(t, unscored.IsSet())
}

func TestParseAnalysisIdempotentOnFencing(t *testing.T) {
	plain, ok := ParseAnalysis(sampleReplyJSON)
	require.True(t, ok)

	fenced, ok := ParseAnalysis("```json\n" + sampleReplyJSON + "\n```")
	require.True(t, ok)

	require.Equal(t, plain, fenced)
}

func TestParseAnalysisIgnoresSurroundingProse(t *testing.T) {
	reply := "Sure! Here is the evaluation you asked for:\n\n```json\n" +
		sampleReplyJSON +
		"\n```\nLet me know if you need anything else."

	result, ok := ParseAnalysis(reply)
	require.True(t, ok)
	require.Equal(t, "The group defended a web platform.", result.Summary.OverallSummary)
}

func TestParseAnalysisHandlesBracesInsideStrings(t *testing.T) {
	reply := `The evaluation follows. {"summary": {"overallSummary": "They used {braces} and \"quotes\" in code listings.", "studentPerformance": "Fine", "discussionFocus": ["x"]}} trailing } prose {`

	result, ok := ParseAnalysis(reply)
	require.True(t, ok)
	require.Equal(t, `They used {braces} and "quotes" in code listings.`, result.Summary.OverallSummary)
}

func TestParseAnalysisRejectsGarbage(t *testing.T) {
	for _, reply := range []string{
		"",
		"I could not analyze the transcript, sorry.",
		"{not json at all]",
		`{"summary": "should be an object, not a string"}`,
	} {
		_, ok := ParseAnalysis(reply)
		require.False(t, ok, "reply %q should not parse", reply)
	}
}

func TestParseAnalysisNormalizesMissingSections(t *testing.T) {
	result, ok := ParseAnalysis(`{"summary": {"overallSummary": "Only a summary."}}`)
	require.True(t, ok)

	require.Equal(t, "Only a summary.", result.Summary.OverallSummary)
	require.Equal(t, "N/A", result.Summary.StudentPerformance)
	require.Equal(t, []string{"No data available"}, result.Summary.DiscussionFocus)
	require.Len(t, result.LecturerFeedbacks, 1)
	require.Equal(t, "System", result.LecturerFeedbacks[0].Lecturer)
	require.NotNil(t, result.LecturerFeedbacks[0].RubricScores)
	require.Equal(t, "N/A", result.AIInsight.Analysis)
	require.NotNil(t, result.AIInsight.RubricAverages)
	require.Equal(t, "N/A", result.AISuggestion.ForStudent)
}

func TestParseAnalysisFieldNamesAreCaseInsensitive(t *testing.T) {
	result, ok := ParseAnalysis(`{"SUMMARY": {"OVERALLSUMMARY": "Upper-cased keys."}}`)
	require.True(t, ok)
	require.Equal(t, "Upper-cased keys.", result.Summary.OverallSummary)
}

func TestAnalysisExampleMatchesSchema(t *testing.T) {
	// The example embedded in the prompt and the schema used by the parser
	// must describe the same shape.
	var generic interface{}
	require.NoError(t, json.Unmarshal([]byte(analysisExampleJSON), &generic))
	require.NoError(t, analysisSchema.Validate(generic))

	result, ok := ParseAnalysis(analysisExampleJSON)
	require.True(t, ok)
	require.NotEmpty(t, result.Summary.OverallSummary)
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	_, ok := extractJSONObject("no braces here")
	require.False(t, ok)

	_, ok = extractJSONObject("{unbalanced")
	require.False(t, ok)
}

func assertFullyPopulated(t *testing.T, result dto.AnalysisResult) {
	t.Helper()
	require.NotEmpty(t, result.Summary.OverallSummary)
	require.NotEmpty(t, result.Summary.StudentPerformance)
	require.NotEmpty(t, result.Summary.DiscussionFocus)
	require.NotEmpty(t, result.LecturerFeedbacks)
	for _, feedback := range result.LecturerFeedbacks {
		require.NotEmpty(t, feedback.Lecturer)
		require.NotNil(t, feedback.PositivePoints)
		require.NotNil(t, feedback.ImprovementPoints)
		require.NotNil(t, feedback.RubricScores)
	}
	require.NotEmpty(t, result.AIInsight.Analysis)
	require.NotNil(t, result.AIInsight.RubricAverages)
	require.NotEmpty(t, result.AIInsight.ToneAnalysis)
	require.NotEmpty(t, result.AISuggestion.ForStudent)
	require.NotEmpty(t, result.AISuggestion.ForAdvisor)
	require.NotEmpty(t, result.AISuggestion.ForSystem)
}

func TestParsedResultIsFullyPopulated(t *testing.T) {
	result, ok := ParseAnalysis(`{"aiInsight": {"toneAnalysis": "Neutral"}}`)
	require.True(t, ok)
	assertFullyPopulated(t, result)
}
