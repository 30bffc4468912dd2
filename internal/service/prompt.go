package service

import (
	"fmt"
	"strings"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

const (
	transcriptCharLimit = 8000
	truncationMarker    = "\n[... transcript truncated ...]"
)

const analysisSystemPrompt = "You are an experienced member of a graduation defense committee. " +
	"You read raw defense-session transcripts, which mix Vietnamese and English, and produce a structured, " +
	"rubric-scored evaluation. You only ever answer with a single JSON object and no other text."

// BuildAnalysisPrompt renders the instruction document for one analysis run:
// role framing, the numbered rubric catalogue, per-section output
// instructions, and the literal JSON example the model must mirror. The
// transcript is truncated to a fixed cap so token cost stays bounded
// regardless of session length.
func BuildAnalysisPrompt(rubrics []models.Rubric, transcript string) (string, string) {
	builder := strings.Builder{}

	builder.WriteString("# Evaluation Rubrics\n")
	builder.WriteString("Score each rubric from 4.0 to 10.0, or use null when the transcript gives no basis to judge it. ")
	builder.WriteString("Use only the rubric names listed below, exactly as written.\n\n")
	for i, rubric := range rubrics {
		builder.WriteString(fmt.Sprintf("%d. %s", i+1, rubric.Name))
		if rubric.Description != "" {
			builder.WriteString(": ")
			builder.WriteString(rubric.Description)
		}
		builder.WriteString("\n")
	}

	builder.WriteString("\n# Output Instructions\n")
	builder.WriteString("- summary: overallSummary of the session, studentPerformance narrative, discussionFocus list of recurring topics.\n")
	builder.WriteString("- lecturerFeedbacks: one entry per evaluator heard in the transcript, with mainComments, positivePoints, improvementPoints and rubricScores.\n")
	builder.WriteString("- aiInsight: your cross-cutting analysis, rubricAverages across evaluators, and toneAnalysis of the discussion.\n")
	builder.WriteString("- aiSuggestion: separate advice forStudent, forAdvisor and forSystem.\n")
	builder.WriteString("Reply with exactly one JSON object shaped like this example:\n\n")
	builder.WriteString(analysisExampleJSON)

	builder.WriteString("\n\n# Transcript\n")
	builder.WriteString(truncateTranscript(transcript))

	return analysisSystemPrompt, builder.String()
}

func truncateTranscript(transcript string) string {
	runes := []rune(transcript)
	if len(runes) <= transcriptCharLimit {
		return transcript
	}
	return string(runes[:transcriptCharLimit]) + truncationMarker
}
