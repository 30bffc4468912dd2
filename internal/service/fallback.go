package service

import (
	"fmt"

	"github.com/hqnguyen/defense-eval-api/internal/dto"
)

// systemEvaluator labels the synthetic feedback entry present in every
// fallback result, so lecturerFeedbacks is never empty.
const systemEvaluator = "System"

// Outcome labels recorded on analysis snapshots.
const (
	outcomeSuccess        = "success"
	outcomeNotFound       = "fallback:transcript_not_found"
	outcomeInvalidContent = "fallback:invalid_content"
	outcomeNoRubrics      = "fallback:no_rubrics"
	outcomeParseFailure   = "fallback:parse_failure"
)

// Fallback results are schema-identical to a successful analysis and differ
// only in narrative, so downstream consumers never branch on failure cause.

func notFoundFallback() dto.AnalysisResult {
	narrative := "Transcript not found for this defense session. " +
		"Confirm that the session was recorded and that transcription completed, then request the analysis again."
	return fallbackAnalysis(narrative,
		"Your defense transcript is not available yet. Please check back later.",
		"The session transcript is missing. Verify the recording workflow with the programme office.",
		"Investigate why no transcript was cached for this session.")
}

func invalidContentFallback(reason string) dto.AnalysisResult {
	narrative := fmt.Sprintf("The transcript for this session could not be analyzed (%s). "+
		"Check the audio quality of the recording and re-run transcription.", reason)
	return fallbackAnalysis(narrative,
		"Your defense transcript was unusable. Ask the programme office to re-process the recording.",
		"The transcript failed the quality gate. A better recording or re-transcription is needed.",
		"Review microphone placement and transcription settings for this room.")
}

func noRubricsFallback(majorID uint) dto.AnalysisResult {
	narrative := fmt.Sprintf("No evaluation rubrics are configured for major %d. "+
		"Link rubrics to the major before requesting a rubric-scored analysis.", majorID)
	return fallbackAnalysis(narrative,
		"Rubric-based scores are unavailable because your major has no rubrics configured.",
		"Ask the programme administrator to configure rubrics for this major.",
		fmt.Sprintf("Configure rubric definitions for major %d.", majorID))
}

func parseFailureFallback() dto.AnalysisResult {
	narrative := "Analysis unavailable: the AI evaluation reply could not be interpreted. " +
		"The transcript itself passed validation; try requesting the analysis again."
	return fallbackAnalysis(narrative,
		"The automated analysis is temporarily unavailable. Please try again.",
		"The automated analysis is temporarily unavailable. Manual review may be needed.",
		"Inspect recent model replies for formatting drift.")
}

func fallbackAnalysis(narrative, forStudent, forAdvisor, forSystem string) dto.AnalysisResult {
	return dto.AnalysisResult{
		Summary: dto.AnalysisSummary{
			OverallSummary:     narrative,
			StudentPerformance: "N/A",
			DiscussionFocus:    []string{"No data available"},
		},
		LecturerFeedbacks: []dto.LecturerFeedback{{
			Lecturer:          systemEvaluator,
			MainComments:      narrative,
			PositivePoints:    []string{},
			ImprovementPoints: []string{},
			RubricScores:      map[string]dto.Score{},
		}},
		AIInsight: dto.AIInsight{
			Analysis:       narrative,
			RubricAverages: map[string]dto.Score{},
			ToneAnalysis:   "N/A",
		},
		AISuggestion: dto.AISuggestion{
			ForStudent: forStudent,
			ForAdvisor: forAdvisor,
			ForSystem:  forSystem,
		},
	}
}
