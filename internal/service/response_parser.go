package service

import (
	"encoding/json"
	"strings"

	"github.com/hqnguyen/defense-eval-api/internal/dto"
)

// ParseAnalysis extracts an AnalysisResult from the model's free-form reply.
// It tolerates markdown fencing and surrounding prose, validates the
// extracted object against the shared analysis schema, and normalizes the
// result so every top-level section is populated. Any failure is reported as
// ok=false; parsing never propagates an error past this boundary.
func ParseAnalysis(raw string) (dto.AnalysisResult, bool) {
	cleaned := stripFences(raw)

	payload, ok := extractJSONObject(cleaned)
	if !ok {
		return dto.AnalysisResult{}, false
	}

	var generic interface{}
	if err := json.Unmarshal([]byte(payload), &generic); err != nil {
		return dto.AnalysisResult{}, false
	}
	if err := analysisSchema.Validate(generic); err != nil {
		return dto.AnalysisResult{}, false
	}

	var result dto.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return dto.AnalysisResult{}, false
	}

	normalizeAnalysis(&result)
	return result, true
}

func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	return strings.TrimSpace(cleaned)
}

// extractJSONObject returns the first balanced top-level object in the text.
// It walks the input tracking brace depth together with string and escape
// state, so braces inside string literals or in surrounding prose after the
// object cannot corrupt the slice.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", false
}

// normalizeAnalysis replaces absent sections with explicit placeholders so
// nothing downstream ever sees a null section or nil collection.
func normalizeAnalysis(result *dto.AnalysisResult) {
	if result.Summary.OverallSummary == "" {
		result.Summary.OverallSummary = "N/A"
	}
	if result.Summary.StudentPerformance == "" {
		result.Summary.StudentPerformance = "N/A"
	}
	if len(result.Summary.DiscussionFocus) == 0 {
		result.Summary.DiscussionFocus = []string{"No data available"}
	}

	if len(result.LecturerFeedbacks) == 0 {
		result.LecturerFeedbacks = []dto.LecturerFeedback{{
			Lecturer:     systemEvaluator,
			MainComments: "No individual lecturer feedback could be extracted from the transcript.",
		}}
	}
	for i := range result.LecturerFeedbacks {
		feedback := &result.LecturerFeedbacks[i]
		if feedback.Lecturer == "" {
			feedback.Lecturer = systemEvaluator
		}
		if feedback.PositivePoints == nil {
			feedback.PositivePoints = []string{}
		}
		if feedback.ImprovementPoints == nil {
			feedback.ImprovementPoints = []string{}
		}
		if feedback.RubricScores == nil {
			feedback.RubricScores = map[string]dto.Score{}
		}
	}

	if result.AIInsight.Analysis == "" {
		result.AIInsight.Analysis = "N/A"
	}
	if result.AIInsight.RubricAverages == nil {
		result.AIInsight.RubricAverages = map[string]dto.Score{}
	}
	if result.AIInsight.ToneAnalysis == "" {
		result.AIInsight.ToneAnalysis = "N/A"
	}

	if result.AISuggestion.ForStudent == "" {
		result.AISuggestion.ForStudent = "N/A"
	}
	if result.AISuggestion.ForAdvisor == "" {
		result.AISuggestion.ForAdvisor = "N/A"
	}
	if result.AISuggestion.ForSystem == "" {
		result.AISuggestion.ForSystem = "N/A"
	}
}
