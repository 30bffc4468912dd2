package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minTranscriptLength = 100
	minSignalRatio      = 0.30
	minKeywordMatches   = 3
)

// Rejection reasons reported by ValidateTranscript.
const (
	ReasonNotFound  = "not found"
	ReasonTooShort  = "too short"
	ReasonLowSignal = "low signal"
)

// TranscriptCheck is the outcome of the transcript quality gate.
type TranscriptCheck struct {
	OK             bool
	Reason         string
	KeywordMatches int
}

// defenseKeywords is a bilingual list of terms expected in a genuine defense
// transcript. A low match count is logged by the caller but never blocks
// processing, so keyword-sparse but legitimate transcripts are not rejected.
var defenseKeywords = []string{
	"defense", "bảo vệ",
	"committee", "hội đồng",
	"question", "câu hỏi",
	"presentation", "thuyết trình",
	"project", "đồ án",
	"thesis", "luận văn",
	"student", "sinh viên",
	"lecturer", "giảng viên",
	"grade", "điểm",
}

// ValidateTranscript gates transcript quality before any expensive call is
// made. It is pure and deterministic given the keyword list.
func ValidateTranscript(text string) TranscriptCheck {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TranscriptCheck{Reason: ReasonNotFound}
	}

	total := utf8.RuneCountInString(trimmed)
	if total < minTranscriptLength {
		return TranscriptCheck{Reason: ReasonTooShort, KeywordMatches: countKeywords(trimmed)}
	}

	alnum := 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if float64(alnum)/float64(total) < minSignalRatio {
		return TranscriptCheck{Reason: ReasonLowSignal, KeywordMatches: countKeywords(trimmed)}
	}

	return TranscriptCheck{OK: true, KeywordMatches: countKeywords(trimmed)}
}

func countKeywords(text string) int {
	lowered := strings.ToLower(text)
	matches := 0
	for _, keyword := range defenseKeywords {
		if strings.Contains(lowered, keyword) {
			matches++
		}
	}
	return matches
}
