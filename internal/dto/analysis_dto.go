package dto

// AnalysisSummary is the headline section of a transcript analysis.
type AnalysisSummary struct {
	OverallSummary     string   `json:"overallSummary"`
	StudentPerformance string   `json:"studentPerformance"`
	DiscussionFocus    []string `json:"discussionFocus"`
}

// LecturerFeedback captures one evaluator's narrative and per-rubric scores.
type LecturerFeedback struct {
	Lecturer          string           `json:"lecturer"`
	MainComments      string           `json:"mainComments"`
	PositivePoints    []string         `json:"positivePoints"`
	ImprovementPoints []string         `json:"improvementPoints"`
	RubricScores      map[string]Score `json:"rubricScores"`
}

// AIInsight holds the model's cross-cutting analysis plus server-side rubric averages.
type AIInsight struct {
	Analysis       string           `json:"analysis"`
	RubricAverages map[string]Score `json:"rubricAverages"`
	ToneAnalysis   string           `json:"toneAnalysis"`
}

// AISuggestion addresses three audiences with free-text advice.
type AISuggestion struct {
	ForStudent string `json:"forStudent"`
	ForAdvisor string `json:"forAdvisor"`
	ForSystem  string `json:"forSystem"`
}

// AnalysisResult is the full structured outcome of one transcript analysis.
// Every top-level section is populated after any pipeline outcome, including
// fallbacks; consumers never see a null section.
type AnalysisResult struct {
	Summary           AnalysisSummary    `json:"summary"`
	LecturerFeedbacks []LecturerFeedback `json:"lecturerFeedbacks"`
	AIInsight         AIInsight          `json:"aiInsight"`
	AISuggestion      AISuggestion       `json:"aiSuggestion"`
}
