package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/defense-eval-api/internal/models"
	"github.com/hqnguyen/defense-eval-api/internal/repository"
)

func (e *testEnv) newReportService(analysis AnalysisService) ReportService {
	return NewReportService(e.loader, analysis, e.snapshots, "test-model", zerolog.Nop())
}

func TestGenerateDefenseReportJoinsContextAndAnalysis(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSession(t, env.db, "Presentation Skills")
	env.mini.Set(transcriptKey(sessionID), validTranscript())

	reply := `{
	  "summary": {"overallSummary": "Went well.", "studentPerformance": "Good.", "discussionFocus": ["Scope"]},
	  "lecturerFeedbacks": [{"lecturer": "Dr. Tran", "mainComments": "ok", "positivePoints": [], "improvementPoints": [], "rubricScores": {"Presentation Skills": 9.0}}],
	  "aiInsight": {"analysis": "a", "rubricAverages": {}, "toneAnalysis": "t"},
	  "aiSuggestion": {"forStudent": "s", "forAdvisor": "a", "forSystem": "y"}
	}`
	analysis := env.newService(&stubCompleter{reply: reply})
	reports := env.newReportService(analysis)

	report, err := reports.GenerateDefenseReport(context.Background(), sessionID)
	require.NoError(t, err)

	require.Equal(t, sessionID, report.Session.SessionID)
	require.Equal(t, "Room 301", report.Session.Location)
	require.Equal(t, "Council 1", report.Council.Name)
	require.Equal(t, "Software Engineering", report.Council.Major)
	require.Len(t, report.Council.Members, 1)
	require.Equal(t, "Chair", report.Council.Members[0].Role)
	require.Equal(t, "Group A", report.Group.Name)
	require.Equal(t, "Campus Navigator", report.Group.ProjectTitle)
	require.Len(t, report.Group.Members, 1)
	require.Equal(t, "Nguyen Van A", report.Group.Members[0].Name)

	require.Equal(t, "Went well.", report.DefenseProgress.Summary.OverallSummary)
	mean, ok := report.DefenseProgress.AIInsight.RubricAverages["Presentation Skills"].Value()
	require.True(t, ok)
	require.InDelta(t, 9.0, mean, 0.001)
}

func TestGenerateDefenseReportPersistsReportSnapshot(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSession(t, env.db, "Presentation Skills")
	env.mini.Set(transcriptKey(sessionID), validTranscript())

	reply := `{
	  "summary": {"overallSummary": "Went well.", "studentPerformance": "Good.", "discussionFocus": ["Scope"]},
	  "lecturerFeedbacks": [],
	  "aiInsight": {"analysis": "a", "rubricAverages": {}, "toneAnalysis": "t"},
	  "aiSuggestion": {"forStudent": "s", "forAdvisor": "a", "forSystem": "y"}
	}`
	reports := env.newReportService(env.newService(&stubCompleter{reply: reply}))

	_, err := reports.GenerateDefenseReport(context.Background(), sessionID)
	require.NoError(t, err)

	var reportRows []models.AnalysisSnapshot
	require.NoError(t, env.db.Where("session_id = ? AND kind = ?", sessionID, models.SnapshotKindReport).Find(&reportRows).Error)
	require.Len(t, reportRows, 1)
	require.Equal(t, "success", reportRows[0].Outcome)
	require.Equal(t, "test-model", reportRows[0].Model)
	require.Contains(t, reportRows[0].Result, "council")

	// The analysis run inside the report still records its own audit row.
	var analysisRows []models.AnalysisSnapshot
	require.NoError(t, env.db.Where("session_id = ? AND kind = ?", sessionID, models.SnapshotKindAnalysis).Find(&analysisRows).Error)
	require.Len(t, analysisRows, 1)
}

type countingSessionRepo struct {
	inner repository.SessionRepository
	calls int
}

func (r *countingSessionRepo) GetByID(ctx context.Context, id uint) (models.DefenseSession, error) {
	r.calls++
	return r.inner.GetByID(ctx, id)
}

func TestGenerateDefenseReportLoadsContextOnce(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSession(t, env.db, "Presentation Skills")
	env.mini.Set(transcriptKey(sessionID), validTranscript())

	counting := &countingSessionRepo{inner: repository.NewSessionRepository(env.db)}
	loader := NewSessionContextLoader(
		counting,
		repository.NewCouncilRepository(env.db),
		repository.NewMajorRepository(env.db),
		repository.NewRubricRepository(env.db),
		repository.NewCommitteeRepository(env.db),
		repository.NewGroupRepository(env.db),
		zerolog.Nop(),
	)
	analysis := NewAnalysisService(loader, env.cache, &stubCompleter{reply: "not json"}, env.snapshots, "test-model", zerolog.Nop())
	reports := NewReportService(loader, analysis, env.snapshots, "test-model", zerolog.Nop())

	_, err := reports.GenerateDefenseReport(context.Background(), sessionID)
	require.NoError(t, err)
	require.Equal(t, 1, counting.calls)
}

func TestGenerateDefenseReportMissingTranscriptStillCarriesContext(t *testing.T) {
	env := newTestEnv(t)
	sessionID := seedSession(t, env.db, "Presentation Skills")
	analysis := env.newService(&stubCompleter{})
	reports := env.newReportService(analysis)

	report, err := reports.GenerateDefenseReport(context.Background(), sessionID)
	require.NoError(t, err)

	require.Equal(t, "Council 1", report.Council.Name)
	require.Contains(t, report.DefenseProgress.Summary.OverallSummary, "not found")
	assertFullyPopulated(t, report.DefenseProgress)
}

func TestGenerateDefenseReportUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	analysis := env.newService(&stubCompleter{})
	reports := env.newReportService(analysis)

	_, err := reports.GenerateDefenseReport(context.Background(), 31337)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
