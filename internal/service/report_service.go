package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hqnguyen/defense-eval-api/internal/dto"
	"github.com/hqnguyen/defense-eval-api/internal/models"
	"github.com/hqnguyen/defense-eval-api/internal/repository"
)

// ReportService assembles the full defense report for one session.
type ReportService interface {
	GenerateDefenseReport(ctx context.Context, sessionID uint) (dto.DefenseReport, error)
}

// contextAnalyzer lets the report pipeline hand its already-loaded session
// context to the analysis pipeline instead of loading it twice.
type contextAnalyzer interface {
	analyzeWithContext(ctx context.Context, sessionID uint, sctx SessionContext) (dto.AnalysisResult, error)
}

type reportService struct {
	loader    *SessionContextLoader
	analysis  AnalysisService
	snapshots repository.SnapshotRepository
	model     string
	logger    zerolog.Logger
}

// NewReportService builds the report pipeline service.
func NewReportService(loader *SessionContextLoader, analysis AnalysisService, snapshots repository.SnapshotRepository, model string, logger zerolog.Logger) ReportService {
	return &reportService{
		loader:    loader,
		analysis:  analysis,
		snapshots: snapshots,
		model:     model,
		logger:    logger.With().Str("component", "report_service").Logger(),
	}
}

// GenerateDefenseReport resolves the session context, runs the transcript
// analysis pipeline against it, and joins both into the report. The
// non-analysis sections come strictly from upstream records; nothing is
// mutated.
func (s *reportService) GenerateDefenseReport(ctx context.Context, sessionID uint) (dto.DefenseReport, error) {
	sctx, err := s.loader.Load(ctx, sessionID)
	if err != nil {
		return dto.DefenseReport{}, err
	}

	var analysis dto.AnalysisResult
	if shared, ok := s.analysis.(contextAnalyzer); ok {
		analysis, err = shared.analyzeWithContext(ctx, sessionID, sctx)
	} else {
		analysis, err = s.analysis.AnalyzeTranscript(ctx, sessionID)
	}
	if err != nil {
		return dto.DefenseReport{}, err
	}

	report := buildReport(sctx, analysis)
	persistSnapshot(ctx, s.snapshots, s.logger, sessionID, models.SnapshotKindReport, outcomeSuccess, s.model, report)

	return report, nil
}

func buildReport(sctx SessionContext, analysis dto.AnalysisResult) dto.DefenseReport {
	members := make([]dto.CouncilMemberInfo, 0, len(sctx.Committee))
	for _, member := range sctx.Committee {
		members = append(members, dto.CouncilMemberInfo{
			Name:  member.Lecturer.Name,
			Title: member.Lecturer.Title,
			Role:  member.Role,
		})
	}

	students := make([]dto.GroupMemberInfo, 0, len(sctx.Members))
	for _, member := range sctx.Members {
		students = append(students, dto.GroupMemberInfo{
			Name: member.Student.Name,
			Code: member.Student.Code,
			Role: member.Role,
		})
	}

	return dto.DefenseReport{
		Session: dto.SessionInfo{
			SessionID: sctx.Session.ID,
			StartTime: sctx.Session.StartTime,
			EndTime:   sctx.Session.EndTime,
			Location:  sctx.Session.Location,
			Status:    sctx.Session.Status,
		},
		Council: dto.CouncilInfo{
			Name:    sctx.Council.Name,
			Major:   sctx.Major.Name,
			Members: members,
		},
		Group: dto.GroupInfo{
			Name:         sctx.Group.Name,
			ProjectTitle: sctx.Group.ProjectTitle,
			Members:      students,
		},
		DefenseProgress: analysis,
	}
}
