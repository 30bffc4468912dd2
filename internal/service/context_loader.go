package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
	"github.com/hqnguyen/defense-eval-api/internal/repository"
)

// Sentinel errors for upstream entities a pipeline request must resolve.
// These indicate a request referencing nonexistent domain data and surface
// as client errors, unlike the data-quality conditions handled by fallbacks.
var (
	ErrSessionNotFound = errors.New("defense session not found")
	ErrCouncilNotFound = errors.New("council not found")
	ErrMajorNotFound   = errors.New("major not found")
)

// SessionContext is the flat, fully materialized context one pipeline run
// needs. Nothing in it is lazily loaded.
type SessionContext struct {
	Session   models.DefenseSession
	Council   models.Council
	Major     models.Major
	Rubrics   []models.Rubric
	Committee []models.CouncilMember
	Group     models.StudentGroup
	Members   []models.GroupMember
}

// SessionContextLoader resolves the records that parameterize a prompt.
type SessionContextLoader struct {
	sessions  repository.SessionRepository
	councils  repository.CouncilRepository
	majors    repository.MajorRepository
	rubrics   repository.RubricRepository
	committee repository.CommitteeRepository
	groups    repository.GroupRepository
	logger    zerolog.Logger
}

// NewSessionContextLoader wires the loader with its read-only repositories.
func NewSessionContextLoader(
	sessions repository.SessionRepository,
	councils repository.CouncilRepository,
	majors repository.MajorRepository,
	rubrics repository.RubricRepository,
	committee repository.CommitteeRepository,
	groups repository.GroupRepository,
	logger zerolog.Logger,
) *SessionContextLoader {
	return &SessionContextLoader{
		sessions:  sessions,
		councils:  councils,
		majors:    majors,
		rubrics:   rubrics,
		committee: committee,
		groups:    groups,
		logger:    logger.With().Str("component", "session_context_loader").Logger(),
	}
}

// Load resolves the session, its council and the council's major in order,
// then fetches the independent reads (rubrics, committee assignments, group
// and memberships) concurrently. Session, council and major are required; an
// empty rubric set is carried through for the pipeline to decide on.
func (l *SessionContextLoader) Load(ctx context.Context, sessionID uint) (SessionContext, error) {
	var sctx SessionContext

	session, err := l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionContext{}, ErrSessionNotFound
		}
		return SessionContext{}, err
	}
	sctx.Session = session

	council, err := l.councils.GetByID(ctx, session.CouncilID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionContext{}, ErrCouncilNotFound
		}
		return SessionContext{}, err
	}
	sctx.Council = council

	major, err := l.majors.GetByID(ctx, council.MajorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionContext{}, ErrMajorNotFound
		}
		return SessionContext{}, err
	}
	sctx.Major = major

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		rubrics, err := l.rubrics.ListByMajor(gctx, major.ID)
		if err != nil {
			return err
		}
		sctx.Rubrics = rubrics
		return nil
	})

	group.Go(func() error {
		committee, err := l.committee.ListActiveByCouncil(gctx, council.ID)
		if err != nil {
			return err
		}
		sctx.Committee = committee
		return nil
	})

	group.Go(func() error {
		studentGroup, err := l.groups.GetByID(gctx, session.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.logger.Warn().Uint("session_id", sessionID).Uint("group_id", session.GroupID).
					Msg("session references a missing group, report will omit group details")
				return nil
			}
			return err
		}
		sctx.Group = studentGroup

		members, err := l.groups.ListActiveMembers(gctx, studentGroup.ID)
		if err != nil {
			return err
		}
		sctx.Members = members
		return nil
	})

	if err := group.Wait(); err != nil {
		return SessionContext{}, err
	}

	return sctx, nil
}
