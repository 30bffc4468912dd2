package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/hqnguyen/defense-eval-api/internal/dto"
	"github.com/hqnguyen/defense-eval-api/internal/models"
	"github.com/hqnguyen/defense-eval-api/internal/observability"
	"github.com/hqnguyen/defense-eval-api/internal/repository"
	"github.com/hqnguyen/defense-eval-api/pkg/llm"
)

const (
	transcriptKeyPattern = "transcript:defense:%d"
	minRubricScore       = 4.0
	maxRubricScore       = 10.0
)

// Completer abstracts the LLM client so the pipeline can be tested with a stub.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AnalysisService runs the transcript analysis pipeline.
type AnalysisService interface {
	AnalyzeTranscript(ctx context.Context, sessionID uint) (dto.AnalysisResult, error)
}

type analysisService struct {
	loader    *SessionContextLoader
	cache     *redis.Client
	llm       Completer
	snapshots repository.SnapshotRepository
	model     string
	logger    zerolog.Logger
}

// NewAnalysisService builds the analysis pipeline service.
func NewAnalysisService(loader *SessionContextLoader, cache *redis.Client, completer Completer, snapshots repository.SnapshotRepository, model string, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		loader:    loader,
		cache:     cache,
		llm:       completer,
		snapshots: snapshots,
		model:     model,
		logger:    logger.With().Str("component", "analysis_service").Logger(),
	}
}

// AnalyzeTranscript gates the cached transcript, assembles the session
// context, delegates semantic analysis to the configured model, then
// validates, parses and aggregates the reply. Data-quality and configuration
// gaps return schema-valid fallback results with a nil error; missing domain
// entities and model-service failures return sentinel errors.
func (s *analysisService) AnalyzeTranscript(ctx context.Context, sessionID uint) (dto.AnalysisResult, error) {
	return s.analyze(ctx, sessionID, nil)
}

// analyzeWithContext runs the pipeline against an already-resolved session
// context so callers that loaded it themselves do not trigger a second round
// of repository reads.
func (s *analysisService) analyzeWithContext(ctx context.Context, sessionID uint, sctx SessionContext) (dto.AnalysisResult, error) {
	return s.analyze(ctx, sessionID, &sctx)
}

func (s *analysisService) analyze(ctx context.Context, sessionID uint, preloaded *SessionContext) (dto.AnalysisResult, error) {
	transcript, found, err := s.fetchTranscript(ctx, sessionID)
	if err != nil {
		return dto.AnalysisResult{}, err
	}
	if !found {
		s.logger.Info().Uint("session_id", sessionID).Msg("transcript missing from cache")
		return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeNotFound, notFoundFallback()), nil
	}

	check := ValidateTranscript(transcript)
	if !check.OK {
		if check.Reason == ReasonNotFound {
			return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeNotFound, notFoundFallback()), nil
		}
		s.logger.Info().Uint("session_id", sessionID).Str("reason", check.Reason).Msg("transcript rejected by quality gate")
		return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeInvalidContent, invalidContentFallback(check.Reason)), nil
	}
	if check.KeywordMatches < minKeywordMatches {
		s.logger.Warn().Uint("session_id", sessionID).Int("keyword_matches", check.KeywordMatches).
			Msg("transcript contains few defense keywords, proceeding anyway")
	}

	sctx := SessionContext{}
	if preloaded != nil {
		sctx = *preloaded
	} else {
		sctx, err = s.loader.Load(ctx, sessionID)
		if err != nil {
			return dto.AnalysisResult{}, err
		}
	}

	if len(sctx.Rubrics) == 0 {
		s.logger.Warn().Uint("major_id", sctx.Major.ID).Msg("major has no rubrics configured")
		return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeNoRubrics, noRubricsFallback(sctx.Major.ID)), nil
	}

	system, user := BuildAnalysisPrompt(sctx.Rubrics, transcript)

	reply, err := s.llm.Complete(ctx, system, user)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyCompletion) {
			return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeParseFailure, parseFailureFallback()), nil
		}
		return dto.AnalysisResult{}, err
	}

	result, ok := ParseAnalysis(reply)
	if !ok {
		s.logger.Warn().Uint("session_id", sessionID).Msg("model reply could not be parsed")
		return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeParseFailure, parseFailureFallback()), nil
	}

	restrictScoresToRubrics(&result, sctx.Rubrics)
	result.AIInsight.RubricAverages = AggregateRubricScores(result.LecturerFeedbacks)

	return s.finish(ctx, sessionID, models.SnapshotKindAnalysis, outcomeSuccess, result), nil
}

func (s *analysisService) fetchTranscript(ctx context.Context, sessionID uint) (string, bool, error) {
	key := fmt.Sprintf(transcriptKeyPattern, sessionID)
	transcript, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read transcript cache: %w", err)
	}

	return transcript, true, nil
}

// finish records the outcome metric and audit snapshot, then returns the
// result unchanged.
func (s *analysisService) finish(ctx context.Context, sessionID uint, kind, outcome string, result dto.AnalysisResult) dto.AnalysisResult {
	observability.AnalysisOutcomes().WithLabelValues(kind, outcome).Inc()
	persistSnapshot(ctx, s.snapshots, s.logger, sessionID, kind, outcome, s.model, result)
	return result
}

// persistSnapshot writes an audit row for a completed pipeline run. The
// payload goes through a JSON round trip so it lands as a queryable JSONMap.
// Persistence is best-effort; a failed write never fails the run.
func persistSnapshot(ctx context.Context, repo repository.SnapshotRepository, logger zerolog.Logger, sessionID uint, kind, outcome, model string, payload interface{}) {
	if repo == nil {
		return
	}

	body := map[string]interface{}{}
	if raw, err := json.Marshal(payload); err == nil {
		_ = json.Unmarshal(raw, &body)
	}

	snapshot := models.AnalysisSnapshot{
		SessionID: sessionID,
		Kind:      kind,
		Outcome:   outcome,
		Result:    datatypes.JSONMap(body),
		Model:     model,
	}
	if err := repo.Save(ctx, &snapshot); err != nil {
		logger.Warn().Err(err).Uint("session_id", sessionID).Str("kind", kind).Msg("failed to persist analysis snapshot")
	}
}

// restrictScoresToRubrics drops scores for names outside the major's rubric
// set and clamps present values into the rubric scale.
func restrictScoresToRubrics(result *dto.AnalysisResult, rubrics []models.Rubric) {
	known := make(map[string]struct{}, len(rubrics))
	for _, rubric := range rubrics {
		known[rubric.Name] = struct{}{}
	}

	for i := range result.LecturerFeedbacks {
		scores := result.LecturerFeedbacks[i].RubricScores
		filtered := make(map[string]dto.Score, len(scores))
		for name, score := range scores {
			if _, ok := known[name]; !ok {
				continue
			}
			if value, present := score.Value(); present {
				if value < minRubricScore {
					value = minRubricScore
				}
				if value > maxRubricScore {
					value = maxRubricScore
				}
				filtered[name] = dto.ScoreOf(value)
				continue
			}
			filtered[name] = dto.Score{}
		}
		result.LecturerFeedbacks[i].RubricScores = filtered
	}
}
