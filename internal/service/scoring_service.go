package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/models"
	"github.com/assessai/scoring-api/internal/observability"
	"github.com/assessai/scoring-api/internal/repository"
	"github.com/assessai/scoring-api/internal/strategy"
	"github.com/assessai/scoring-api/pkg/textstat"
)

// ErrScoreNotFound indicates a score could not be found.
var ErrScoreNotFound = errors.New("score not found")

// ErrInvalidStatusTransition indicates a backward move in the score lifecycle.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// ErrScoreExceedsMax indicates a total score above the score's max scale.
var ErrScoreExceedsMax = errors.New("total score exceeds max score")

// ResultPublisher broadcasts completed scores to downstream consumers.
// Publishing is best effort; failures never fail the pipeline.
type ResultPublisher interface {
	PublishScoreCompleted(ctx context.Context, score dto.ScoreResponse) error
}

// ScoringService orchestrates the grading pipeline and the score query
// surface.
type ScoringService interface {
	ProcessScoringRequest(ctx context.Context, request dto.ScoringRequest) (dto.ScoreResponse, error)
	GetScoreByID(ctx context.Context, id uint) (dto.ScoreResponse, error)
	GetScoreBySubmission(ctx context.Context, submissionID uint) (dto.ScoreResponse, error)
	ListScores(ctx context.Context, filter dto.ScoreFilter) ([]dto.ScoreResponse, error)
	UpdateScore(ctx context.Context, id uint, payload dto.ScoreUpdateRequest) (dto.ScoreResponse, error)
	ListGradingResults(ctx context.Context, scoreID uint) ([]dto.GradingResultResponse, error)
	ExamStatistics(ctx context.Context, examID uint) (dto.ExamStatisticsResponse, error)
	ListExamRules(ctx context.Context, examID uint) ([]dto.ScoringRuleResponse, error)
}

type scoringService struct {
	scores    repository.ScoreRepository
	results   repository.GradingResultRepository
	rules     repository.ScoringRuleRepository
	registry  *strategy.Registry
	cache     *redis.Client
	cacheTTL  time.Duration
	publisher ResultPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewScoringService constructs the scoring orchestrator. The cache and
// publisher may be nil; both concerns degrade gracefully.
func NewScoringService(
	scores repository.ScoreRepository,
	results repository.GradingResultRepository,
	rules repository.ScoringRuleRepository,
	registry *strategy.Registry,
	cache *redis.Client,
	cacheTTL time.Duration,
	publisher ResultPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) ScoringService {
	return &scoringService{
		scores:    scores,
		results:   results,
		rules:     rules,
		registry:  registry,
		cache:     cache,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "scoring_service").Logger(),
		tracer:    otel.Tracer("github.com/assessai/scoring-api/internal/service/scoring"),
		now:       time.Now,
	}
}

// ProcessScoringRequest grades one submission. Invoking it again for a
// submission that already reached COMPLETED returns the stored score
// unchanged and writes nothing.
func (s *scoringService) ProcessScoringRequest(ctx context.Context, request dto.ScoringRequest) (dto.ScoreResponse, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.process", trace.WithAttributes(
		attribute.Int64("scoring.submission_id", int64(request.SubmissionID)),
		attribute.String("scoring.algorithm", request.Algorithm),
	))
	defer span.End()

	if err := s.validator.Struct(request); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ScoreResponse{}, err
	}

	existing, err := s.scores.GetBySubmissionID(ctx, request.SubmissionID)
	switch {
	case err == nil:
		if existing.IsCompleted() {
			s.logger.Info().Uint("submission_id", request.SubmissionID).Msg("score already completed, returning existing")
			span.SetAttributes(attribute.Bool("scoring.idempotent", true))
			return dto.NewScoreResponse(existing), nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = models.Score{}
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_lookup_failed")
		return dto.ScoreResponse{}, err
	}

	resolved, err := s.registry.Resolve(request.Algorithm)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown_algorithm")
		return dto.ScoreResponse{}, err
	}

	draft, err := resolved.Process(request)
	if err != nil {
		s.markFailed(ctx, existing, request, resolved.Name(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "strategy_failed")
		return dto.ScoreResponse{}, fmt.Errorf("strategy %s failed: %w", resolved.Name(), err)
	}

	now := s.now()
	if existing.ID != 0 {
		draft.ID = existing.ID
		draft.CreatedAt = existing.CreatedAt
	} else {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	result := models.GradingResult{
		PointsEarned:    draft.TotalScore,
		PointsPossible:  draft.MaxScore,
		AutoGraded:      true,
		Feedback:        fmt.Sprintf("Scoring automatique effectué avec l'algorithme: %s", draft.Algorithm),
		GradedAt:        now,
		GradingMetadata: datatypes.JSONMap(request.Metadata),
	}

	if err := s.scores.SaveWithResult(ctx, &draft, &result); err != nil {
		if errors.Is(err, repository.ErrScoreConflict) {
			// A concurrent run won the submission uniqueness race; its
			// score is the authoritative one.
			winner, readErr := s.scores.GetBySubmissionID(ctx, request.SubmissionID)
			if readErr != nil {
				return dto.ScoreResponse{}, readErr
			}
			span.SetAttributes(attribute.Bool("scoring.idempotent", true))
			return dto.NewScoreResponse(winner), nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_persist_failed")
		return dto.ScoreResponse{}, err
	}

	observability.StrategyRuns().WithLabelValues(draft.Algorithm).Inc()
	s.invalidateStatistics(ctx, draft.ExamID)

	response := dto.NewScoreResponse(draft)
	if s.publisher != nil {
		if err := s.publisher.PublishScoreCompleted(ctx, response); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", request.SubmissionID).Msg("failed to publish scoring result")
		}
	}

	s.logger.Info().
		Uint("submission_id", request.SubmissionID).
		Str("algorithm", draft.Algorithm).
		Float64("total_score", draft.TotalScore).
		Msg("scoring completed")

	span.SetAttributes(attribute.Float64("scoring.total_score", draft.TotalScore))

	return response, nil
}

// markFailed records a terminal FAILED score so a strategy failure leaves
// an auditable trace instead of silently dropping the event. No grading
// result is written.
func (s *scoringService) markFailed(ctx context.Context, existing models.Score, request dto.ScoringRequest, algorithm string, cause error) {
	now := s.now()
	failed := models.Score{
		ID:             existing.ID,
		SubmissionID:   request.SubmissionID,
		ExamID:         request.ExamID,
		StudentID:      request.StudentID,
		MaxScore:       strategy.DefaultMaxScore,
		Status:         models.ScoreStatusFailed,
		GradingDetails: cause.Error(),
		Algorithm:      algorithm,
		CreatedAt:      existing.CreatedAt,
		UpdatedAt:      now,
	}
	if failed.ID == 0 {
		failed.CreatedAt = now
	}

	var err error
	if failed.ID != 0 {
		err = s.scores.Update(ctx, &failed)
	} else {
		err = s.scores.Create(ctx, &failed)
	}
	if err != nil {
		s.logger.Error().Err(err).Uint("submission_id", request.SubmissionID).Msg("failed to record failed score")
	}
}

func (s *scoringService) GetScoreByID(ctx context.Context, id uint) (dto.ScoreResponse, error) {
	score, err := s.scores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}

	return dto.NewScoreResponse(score), nil
}

func (s *scoringService) GetScoreBySubmission(ctx context.Context, submissionID uint) (dto.ScoreResponse, error) {
	score, err := s.scores.GetBySubmissionID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}

	return dto.NewScoreResponse(score), nil
}

func (s *scoringService) ListScores(ctx context.Context, filter dto.ScoreFilter) ([]dto.ScoreResponse, error) {
	scores, err := s.scores.List(ctx, repository.ScoreFilter{
		ExamID:    filter.ExamID,
		StudentID: filter.StudentID,
		Status:    filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewScoreResponseSlice(scores), nil
}

// UpdateScore applies the non-nil fields of the patch to an existing score,
// re-deriving the percentage when the total changes. Status moves are
// forward only.
func (s *scoringService) UpdateScore(ctx context.Context, id uint, payload dto.ScoreUpdateRequest) (dto.ScoreResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScoreResponse{}, err
	}

	score, err := s.scores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}

	if payload.TotalScore != nil {
		if *payload.TotalScore > score.MaxScore {
			return dto.ScoreResponse{}, ErrScoreExceedsMax
		}
		score.TotalScore = textstat.Round2(*payload.TotalScore)
		score.PercentageScore = textstat.Round2(score.TotalScore / score.MaxScore * 100)
	}

	if payload.Status != nil {
		next := strings.ToUpper(strings.TrimSpace(*payload.Status))
		if !score.CanTransition(next) {
			return dto.ScoreResponse{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, score.Status, next)
		}
		score.Status = next
	}

	if payload.GradingDetails != nil {
		score.GradingDetails = strings.TrimSpace(s.sanitizer.Sanitize(*payload.GradingDetails))
	}

	if payload.CorrectorID != nil {
		score.CorrectorID = payload.CorrectorID
	}

	score.UpdatedAt = s.now()

	if err := s.scores.Update(ctx, &score); err != nil {
		return dto.ScoreResponse{}, err
	}

	s.invalidateStatistics(ctx, score.ExamID)

	s.logger.Info().Uint("score_id", score.ID).Msg("score updated")

	return dto.NewScoreResponse(score), nil
}

func (s *scoringService) ListGradingResults(ctx context.Context, scoreID uint) ([]dto.GradingResultResponse, error) {
	if _, err := s.scores.GetByID(ctx, scoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}

	results, err := s.results.ListByScore(ctx, scoreID)
	if err != nil {
		return nil, err
	}

	return dto.NewGradingResultResponseSlice(results), nil
}

// ExamStatistics aggregates all scores for one exam. The response is
// cached; every write touching the exam invalidates the cached entry.
func (s *scoringService) ExamStatistics(ctx context.Context, examID uint) (dto.ExamStatisticsResponse, error) {
	cacheKey := statisticsCacheKey(examID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ExamStatisticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("exam_id", examID).Msg("statistics cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read statistics cache")
		}
	}

	count, err := s.scores.CountByExam(ctx, examID)
	if err != nil {
		return dto.ExamStatisticsResponse{}, err
	}

	average, err := s.scores.AverageByExam(ctx, examID)
	if err != nil {
		return dto.ExamStatisticsResponse{}, err
	}

	scores, err := s.scores.List(ctx, repository.ScoreFilter{ExamID: &examID})
	if err != nil {
		return dto.ExamStatisticsResponse{}, err
	}

	response := dto.ExamStatisticsResponse{
		ExamID:  examID,
		Count:   count,
		Average: average,
		Scores:  dto.NewScoreResponseSlice(scores),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store statistics cache")
			}
		}
	}

	return response, nil
}

func (s *scoringService) ListExamRules(ctx context.Context, examID uint) ([]dto.ScoringRuleResponse, error) {
	rules, err := s.rules.ListActiveByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	return dto.NewScoringRuleResponseSlice(rules), nil
}

func (s *scoringService) invalidateStatistics(ctx context.Context, examID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statisticsCacheKey(examID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("exam_id", examID).Msg("failed to invalidate statistics cache")
	}
}

func statisticsCacheKey(examID uint) string {
	return fmt.Sprintf("scoring:exam:%d:statistics", examID)
}
