package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/assessai/scoring-api/internal/models"
)

// GradingResultRepository defines data operations for grading audit rows.
type GradingResultRepository interface {
	ListByScore(ctx context.Context, scoreID uint) ([]models.GradingResult, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]models.GradingResult, error)
	ListByScoreAndQuestion(ctx context.Context, scoreID, questionID uint) ([]models.GradingResult, error)
	Create(ctx context.Context, result *models.GradingResult) error
}

type gradingResultRepository struct {
	db *gorm.DB
}

// NewGradingResultRepository instantiates the repository.
func NewGradingResultRepository(db *gorm.DB) GradingResultRepository {
	return &gradingResultRepository{db: db}
}

func (r *gradingResultRepository) ListByScore(ctx context.Context, scoreID uint) ([]models.GradingResult, error) {
	var results []models.GradingResult
	if err := r.db.WithContext(ctx).
		Where("score_id = ?", scoreID).
		Order("graded_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *gradingResultRepository) ListByQuestion(ctx context.Context, questionID uint) ([]models.GradingResult, error) {
	var results []models.GradingResult
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("graded_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *gradingResultRepository) ListByScoreAndQuestion(ctx context.Context, scoreID, questionID uint) ([]models.GradingResult, error) {
	var results []models.GradingResult
	if err := r.db.WithContext(ctx).
		Where("score_id = ?", scoreID).
		Where("question_id = ?", questionID).
		Order("graded_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *gradingResultRepository) Create(ctx context.Context, result *models.GradingResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}
