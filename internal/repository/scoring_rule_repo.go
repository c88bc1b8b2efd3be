package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/assessai/scoring-api/internal/models"
)

// ScoringRuleRepository defines data operations for scoring rules.
type ScoringRuleRepository interface {
	ListActiveByExam(ctx context.Context, examID uint) ([]models.ScoringRule, error)
	ListActiveByQuestion(ctx context.Context, questionID uint) ([]models.ScoringRule, error)
	Create(ctx context.Context, rule *models.ScoringRule) error
}

type scoringRuleRepository struct {
	db *gorm.DB
}

// NewScoringRuleRepository instantiates the repository.
func NewScoringRuleRepository(db *gorm.DB) ScoringRuleRepository {
	return &scoringRuleRepository{db: db}
}

func (r *scoringRuleRepository) ListActiveByExam(ctx context.Context, examID uint) ([]models.ScoringRule, error) {
	var rules []models.ScoringRule
	if err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *scoringRuleRepository) ListActiveByQuestion(ctx context.Context, questionID uint) ([]models.ScoringRule, error) {
	var rules []models.ScoringRule
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *scoringRuleRepository) Create(ctx context.Context, rule *models.ScoringRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}
