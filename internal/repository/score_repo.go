package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/assessai/scoring-api/internal/models"
)

// ErrScoreConflict indicates another writer already completed the score for
// the same submission. Callers should re-read and return the winning row.
var ErrScoreConflict = errors.New("score already completed by a concurrent writer")

// ScoreFilter narrows score queries.
type ScoreFilter struct {
	ExamID    *uint
	StudentID *uint
	Status    *string
}

// ScoreRepository defines data operations for scores. It performs no
// business logic beyond the conflict detection needed for safe concurrent
// writes.
type ScoreRepository interface {
	GetByID(ctx context.Context, id uint) (models.Score, error)
	GetBySubmissionID(ctx context.Context, submissionID uint) (models.Score, error)
	List(ctx context.Context, filter ScoreFilter) ([]models.Score, error)
	CountByExam(ctx context.Context, examID uint) (int64, error)
	AverageByExam(ctx context.Context, examID uint) (*float64, error)
	Create(ctx context.Context, score *models.Score) error
	Update(ctx context.Context, score *models.Score) error
	SaveWithResult(ctx context.Context, score *models.Score, result *models.GradingResult) error
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository instantiates the repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) GetByID(ctx context.Context, id uint) (models.Score, error) {
	var score models.Score
	if err := r.db.WithContext(ctx).First(&score, id).Error; err != nil {
		return models.Score{}, err
	}

	return score, nil
}

func (r *scoreRepository) GetBySubmissionID(ctx context.Context, submissionID uint) (models.Score, error) {
	var score models.Score
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&score).Error; err != nil {
		return models.Score{}, err
	}

	return score, nil
}

func (r *scoreRepository) List(ctx context.Context, filter ScoreFilter) ([]models.Score, error) {
	query := r.db.WithContext(ctx).Model(&models.Score{})

	if filter.ExamID != nil {
		query = query.Where("exam_id = ?", *filter.ExamID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var scores []models.Score
	if err := query.Order("created_at DESC").Find(&scores).Error; err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *scoreRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Score{}).
		Where("exam_id = ?", examID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// AverageByExam averages completed scores only; rows in other states are
// excluded, never counted as zero. Returns nil when no completed score
// exists.
func (r *scoreRepository) AverageByExam(ctx context.Context, examID uint) (*float64, error) {
	var average sql.NullFloat64
	if err := r.db.WithContext(ctx).Model(&models.Score{}).
		Where("exam_id = ?", examID).
		Where("status = ?", models.ScoreStatusCompleted).
		Select("AVG(total_score)").
		Scan(&average).Error; err != nil {
		return nil, err
	}

	if !average.Valid {
		return nil, nil
	}

	return &average.Float64, nil
}

func (r *scoreRepository) Create(ctx context.Context, score *models.Score) error {
	return r.db.WithContext(ctx).Create(score).Error
}

func (r *scoreRepository) Update(ctx context.Context, score *models.Score) error {
	return r.db.WithContext(ctx).Save(score).Error
}

// SaveWithResult persists the score and its grading result as one atomic
// unit. A new score losing the submission_id uniqueness race, or an update
// racing against an already-completed row, returns ErrScoreConflict and
// writes nothing.
func (r *scoreRepository) SaveWithResult(ctx context.Context, score *models.Score, result *models.GradingResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if score.ID == 0 {
			if err := tx.Create(score).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrScoreConflict
				}
				return err
			}
		} else {
			res := tx.Model(&models.Score{}).
				Where("id = ?", score.ID).
				Where("status <> ?", models.ScoreStatusCompleted).
				Updates(map[string]interface{}{
					"total_score":      score.TotalScore,
					"max_score":        score.MaxScore,
					"percentage_score": score.PercentageScore,
					"status":           score.Status,
					"grading_details":  score.GradingDetails,
					"corrector_id":     score.CorrectorID,
					"algorithm":        score.Algorithm,
					"updated_at":       score.UpdatedAt,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrScoreConflict
			}
		}

		result.ScoreID = score.ID

		return tx.Create(result).Error
	})
}
