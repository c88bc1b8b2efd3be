package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assessai/scoring-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Score{}, &models.GradingResult{}, &models.ScoringRule{}))
	return db
}

func completedScore(submissionID, examID, studentID uint, total float64) models.Score {
	return models.Score{
		SubmissionID:    submissionID,
		ExamID:          examID,
		StudentID:       studentID,
		TotalScore:      total,
		MaxScore:        20.0,
		PercentageScore: total / 20.0 * 100,
		Status:          models.ScoreStatusCompleted,
		Algorithm:       "AUTOMATIC",
	}
}

func TestScoreRepositoryGetBySubmissionID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)

	score := completedScore(100, 1, 10, 12.5)
	require.NoError(t, repo.Create(context.Background(), &score))

	found, err := repo.GetBySubmissionID(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, score.ID, found.ID)
	require.Equal(t, 12.5, found.TotalScore)

	_, err = repo.GetBySubmissionID(context.Background(), 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScoreRepositoryUniqueSubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)

	first := completedScore(200, 1, 10, 10)
	require.NoError(t, repo.Create(context.Background(), &first))

	duplicate := completedScore(200, 1, 10, 15)
	err := repo.Create(context.Background(), &duplicate)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestScoreRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)

	ctx := context.Background()
	scores := []models.Score{
		completedScore(301, 1, 10, 10),
		completedScore(302, 1, 11, 15),
		completedScore(303, 2, 10, 20),
	}
	scores[2].Status = models.ScoreStatusPending
	for i := range scores {
		require.NoError(t, repo.Create(ctx, &scores[i]))
	}

	examID := uint(1)
	byExam, err := repo.List(ctx, ScoreFilter{ExamID: &examID})
	require.NoError(t, err)
	require.Len(t, byExam, 2)

	studentID := uint(10)
	byStudent, err := repo.List(ctx, ScoreFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, byStudent, 2)

	byBoth, err := repo.List(ctx, ScoreFilter{ExamID: &examID, StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	require.Equal(t, uint(301), byBoth[0].SubmissionID)

	pending := models.ScoreStatusPending
	byStatus, err := repo.List(ctx, ScoreFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, uint(303), byStatus[0].SubmissionID)
}

func TestScoreRepositoryAverageExcludesIncomplete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	ctx := context.Background()

	for i, total := range []float64{10, 15, 20} {
		score := completedScore(uint(400+i), 5, uint(50+i), total)
		require.NoError(t, repo.Create(ctx, &score))
	}

	count, err := repo.CountByExam(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	average, err := repo.AverageByExam(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, average)
	require.InDelta(t, 15.0, *average, 1e-9)

	pending := completedScore(450, 5, 60, 3)
	pending.Status = models.ScoreStatusPending
	require.NoError(t, repo.Create(ctx, &pending))

	average, err = repo.AverageByExam(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, average)
	require.InDelta(t, 15.0, *average, 1e-9, "pending scores must not move the average")

	count, err = repo.CountByExam(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
}

func TestScoreRepositoryAverageEmptyExam(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)

	average, err := repo.AverageByExam(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, average)
}

func TestSaveWithResultPersistsAtomically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	results := NewGradingResultRepository(db)
	ctx := context.Background()

	score := completedScore(500, 7, 70, 16)
	result := models.GradingResult{
		PointsEarned:   16,
		PointsPossible: 20,
		AutoGraded:     true,
		Feedback:       "Scoring automatique effectué avec l'algorithme: AUTOMATIC",
		GradedAt:       time.Now(),
	}
	require.NoError(t, repo.SaveWithResult(ctx, &score, &result))
	require.NotZero(t, score.ID)
	require.Equal(t, score.ID, result.ScoreID)

	rows, err := results.ListByScore(ctx, score.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSaveWithResultConflictOnDuplicateSubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	results := NewGradingResultRepository(db)
	ctx := context.Background()

	winner := completedScore(600, 8, 80, 18)
	winnerResult := models.GradingResult{PointsEarned: 18, PointsPossible: 20, AutoGraded: true, GradedAt: time.Now()}
	require.NoError(t, repo.SaveWithResult(ctx, &winner, &winnerResult))

	loser := completedScore(600, 8, 80, 12)
	loserResult := models.GradingResult{PointsEarned: 12, PointsPossible: 20, AutoGraded: true, GradedAt: time.Now()}
	err := repo.SaveWithResult(ctx, &loser, &loserResult)
	require.ErrorIs(t, err, ErrScoreConflict)

	rows, err := results.ListByScore(ctx, winner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1, "losing writer must not add a grading result")
}

func TestSaveWithResultConflictOnCompletedUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	ctx := context.Background()

	existing := completedScore(700, 9, 90, 14)
	require.NoError(t, repo.Create(ctx, &existing))

	update := existing
	update.TotalScore = 19
	update.UpdatedAt = time.Now()
	result := models.GradingResult{PointsEarned: 19, PointsPossible: 20, AutoGraded: true, GradedAt: time.Now()}
	err := repo.SaveWithResult(ctx, &update, &result)
	require.ErrorIs(t, err, ErrScoreConflict)

	unchanged, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, 14.0, unchanged.TotalScore)
}

func TestSaveWithResultUpdatesPendingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepository(db)
	results := NewGradingResultRepository(db)
	ctx := context.Background()

	pending := completedScore(800, 3, 30, 0)
	pending.Status = models.ScoreStatusPending
	require.NoError(t, repo.Create(ctx, &pending))

	update := pending
	update.TotalScore = 17
	update.PercentageScore = 85
	update.Status = models.ScoreStatusCompleted
	update.UpdatedAt = time.Now()
	result := models.GradingResult{PointsEarned: 17, PointsPossible: 20, AutoGraded: true, GradedAt: time.Now()}
	require.NoError(t, repo.SaveWithResult(ctx, &update, &result))

	saved, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, models.ScoreStatusCompleted, saved.Status)
	require.Equal(t, 17.0, saved.TotalScore)

	rows, err := results.ListByScore(ctx, pending.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
