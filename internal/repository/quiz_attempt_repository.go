package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *QuizAttemptRepository) FindByStudentAndQuiz(studentID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("student_id = ? AND quiz_id = ?", studentID, quizID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Finalize 以 completed_at IS NULL 作为独占条件写入评分结果，并保存逐题作答。
// 返回 false 表示该作答已被（并发的）另一次提交完成，本次提交未写入任何数据。
func (r *QuizAttemptRepository) Finalize(attempt *model.QuizAttempt, answers []model.QuizAttemptAnswer, completedAt time.Time) (bool, error) {
	claimed := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.QuizAttempt{}).
			Where("id = ? AND completed_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{
				"score":        attempt.Score,
				"total_points": attempt.TotalPoints,
				"percentage":   attempt.Percentage,
				"passed":       attempt.Passed,
				"completed_at": completedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		claimed = true

		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return claimed, err
}

func (r *QuizAttemptRepository) ListAnswers(attemptID uint) ([]model.QuizAttemptAnswer, error) {
	var answers []model.QuizAttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("question_id asc").Find(&answers).Error
	return answers, err
}

func (r *QuizAttemptRepository) ListByQuiz(quizID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	query := r.DB.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.QuizAttempt
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}

func (r *QuizAttemptRepository) CountCompleted() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("completed_at IS NOT NULL").Count(&count).Error
	return count, err
}
