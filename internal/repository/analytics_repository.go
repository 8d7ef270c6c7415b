package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// CourseCompletionStats 课程下已发布课时的完成行数，用于计算平均完成度
func (r *AnalyticsRepository) CourseCompletionStats(courseID uint) (completedRows int64, err error) {
	err = r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lessons.course_id = ? AND lessons.is_published = ? AND lesson_progress.status = ?",
			courseID, true, model.ProgressCompleted).
		Count(&completedRows).Error
	return completedRows, err
}

// QuizAttemptStats 课程下所有测验的已评分作答数、通过数和平均得分率
func (r *AnalyticsRepository) QuizAttemptStats(courseID uint) (graded, passed int64, avgPercentage float64, err error) {
	base := r.DB.Model(&model.QuizAttempt{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quizzes.course_id = ? AND quiz_attempts.completed_at IS NOT NULL", courseID)

	if err = base.Session(&gorm.Session{}).Count(&graded).Error; err != nil {
		return 0, 0, 0, err
	}
	if graded == 0 {
		return 0, 0, 0, nil
	}

	if err = base.Session(&gorm.Session{}).Where("quiz_attempts.passed = ?", true).Count(&passed).Error; err != nil {
		return 0, 0, 0, err
	}

	var avg *float64
	if err = base.Session(&gorm.Session{}).Select("AVG(quiz_attempts.percentage)").Scan(&avg).Error; err != nil {
		return 0, 0, 0, err
	}
	if avg != nil {
		avgPercentage = *avg
	}
	return graded, passed, avgPercentage, nil
}

func (r *AnalyticsRepository) CountAttempts() (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Count(&count).Error
	return count, err
}
