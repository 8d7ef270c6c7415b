package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonProgressRepository struct {
	DB *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) *LessonProgressRepository {
	return &LessonProgressRepository{DB: db}
}

func (r *LessonProgressRepository) Find(studentID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Start 将 (student, lesson) 的进度推进到 in_progress。
// 插入和条件更新都依赖 idx_student_lesson 唯一索引，并发调用不会产生重复行；
// 已经处于 in_progress 或 completed 的记录不会被改动。
func (r *LessonProgressRepository) Start(studentID, lessonID uint, now time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		startedAt := now
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&model.LessonProgress{
			StudentID: studentID,
			LessonID:  lessonID,
			Status:    model.ProgressInProgress,
			StartedAt: &startedAt,
		}).Error
		if err != nil {
			return err
		}

		// 已有 not_started 记录时推进状态；其他状态不回退
		return tx.Model(&model.LessonProgress{}).
			Where("student_id = ? AND lesson_id = ? AND status = ?", studentID, lessonID, model.ProgressNotStarted).
			Updates(map[string]interface{}{
				"status":     model.ProgressInProgress,
				"started_at": now,
			}).Error
	})
}

// Complete 将 (student, lesson) 的进度推进到 completed。
// 对已完成的记录是空操作，原 completed_at 保持不变。
func (r *LessonProgressRepository) Complete(studentID, lessonID uint, now time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		completedAt := now
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&model.LessonProgress{
			StudentID:   studentID,
			LessonID:    lessonID,
			Status:      model.ProgressCompleted,
			StartedAt:   &completedAt,
			CompletedAt: &completedAt,
		}).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.LessonProgress{}).
			Where("student_id = ? AND lesson_id = ? AND status <> ?", studentID, lessonID, model.ProgressCompleted).
			Updates(map[string]interface{}{
				"status":       model.ProgressCompleted,
				"completed_at": now,
				"started_at":   gorm.Expr("COALESCE(started_at, ?)", now),
			}).Error
	})
}

func (r *LessonProgressRepository) AddTimeSpent(studentID, lessonID uint, seconds int) error {
	return r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Update("time_spent", gorm.Expr("time_spent + ?", seconds)).Error
}

func (r *LessonProgressRepository) CountCompleted(studentID uint, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("student_id = ? AND lesson_id IN ? AND status = ?", studentID, lessonIDs, model.ProgressCompleted).
		Count(&count).Error
	return count, err
}

func (r *LessonProgressRepository) ListByStudent(studentID uint, lessonIDs []uint) ([]model.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var records []model.LessonProgress
	err := r.DB.Where("student_id = ? AND lesson_id IN ?", studentID, lessonIDs).Find(&records).Error
	return records, err
}
