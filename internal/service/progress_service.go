package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 维护学生的课时学习进度并汇总课程完成度。
// 状态机：not_started -> in_progress -> completed，不提供任何回退操作。
type ProgressService struct {
	LessonRepo   *repository.LessonRepository
	ProgressRepo *repository.LessonProgressRepository

	now func() time.Time
}

func NewProgressService(lessonRepo *repository.LessonRepository, progressRepo *repository.LessonProgressRepository) *ProgressService {
	return &ProgressService{
		LessonRepo:   lessonRepo,
		ProgressRepo: progressRepo,
		now:          time.Now,
	}
}

// CourseCompletion 课程完成度汇总
type CourseCompletion struct {
	CourseID         uint    `json:"courseId"`
	PublishedLessons int     `json:"publishedLessons"`
	CompletedLessons int     `json:"completedLessons"`
	Percentage       float64 `json:"percentage"`
	IsCompleted      bool    `json:"isCompleted"`
}

// LessonProgressItem 单课时进度明细
type LessonProgressItem struct {
	LessonID    uint                 `json:"lessonId"`
	Title       string               `json:"title"`
	Order       int                  `json:"order"`
	Status      model.ProgressStatus `json:"status"`
	StartedAt   *time.Time           `json:"startedAt,omitempty"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	TimeSpent   int                  `json:"timeSpent"`
}

// StartLesson 学生开始学习课时。幂等：重复调用以及对已完成课时调用都是空操作。
func (s *ProgressService) StartLesson(studentID, lessonID uint) error {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	return s.ProgressRepo.Start(studentID, lessonID, s.now())
}

// CompleteLesson 学生将课时标记为完成。允许未显式 start 直接完成，
// 此时 started_at 与 completed_at 同时落在当前时间；重复完成保留原 completed_at。
func (s *ProgressService) CompleteLesson(studentID, lessonID uint) error {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	if err := s.ProgressRepo.Complete(studentID, lessonID, s.now()); err != nil {
		return err
	}

	monitoring.LessonCompletions.Inc()
	return nil
}

// RecordTimeSpent 累加课时学习时长（秒）。时长仅作参考，不影响完成状态。
func (s *ProgressService) RecordTimeSpent(studentID, lessonID uint, seconds int) error {
	if seconds <= 0 {
		return nil
	}
	return s.ProgressRepo.AddTimeSpent(studentID, lessonID, seconds)
}

// GetCourseCompletion 计算学生对课程的完成百分比（0-100，保留两位小数）。
// 课时关系加载失败时按"无已发布课时"降级为 0，不向调用方抛错。
func (s *ProgressService) GetCourseCompletion(studentID, courseID uint) (*CourseCompletion, error) {
	completion := &CourseCompletion{CourseID: courseID}

	lessons, err := s.LessonRepo.ListPublishedByCourse(courseID)
	if err != nil {
		logger.Log.Warn("lesson lookup failed, treating course as having no published lessons",
			zap.Uint("courseId", courseID), zap.Error(err))
		return completion, nil
	}
	if len(lessons) == 0 {
		return completion, nil
	}

	lessonIDs := make([]uint, len(lessons))
	for i, lesson := range lessons {
		lessonIDs[i] = lesson.ID
	}

	completed, err := s.ProgressRepo.CountCompleted(studentID, lessonIDs)
	if err != nil {
		return nil, err
	}

	completion.PublishedLessons = len(lessons)
	completion.CompletedLessons = int(completed)
	completion.Percentage = util.Round2(float64(completed) / float64(len(lessons)) * 100)
	completion.IsCompleted = completed == int64(len(lessons))
	return completion, nil
}

// IsCourseCompletedBy 课程是否被该学生完成；没有已发布课时的课程永远不算完成
func (s *ProgressService) IsCourseCompletedBy(studentID, courseID uint) (bool, error) {
	completion, err := s.GetCourseCompletion(studentID, courseID)
	if err != nil {
		return false, err
	}
	return completion.PublishedLessons > 0 && completion.IsCompleted, nil
}

// GetCourseProgress 返回学生在课程内每个已发布课时的进度明细
func (s *ProgressService) GetCourseProgress(studentID, courseID uint) ([]LessonProgressItem, error) {
	lessons, err := s.LessonRepo.ListPublishedByCourse(courseID)
	if err != nil {
		return nil, err
	}

	lessonIDs := make([]uint, len(lessons))
	for i, lesson := range lessons {
		lessonIDs[i] = lesson.ID
	}

	records, err := s.ProgressRepo.ListByStudent(studentID, lessonIDs)
	if err != nil {
		return nil, err
	}

	recordMap := make(map[uint]*model.LessonProgress, len(records))
	for i := range records {
		recordMap[records[i].LessonID] = &records[i]
	}

	items := make([]LessonProgressItem, 0, len(lessons))
	for _, lesson := range lessons {
		item := LessonProgressItem{
			LessonID: lesson.ID,
			Title:    lesson.Title,
			Order:    lesson.Order,
			Status:   model.ProgressNotStarted,
		}
		if record, ok := recordMap[lesson.ID]; ok {
			item.Status = record.Status
			item.StartedAt = record.StartedAt
			item.CompletedAt = record.CompletedAt
			item.TimeSpent = record.TimeSpent
		}
		items = append(items, item)
	}
	return items, nil
}
