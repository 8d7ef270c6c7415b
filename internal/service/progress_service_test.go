package service

import (
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存库只能存在于单个连接上
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Lesson{},
		&model.LessonProgress{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAnswer{},
		&model.QuizAttempt{},
		&model.QuizAttemptAnswer{},
	))
	return db
}

func newProgressService(db *gorm.DB, now time.Time) *ProgressService {
	svc := NewProgressService(
		repository.NewLessonRepository(db),
		repository.NewLessonProgressRepository(db),
	)
	svc.now = func() time.Time { return now }
	return svc
}

func seedLesson(t *testing.T, db *gorm.DB, courseID uint, published bool) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		CourseID:    courseID,
		Title:       "lesson",
		IsPublished: published,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func TestStartLesson_LessonNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newProgressService(db, time.Now())

	err := svc.StartLesson(1, 999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	err = svc.CompleteLesson(1, 999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestStartThenCompleteLesson(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db, 1, true)

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(30 * time.Minute)

	svc := newProgressService(db, t1)
	require.NoError(t, svc.StartLesson(42, lesson.ID))

	var progress model.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, model.ProgressInProgress, progress.Status)
	require.NotNil(t, progress.StartedAt)
	assert.WithinDuration(t, t1, *progress.StartedAt, time.Second)
	assert.Nil(t, progress.CompletedAt)

	svc.now = func() time.Time { return t2 }
	require.NoError(t, svc.CompleteLesson(42, lesson.ID))

	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	require.NotNil(t, progress.StartedAt)
	require.NotNil(t, progress.CompletedAt)
	assert.WithinDuration(t, t1, *progress.StartedAt, time.Second)
	assert.WithinDuration(t, t2, *progress.CompletedAt, time.Second)
}

func TestStartLesson_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db, 1, true)

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newProgressService(db, t1)
	require.NoError(t, svc.StartLesson(42, lesson.ID))

	// 再次 start 不应改写 started_at
	svc.now = func() time.Time { return t1.Add(time.Hour) }
	require.NoError(t, svc.StartLesson(42, lesson.ID))

	var progress model.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, model.ProgressInProgress, progress.Status)
	assert.WithinDuration(t, t1, *progress.StartedAt, time.Second)
}

func TestCompleteLesson_WithoutStart(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db, 1, true)

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newProgressService(db, t1)
	require.NoError(t, svc.CompleteLesson(42, lesson.ID))

	var progress model.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	require.NotNil(t, progress.StartedAt)
	require.NotNil(t, progress.CompletedAt)
	assert.WithinDuration(t, t1, *progress.StartedAt, time.Second)
	assert.WithinDuration(t, t1, *progress.CompletedAt, time.Second)
}

func TestCompleteLesson_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db, 1, true)

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newProgressService(db, t1)
	require.NoError(t, svc.CompleteLesson(42, lesson.ID))

	// 重复完成保留首次的 completed_at
	svc.now = func() time.Time { return t1.Add(2 * time.Hour) }
	require.NoError(t, svc.CompleteLesson(42, lesson.ID))

	var progress model.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	assert.WithinDuration(t, t1, *progress.CompletedAt, time.Second)
}

func TestStartLesson_AfterCompleteIsNoop(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db, 1, true)

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newProgressService(db, t1)
	require.NoError(t, svc.CompleteLesson(42, lesson.ID))

	// 状态不回退
	svc.now = func() time.Time { return t1.Add(time.Hour) }
	require.NoError(t, svc.StartLesson(42, lesson.ID))

	var progress model.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	assert.WithinDuration(t, t1, *progress.CompletedAt, time.Second)
}

func TestRecordTimeSpent(t *testing.T) {
	db := setupTestDB(t)
	lesson := seedLesson(t, db, 1, true)

	svc := newProgressService(db, time.Now())
	require.NoError(t, svc.StartLesson(42, lesson.ID))

	require.NoError(t, svc.RecordTimeSpent(42, lesson.ID, 120))
	require.NoError(t, svc.RecordTimeSpent(42, lesson.ID, 60))
	require.NoError(t, svc.RecordTimeSpent(42, lesson.ID, -5)) // 忽略非正数

	var progress model.LessonProgress
	require.NoError(t, db.Where("student_id = ? AND lesson_id = ?", 42, lesson.ID).First(&progress).Error)
	assert.Equal(t, 180, progress.TimeSpent)
}

func TestGetCourseCompletion(t *testing.T) {
	db := setupTestDB(t)
	lesson1 := seedLesson(t, db, 7, true)
	lesson2 := seedLesson(t, db, 7, true)
	seedLesson(t, db, 7, false) // 未发布课时不计入

	svc := newProgressService(db, time.Now())

	completion, err := svc.GetCourseCompletion(42, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, completion.PublishedLessons)
	assert.Equal(t, 0, completion.CompletedLessons)
	assert.Equal(t, 0.0, completion.Percentage)
	assert.False(t, completion.IsCompleted)

	require.NoError(t, svc.CompleteLesson(42, lesson1.ID))

	completion, err = svc.GetCourseCompletion(42, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, completion.CompletedLessons)
	assert.Equal(t, 50.0, completion.Percentage)
	assert.False(t, completion.IsCompleted)

	require.NoError(t, svc.CompleteLesson(42, lesson2.ID))

	completion, err = svc.GetCourseCompletion(42, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, completion.CompletedLessons)
	assert.Equal(t, 100.0, completion.Percentage)
	assert.True(t, completion.IsCompleted)

	done, err := svc.IsCourseCompletedBy(42, 7)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestGetCourseCompletion_RoundsToTwoDecimals(t *testing.T) {
	db := setupTestDB(t)
	lessons := []*model.Lesson{
		seedLesson(t, db, 7, true),
		seedLesson(t, db, 7, true),
		seedLesson(t, db, 7, true),
	}

	svc := newProgressService(db, time.Now())
	require.NoError(t, svc.CompleteLesson(42, lessons[0].ID))

	completion, err := svc.GetCourseCompletion(42, 7)
	require.NoError(t, err)
	assert.Equal(t, 33.33, completion.Percentage)
}

func TestGetCourseCompletion_NoPublishedLessons(t *testing.T) {
	db := setupTestDB(t)
	seedLesson(t, db, 7, false)

	svc := newProgressService(db, time.Now())

	completion, err := svc.GetCourseCompletion(42, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, completion.PublishedLessons)
	assert.Equal(t, 0.0, completion.Percentage)
	assert.False(t, completion.IsCompleted)

	// 没有已发布课时的课程永远不算完成
	done, err := svc.IsCourseCompletedBy(42, 7)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestGetCourseProgress(t *testing.T) {
	db := setupTestDB(t)
	lesson1 := seedLesson(t, db, 7, true)
	lesson2 := seedLesson(t, db, 7, true)

	t1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc := newProgressService(db, t1)
	require.NoError(t, svc.StartLesson(42, lesson1.ID))

	items, err := svc.GetCourseProgress(42, 7)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, lesson1.ID, items[0].LessonID)
	assert.Equal(t, model.ProgressInProgress, items[0].Status)
	require.NotNil(t, items[0].StartedAt)

	// 无进度记录的课时回落为 not_started
	assert.Equal(t, lesson2.ID, items[1].LessonID)
	assert.Equal(t, model.ProgressNotStarted, items[1].Status)
	assert.Nil(t, items[1].StartedAt)
}
