package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const analyticsCacheTTL = 60 * time.Second

type AnalyticsService struct {
	AnalyticsRepo  *repository.AnalyticsRepository
	EnrollmentRepo *repository.EnrollmentRepository
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	Redis          *redis.Client
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo:  analyticsRepo,
		EnrollmentRepo: enrollmentRepo,
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		Redis:          rdb,
	}
}

// GetCourseAnalytics 课程统计，60 秒 Redis 缓存
func (s *AnalyticsService) GetCourseAnalytics(ctx context.Context, courseID uint) (*model.CourseAnalytics, error) {
	cacheKey := fmt.Sprintf("analytics:course:%d", courseID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var analytics model.CourseAnalytics
			if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
				return &analytics, nil
			}
		}
	}

	analytics, err := s.computeCourseAnalytics(courseID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(analytics); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, analyticsCacheTTL).Err(); err != nil {
				logger.Log.Warn("analytics cache write failed", zap.Error(err))
			}
		}
	}
	return analytics, nil
}

func (s *AnalyticsService) computeCourseAnalytics(courseID uint) (*model.CourseAnalytics, error) {
	analytics := &model.CourseAnalytics{CourseID: courseID}

	enrollCount, err := s.EnrollmentRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	analytics.EnrollmentCount = enrollCount

	lessonCount, err := s.LessonRepo.CountPublishedByCourse(courseID)
	if err != nil {
		return nil, err
	}
	analytics.LessonCount = lessonCount

	if enrollCount > 0 && lessonCount > 0 {
		completedRows, err := s.AnalyticsRepo.CourseCompletionStats(courseID)
		if err != nil {
			return nil, err
		}
		analytics.AverageCompletion = util.Round2(float64(completedRows) / float64(enrollCount*lessonCount) * 100)
	}

	graded, passed, avgPercentage, err := s.AnalyticsRepo.QuizAttemptStats(courseID)
	if err != nil {
		return nil, err
	}
	analytics.AttemptCount = graded
	if graded > 0 {
		analytics.PassRate = util.Round2(float64(passed) / float64(graded) * 100)
		analytics.AveragePercentage = util.Round2(avgPercentage)
	}

	return analytics, nil
}

// GetPlatformOverview 平台总览统计
func (s *AnalyticsService) GetPlatformOverview(ctx context.Context) (*model.PlatformOverview, error) {
	cacheKey := "analytics:platform:overview"

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var overview model.PlatformOverview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				return &overview, nil
			}
		}
	}

	overview := &model.PlatformOverview{}

	students, err := s.UserRepo.CountByRole(model.Student)
	if err != nil {
		return nil, err
	}
	overview.StudentCount = students

	courses, err := s.CourseRepo.Count(false)
	if err != nil {
		return nil, err
	}
	overview.CourseCount = courses

	published, err := s.CourseRepo.Count(true)
	if err != nil {
		return nil, err
	}
	overview.PublishedCount = published

	attempts, err := s.AnalyticsRepo.CountAttempts()
	if err != nil {
		return nil, err
	}
	overview.AttemptCount = attempts

	if s.Redis != nil {
		if payload, err := json.Marshal(overview); err == nil {
			s.Redis.Set(ctx, cacheKey, payload, analyticsCacheTTL)
		}
	}
	return overview, nil
}
