package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
	}
}

type CourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CourseService) CreateCourse(creatorID uint, req CourseRequest) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	course := &model.Course{
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CoverImage != nil {
		course.CoverImage = *req.CoverImage
	}
	if req.IsPublished != nil && *req.IsPublished {
		now := time.Now()
		course.IsPublished = true
		course.PublishedAt = &now
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CoverImage != nil {
		course.CoverImage = *req.CoverImage
	}
	if req.IsPublished != nil && *req.IsPublished != course.IsPublished {
		course.IsPublished = *req.IsPublished
		if course.IsPublished {
			now := time.Now()
			course.PublishedAt = &now
		} else {
			course.PublishedAt = nil
		}
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourseWithLessons(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID uint) error {
	if _, err := s.GetCourse(courseID); err != nil {
		return err
	}
	return s.CourseRepo.Delete(courseID)
}

func (s *CourseService) ListCourses(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.List(page, limit, publishedOnly)
}
