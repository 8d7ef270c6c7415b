package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Progress       *ProgressService
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository, progress *ProgressService) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Progress:       progress,
	}
}

// EnrolledCourse 选课记录及完成度
type EnrolledCourse struct {
	Course     model.Course `json:"course"`
	EnrolledAt time.Time    `json:"enrolledAt"`
	Completion float64      `json:"completion"`
	Completed  bool         `json:"completed"`
}

func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotPublished
	}

	if _, err := s.EnrollmentRepo.Find(studentID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// ListForStudent 学生的选课列表，附带课程完成度
func (s *EnrollmentService) ListForStudent(studentID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(studentID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrolledCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		course, err := s.CourseRepo.FindByID(enrollment.CourseID)
		if err != nil {
			continue
		}

		completion, err := s.Progress.GetCourseCompletion(studentID, enrollment.CourseID)
		if err != nil {
			return nil, err
		}

		result = append(result, EnrolledCourse{
			Course:     *course,
			EnrolledAt: enrollment.EnrolledAt,
			Completion: completion.Percentage,
			Completed:  completion.PublishedLessons > 0 && completion.IsCompleted,
		})
	}
	return result, nil
}

func (s *EnrollmentService) IsEnrolled(studentID, courseID uint) (bool, error) {
	_, err := s.EnrollmentRepo.Find(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
