package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, storage *StorageService) *LessonService {
	return &LessonService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		Storage:    storage,
	}
}

type LessonRequest struct {
	Title       *string                  `json:"title"`
	Content     *string                  `json:"content"`
	ContentType *model.LessonContentType `json:"contentType"`
	Order       *int                     `json:"order"`
	IsPublished *bool                    `json:"isPublished"`
}

func (s *LessonService) CreateLesson(courseID uint, req LessonRequest) (*model.Lesson, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    *req.Title,
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.ContentType != nil {
		lesson.ContentType = *req.ContentType
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) UpdateLesson(lessonID uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.ContentType != nil {
		lesson.ContentType = *req.ContentType
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) GetLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(lessonID uint) error {
	if _, err := s.GetLesson(lessonID); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

func (s *LessonService) ListLessons(courseID uint, publishedOnly bool) ([]model.Lesson, error) {
	if publishedOnly {
		return s.LessonRepo.ListPublishedByCourse(courseID)
	}
	return s.LessonRepo.ListByCourse(courseID)
}

// UploadVideo 上传课时视频，探测时长后写回课时记录
func (s *LessonService) UploadVideo(ctx context.Context, lessonID uint, fileHeader *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.New("unsupported video format: " + ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// 先落临时文件，探测时长后再交给存储后端
	tmp, err := os.CreateTemp("", "lesson-video-*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	var duration float64
	// 探测失败不阻塞上传，时长留 0
	if info, err := util.GetVideoInfo(tmpPath); err != nil {
		logger.Log.Warn("video probe failed", zap.Uint("lessonId", lessonID), zap.Error(err))
	} else {
		duration = info.Duration
	}

	filename := "lessons/" + uuid.New().String() + ext
	url, err := s.Storage.UploadFile(ctx, filename, tmpPath, "video/mp4")
	if err != nil {
		return nil, err
	}

	lesson.ContentType = model.LessonContentVideo
	lesson.VideoURL = url
	lesson.VideoDuration = duration

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}
