package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

type ChatService struct {
	ChatRepo   *repository.ChatRepository
	Enrollment *EnrollmentService
}

func NewChatService(chatRepo *repository.ChatRepository, enrollment *EnrollmentService) *ChatService {
	return &ChatService{
		ChatRepo:   chatRepo,
		Enrollment: enrollment,
	}
}

// SendMessage 发送课程消息；仅选课学生和教职人员可发
func (s *ChatService) SendMessage(ctx context.Context, senderID, courseID uint, role model.UserRole, content string) (*model.ChatMessage, error) {
	if content == "" {
		return nil, errors.New("message content is required")
	}

	if role == model.Student {
		enrolled, err := s.Enrollment.IsEnrolled(senderID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, util.ErrNotEnrolled
		}
	}

	msg := &model.ChatMessage{
		CourseID: courseID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.ChatRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *ChatService) RecentMessages(ctx context.Context, courseID uint, limit int) ([]model.ChatMessage, error) {
	return s.ChatRepo.RecentMessages(ctx, courseID, limit)
}

func (s *ChatService) History(courseID uint, page, limit int) ([]model.ChatMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ChatRepo.HistoryByCourse(courseID, page, limit)
}
