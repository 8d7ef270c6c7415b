package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuizAnswerRequest struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
	Order     int    `json:"order"`
}

type QuizQuestionRequest struct {
	Type    model.QuestionType  `json:"type" binding:"required"`
	Content string              `json:"content" binding:"required"`
	Points  int                 `json:"points"`
	Order   int                 `json:"order"`
	Answers []QuizAnswerRequest `json:"answers"`
}

type QuizRequest struct {
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	PassingScore *float64               `json:"passingScore"`
	TimeLimit    *int                   `json:"timeLimit"`
	IsActive     *bool                  `json:"isActive"`
	Questions    *[]QuizQuestionRequest `json:"questions"`
}

func buildQuestions(reqs []QuizQuestionRequest) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, 0, len(reqs))
	for _, qReq := range reqs {
		switch qReq.Type {
		case model.MultipleChoice, model.TrueFalse:
			if len(qReq.Answers) == 0 {
				return nil, errors.New("objective question requires candidate answers")
			}
		case model.ShortAnswer:
			// 主观题无候选答案
		default:
			return nil, errors.New("unknown question type: " + string(qReq.Type))
		}

		points := qReq.Points
		if points <= 0 {
			points = 1
		}

		question := model.QuizQuestion{
			Type:    qReq.Type,
			Content: qReq.Content,
			Points:  points,
			Order:   qReq.Order,
		}
		for _, aReq := range qReq.Answers {
			question.Answers = append(question.Answers, model.QuizAnswer{
				Content:   aReq.Content,
				IsCorrect: aReq.IsCorrect,
				Order:     aReq.Order,
			})
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (s *QuizService) CreateQuiz(courseID uint, req QuizRequest) (*model.Quiz, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	quiz := &model.Quiz{
		CourseID: courseID,
		Title:    *req.Title,
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, errors.New("passing score must be between 0 and 100")
		}
		quiz.PassingScore = *req.PassingScore
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}
	if req.Questions != nil {
		questions, err := buildQuestions(*req.Questions)
		if err != nil {
			return nil, err
		}
		quiz.Questions = questions
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, errors.New("passing score must be between 0 and 100")
		}
		quiz.PassingScore = *req.PassingScore
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		questions, err := buildQuestions(*req.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.QuizRepo.ReplaceQuestions(quizID, questions); err != nil {
			return nil, err
		}
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID uint) error {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) GetQuizWithQuestions(quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(courseID uint, activeOnly bool) ([]model.Quiz, error) {
	return s.QuizRepo.ListByCourse(courseID, activeOnly)
}
