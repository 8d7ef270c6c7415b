package service

import (
	"errors"
	"strconv"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService 管理测验作答的生命周期并计算成绩。
// 每个学生对同一测验只允许一次作答；评分在提交时发生且只发生一次。
type QuizService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.QuizAttemptRepository

	now func() time.Time
}

func NewQuizService(quizRepo *repository.QuizRepository, attemptRepo *repository.QuizAttemptRepository) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		now:         time.Now,
	}
}

// SubmittedAnswer 学生对单题的作答：客观题提交候选答案 ID，主观题提交原文
type SubmittedAnswer struct {
	AnswerID *uint  `json:"answerId,omitempty"`
	Text     string `json:"text,omitempty"`
}

// QuizSubmission 按题目 ID 组织的整卷作答
type QuizSubmission struct {
	Answers map[uint]SubmittedAnswer `json:"answers" binding:"required"`
}

// AttemptOutcome 已评分作答的只读投影
type AttemptOutcome struct {
	AttemptID   uint                      `json:"attemptId"`
	StudentID   uint                      `json:"studentId"`
	QuizID      uint                      `json:"quizId"`
	StartedAt   time.Time                 `json:"startedAt"`
	CompletedAt *time.Time                `json:"completedAt,omitempty"`
	Score       int                       `json:"score"`
	TotalPoints int                       `json:"totalPoints"`
	Percentage  float64                   `json:"percentage"`
	Passed      bool                      `json:"passed"`
	Answers     []model.QuizAttemptAnswer `json:"answers,omitempty"`
}

// StartAttempt 学生开始作答。未激活的测验拒绝开始；
// 同一 (student, quiz) 已有作答时返回 ErrAttemptAlreadyExists。
func (s *QuizService) StartAttempt(studentID, quizID uint) (*model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizInactive
	}

	if _, err := s.AttemptRepo.FindByStudentAndQuiz(studentID, quizID); err == nil {
		return nil, util.ErrAttemptAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		StudentID: studentID,
		QuizID:    quizID,
		StartedAt: s.now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		// 唯一索引兜底并发的重复开始
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAttemptAlreadyExists
		}
		return nil, err
	}
	return attempt, nil
}

// SubmitAttempt 评分并冻结一次作答。重复提交返回 ErrAttemptAlreadyCompleted，
// 已存储的成绩不会被改写。
func (s *QuizService) SubmitAttempt(studentID, attemptID uint, submission QuizSubmission) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.CompletedAt != nil {
		return nil, util.ErrAttemptAlreadyCompleted
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	score, totalPoints, answers := s.grade(quiz, submission)

	attempt.Score = score
	attempt.TotalPoints = totalPoints
	// 除数是总分而非题数，分值不同的题目按权重计入；零总分直接记 0%
	attempt.Percentage = 0
	if totalPoints > 0 {
		attempt.Percentage = util.Round2(float64(score) / float64(totalPoints) * 100)
	}
	attempt.Passed = attempt.Percentage >= quiz.PassingScore

	completedAt := s.now()
	claimed, err := s.AttemptRepo.Finalize(attempt, answers, completedAt)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// 并发提交输掉了 completed_at IS NULL 的竞争
		return nil, util.ErrAttemptAlreadyCompleted
	}
	attempt.CompletedAt = &completedAt

	monitoring.QuizSubmissions.WithLabelValues(strconv.FormatBool(attempt.Passed)).Inc()
	logger.Log.Info("quiz attempt graded",
		zap.Uint("attemptId", attempt.ID),
		zap.Uint("quizId", quiz.ID),
		zap.Int("score", score),
		zap.Int("totalPoints", totalPoints),
		zap.Float64("percentage", attempt.Percentage),
		zap.Bool("passed", attempt.Passed),
	)
	return attempt, nil
}

// grade 逐题评分。客观题答对得满分；主观题不自动评分，保留原文待人工批改；
// 未作答记 0 分。
func (s *QuizService) grade(quiz *model.Quiz, submission QuizSubmission) (score, totalPoints int, answers []model.QuizAttemptAnswer) {
	answers = make([]model.QuizAttemptAnswer, 0, len(quiz.Questions))

	for _, question := range quiz.Questions {
		totalPoints += question.Points

		record := model.QuizAttemptAnswer{QuestionID: question.ID}
		submitted, answered := submission.Answers[question.ID]

		switch question.Type {
		case model.MultipleChoice, model.TrueFalse:
			if answered && submitted.AnswerID != nil {
				record.AnswerID = submitted.AnswerID
				for _, candidate := range question.Answers {
					if candidate.ID == *submitted.AnswerID {
						record.IsCorrect = candidate.IsCorrect
						break
					}
				}
				if record.IsCorrect {
					record.Score = question.Points
					score += question.Points
				}
			}
		case model.ShortAnswer:
			if answered {
				record.AnswerText = submitted.Text
			}
		}

		answers = append(answers, record)
	}
	return score, totalPoints, answers
}

// GetOutcome 查询作答结果
func (s *QuizService) GetOutcome(attemptID uint) (*AttemptOutcome, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	outcome := &AttemptOutcome{
		AttemptID:   attempt.ID,
		StudentID:   attempt.StudentID,
		QuizID:      attempt.QuizID,
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		Score:       attempt.Score,
		TotalPoints: attempt.TotalPoints,
		Percentage:  attempt.Percentage,
		Passed:      attempt.Passed,
	}

	if attempt.CompletedAt != nil {
		answers, err := s.AttemptRepo.ListAnswers(attempt.ID)
		if err != nil {
			return nil, err
		}
		outcome.Answers = answers
	}
	return outcome, nil
}

// GetAttemptForStudent 学生查询自己对某测验的作答（可能尚未提交）
func (s *QuizService) GetAttemptForStudent(studentID, quizID uint) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByStudentAndQuiz(studentID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}
