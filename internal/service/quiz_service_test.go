package service

import (
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(db *gorm.DB, now time.Time) *QuizService {
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewQuizAttemptRepository(db),
	)
	svc.now = func() time.Time { return now }
	return svc
}

// seedQuiz 3 道题共 5 分：2 分单选、1 分判断、2 分简答（简答不自动评分）
func seedQuiz(t *testing.T, db *gorm.DB, passingScore float64, active bool) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		CourseID:     1,
		Title:        "quiz",
		PassingScore: passingScore,
		IsActive:     active,
		Questions: []model.QuizQuestion{
			{
				Type:    model.MultipleChoice,
				Content: "q1",
				Points:  2,
				Order:   1,
				Answers: []model.QuizAnswer{
					{Content: "right", IsCorrect: true, Order: 1},
					{Content: "wrong", Order: 2},
				},
			},
			{
				Type:    model.TrueFalse,
				Content: "q2",
				Points:  1,
				Order:   2,
				Answers: []model.QuizAnswer{
					{Content: "true", IsCorrect: true, Order: 1},
					{Content: "false", Order: 2},
				},
			},
			{
				Type:    model.ShortAnswer,
				Content: "q3",
				Points:  2,
				Order:   3,
			},
		},
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func correctAnswerID(t *testing.T, question model.QuizQuestion) *uint {
	t.Helper()
	for i := range question.Answers {
		if question.Answers[i].IsCorrect {
			return &question.Answers[i].ID
		}
	}
	t.Fatal("question has no correct answer")
	return nil
}

func wrongAnswerID(t *testing.T, question model.QuizQuestion) *uint {
	t.Helper()
	for i := range question.Answers {
		if !question.Answers[i].IsCorrect {
			return &question.Answers[i].ID
		}
	}
	t.Fatal("question has no wrong answer")
	return nil
}

func TestStartAttempt(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	svc := newQuizService(db, t1)

	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(42), attempt.StudentID)
	assert.Equal(t, quiz.ID, attempt.QuizID)
	assert.WithinDuration(t, t1, attempt.StartedAt, time.Second)
	assert.Nil(t, attempt.CompletedAt)
}

func TestStartAttempt_QuizNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(db, time.Now())

	_, err := svc.StartAttempt(42, 999)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestStartAttempt_InactiveQuiz(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, false)

	svc := newQuizService(db, time.Now())

	_, err := svc.StartAttempt(42, quiz.ID)
	assert.ErrorIs(t, err, util.ErrQuizInactive)
}

func TestStartAttempt_OnlyOnePerStudent(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())

	_, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	_, err = svc.StartAttempt(42, quiz.ID)
	assert.ErrorIs(t, err, util.ErrAttemptAlreadyExists)

	// 不影响其他学生
	_, err = svc.StartAttempt(43, quiz.ID)
	assert.NoError(t, err)
}

func TestSubmitAttempt_Grading(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Minute)
	svc := newQuizService(db, t1)

	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return t2 }
	graded, err := svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{
			quiz.Questions[0].ID: {AnswerID: correctAnswerID(t, quiz.Questions[0])},
			quiz.Questions[1].ID: {AnswerID: wrongAnswerID(t, quiz.Questions[1])},
			quiz.Questions[2].ID: {Text: "my essay"},
		},
	})
	require.NoError(t, err)

	// 对 2 分、错 1 分、简答 2 分不计 → 2/5 = 40%
	assert.Equal(t, 2, graded.Score)
	assert.Equal(t, 5, graded.TotalPoints)
	assert.Equal(t, 40.0, graded.Percentage)
	assert.False(t, graded.Passed)
	require.NotNil(t, graded.CompletedAt)
	assert.WithinDuration(t, t2, *graded.CompletedAt, time.Second)

	// 简答原文保留待人工批改
	answers, err := repository.NewQuizAttemptRepository(db).ListAnswers(attempt.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	byQuestion := make(map[uint]model.QuizAttemptAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	assert.True(t, byQuestion[quiz.Questions[0].ID].IsCorrect)
	assert.Equal(t, 2, byQuestion[quiz.Questions[0].ID].Score)
	assert.False(t, byQuestion[quiz.Questions[1].ID].IsCorrect)
	assert.Equal(t, "my essay", byQuestion[quiz.Questions[2].ID].AnswerText)
	assert.Equal(t, 0, byQuestion[quiz.Questions[2].ID].Score)
}

func TestSubmitAttempt_PassingScoreIsInclusive(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	// 两道客观题全对：3/5 = 60%，恰好等于及格线也算通过
	graded, err := svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{
			quiz.Questions[0].ID: {AnswerID: correctAnswerID(t, quiz.Questions[0])},
			quiz.Questions[1].ID: {AnswerID: correctAnswerID(t, quiz.Questions[1])},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, graded.Percentage)
	assert.True(t, graded.Passed)
}

func TestSubmitAttempt_UnansweredQuestionsScoreZero(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	graded, err := svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, graded.Score)
	assert.Equal(t, 5, graded.TotalPoints)
	assert.Equal(t, 0.0, graded.Percentage)
	assert.False(t, graded.Passed)
}

func TestSubmitAttempt_EmptyQuiz(t *testing.T) {
	db := setupTestDB(t)
	quiz := &model.Quiz{CourseID: 1, Title: "empty", PassingScore: 0, IsActive: true}
	require.NoError(t, db.Create(quiz).Error)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	// 零总分记 0%；及格线为 0 时空测验也算通过
	graded, err := svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, graded.TotalPoints)
	assert.Equal(t, 0.0, graded.Percentage)
	assert.True(t, graded.Passed)
}

func TestSubmitAttempt_SecondSubmitRejected(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	first, err := svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{
			quiz.Questions[0].ID: {AnswerID: correctAnswerID(t, quiz.Questions[0])},
		},
	})
	require.NoError(t, err)

	// 第二次提交（哪怕全对）被拒绝，已存成绩不被改写
	_, err = svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{
			quiz.Questions[0].ID: {AnswerID: correctAnswerID(t, quiz.Questions[0])},
			quiz.Questions[1].ID: {AnswerID: correctAnswerID(t, quiz.Questions[1])},
		},
	})
	assert.ErrorIs(t, err, util.ErrAttemptAlreadyCompleted)

	var stored model.QuizAttempt
	require.NoError(t, db.First(&stored, attempt.ID).Error)
	assert.Equal(t, first.Score, stored.Score)
	assert.Equal(t, first.Percentage, stored.Percentage)
	require.NotNil(t, stored.CompletedAt)
	assert.WithinDuration(t, *first.CompletedAt, *stored.CompletedAt, time.Second)
}

func TestSubmitAttempt_OtherStudentsAttemptHidden(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(99, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{},
	})
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestSubmitAttempt_AttemptNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(db, time.Now())

	_, err := svc.SubmitAttempt(42, 999, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{},
	})
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestSubmitAttempt_PercentageRounding(t *testing.T) {
	db := setupTestDB(t)
	quiz := &model.Quiz{
		CourseID:     1,
		Title:        "rounding",
		PassingScore: 60,
		IsActive:     true,
		Questions: []model.QuizQuestion{
			{Type: model.TrueFalse, Content: "q1", Points: 1, Answers: []model.QuizAnswer{{Content: "t", IsCorrect: true}, {Content: "f"}}},
			{Type: model.TrueFalse, Content: "q2", Points: 1, Answers: []model.QuizAnswer{{Content: "t", IsCorrect: true}, {Content: "f"}}},
			{Type: model.TrueFalse, Content: "q3", Points: 1, Answers: []model.QuizAnswer{{Content: "t", IsCorrect: true}, {Content: "f"}}},
		},
	}
	require.NoError(t, db.Create(quiz).Error)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	// 1/3 → 33.333... 保留两位小数
	graded, err := svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{
			quiz.Questions[0].ID: {AnswerID: correctAnswerID(t, quiz.Questions[0])},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 33.33, graded.Percentage)
}

func TestGetOutcome(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())
	attempt, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	// 未提交时只有基本信息，不带逐题作答
	outcome, err := svc.GetOutcome(attempt.ID)
	require.NoError(t, err)
	assert.Nil(t, outcome.CompletedAt)
	assert.Empty(t, outcome.Answers)

	_, err = svc.SubmitAttempt(42, attempt.ID, QuizSubmission{
		Answers: map[uint]SubmittedAnswer{
			quiz.Questions[0].ID: {AnswerID: correctAnswerID(t, quiz.Questions[0])},
		},
	})
	require.NoError(t, err)

	outcome, err = svc.GetOutcome(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(42), outcome.StudentID)
	require.NotNil(t, outcome.CompletedAt)
	assert.Len(t, outcome.Answers, 3)
	assert.Equal(t, 2, outcome.Score)

	_, err = svc.GetOutcome(999)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestGetAttemptForStudent(t *testing.T) {
	db := setupTestDB(t)
	quiz := seedQuiz(t, db, 60, true)

	svc := newQuizService(db, time.Now())

	_, err := svc.GetAttemptForStudent(42, quiz.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	started, err := svc.StartAttempt(42, quiz.ID)
	require.NoError(t, err)

	attempt, err := svc.GetAttemptForStudent(42, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, attempt.ID)
}
