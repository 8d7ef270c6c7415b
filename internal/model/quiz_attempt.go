package model

import "time"

// QuizAttempt 学生的一次测验作答，(student, quiz) 唯一
// CompletedAt 为空表示进行中；评分只发生一次，完成后结果冻结
type QuizAttempt struct {
	BaseModel
	StudentID   uint       `gorm:"index:idx_student_quiz,unique;type:bigint unsigned" json:"studentId"`
	QuizID      uint       `gorm:"index:idx_student_quiz,unique;type:bigint unsigned" json:"quizId"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Score       int        `gorm:"default:0" json:"score"`
	TotalPoints int        `gorm:"default:0" json:"totalPoints"`
	Percentage  float64    `gorm:"default:0" json:"percentage"`
	Passed      bool       `gorm:"default:false" json:"passed"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizAttemptAnswer 单题作答记录；short_answer 保留原文待人工批改
type QuizAttemptAnswer struct {
	BaseModel
	AttemptID  uint   `gorm:"index;type:bigint unsigned" json:"attemptId"`
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	AnswerID   *uint  `gorm:"type:bigint unsigned" json:"answerId,omitempty"`
	AnswerText string `gorm:"type:text" json:"answerText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Score      int    `gorm:"default:0" json:"score"`
}

func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}
