package model

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// Quiz 测验定义，PassingScore 为通过所需的百分比（0-100）
// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID     uint           `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	PassingScore float64        `json:"passingScore"`
	TimeLimit    int            `gorm:"default:0" json:"timeLimit"` // 分钟，0 表示不限时
	IsActive     bool           `gorm:"default:false" json:"isActive"`
	Questions    []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验题目；short_answer 题型无备选答案，需人工批改
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID  uint         `gorm:"index;type:bigint unsigned" json:"quizId"`
	Type    QuestionType `gorm:"size:20;not null" json:"type"`
	Content string       `gorm:"type:text;not null" json:"content"`
	Points  int          `gorm:"default:1" json:"points"`
	Order   int          `gorm:"default:0" json:"order"`
	Answers []QuizAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizAnswer 客观题的候选答案
// swagger:model QuizAnswer
type QuizAnswer struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
