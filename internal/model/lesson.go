package model

import "time"

type LessonContentType string

const (
	LessonContentVideo LessonContentType = "video"
	LessonContentText  LessonContentType = "text"
	LessonContentFile  LessonContentType = "file"
)

// Lesson 课时，仅发布后的课时计入课程完成度
// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID      uint              `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title         string            `gorm:"size:255;not null" json:"title"`
	Content       string            `gorm:"type:text" json:"content"`
	ContentType   LessonContentType `gorm:"size:20;default:'text'" json:"contentType"`
	VideoURL      string            `gorm:"size:255" json:"videoUrl"`
	VideoDuration float64           `gorm:"default:0" json:"videoDuration"` // 秒
	Order         int               `gorm:"default:0" json:"order"`
	IsPublished   bool              `gorm:"default:false" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// LessonProgress 学生对单个课时的学习进度，(student, lesson) 唯一
// 状态只会向前推进：not_started -> in_progress -> completed
type LessonProgress struct {
	BaseModel
	StudentID   uint           `gorm:"index:idx_student_lesson,unique;type:bigint unsigned" json:"studentId"`
	LessonID    uint           `gorm:"index:idx_student_lesson,unique;type:bigint unsigned" json:"lessonId"`
	Status      ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	TimeSpent   int            `gorm:"default:0" json:"timeSpent"` // 秒，仅作参考
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
