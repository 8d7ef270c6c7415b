package model

import "time"

// Course 课程，由教师/管理员创建
// swagger:model Course
type Course struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CoverImage  string     `gorm:"size:255" json:"coverImage"`
	CreatorID   uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Lessons     []Lesson   `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment 学生选课记录，(student, course) 唯一
type Enrollment struct {
	BaseModel
	StudentID  uint      `gorm:"index:idx_student_course,unique;type:bigint unsigned" json:"studentId"`
	CourseID   uint      `gorm:"index:idx_student_course,unique;type:bigint unsigned" json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
