package model

// CourseAnalytics 课程维度的统计数据（仅投影，不落库）
type CourseAnalytics struct {
	CourseID          uint    `json:"courseId"`
	EnrollmentCount   int64   `json:"enrollmentCount"`
	LessonCount       int64   `json:"lessonCount"`
	AverageCompletion float64 `json:"averageCompletion"` // 选课学生的平均完成百分比
	AttemptCount      int64   `json:"attemptCount"`
	PassRate          float64 `json:"passRate"`          // 已评分作答中通过的比例
	AveragePercentage float64 `json:"averagePercentage"` // 已评分作答的平均得分率
}

// PlatformOverview 平台总览统计
type PlatformOverview struct {
	StudentCount   int64 `json:"studentCount"`
	CourseCount    int64 `json:"courseCount"`
	PublishedCount int64 `json:"publishedCount"`
	AttemptCount   int64 `json:"attemptCount"`
}
