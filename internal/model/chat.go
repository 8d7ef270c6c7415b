package model

// ChatMessage 课程聊天消息
type ChatMessage struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned" json:"courseId"`
	SenderID uint   `gorm:"index;type:bigint unsigned" json:"senderId"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
