package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	chatRecentSize = 50
	chatCacheTTL   = 24 * time.Hour
)

type ChatRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{DB: db, Redis: rdb}
}

func chatRecentKey(courseID uint) string {
	return fmt.Sprintf("chat:course:%d:recent", courseID)
}

func chatChannel(courseID uint) string {
	return fmt.Sprintf("chat:course:%d", courseID)
}

// SaveMessage 落库后写入 Redis 最近消息列表并发布到课程频道
func (r *ChatRepository) SaveMessage(ctx context.Context, msg *model.ChatMessage) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := chatRecentKey(msg.CourseID)
	pipe := r.Redis.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, chatRecentSize-1)
	pipe.Expire(ctx, key, chatCacheTTL)
	pipe.Publish(ctx, chatChannel(msg.CourseID), payload)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentMessages 优先读 Redis 缓存，未命中回源数据库
func (r *ChatRepository) RecentMessages(ctx context.Context, courseID uint, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > chatRecentSize {
		limit = chatRecentSize
	}

	raw, err := r.Redis.LRange(ctx, chatRecentKey(courseID), 0, int64(limit-1)).Result()
	if err == nil && len(raw) > 0 {
		messages := make([]model.ChatMessage, 0, len(raw))
		for _, item := range raw {
			var msg model.ChatMessage
			if err := json.Unmarshal([]byte(item), &msg); err != nil {
				continue
			}
			messages = append(messages, msg)
		}
		return messages, nil
	}

	var messages []model.ChatMessage
	err = r.DB.Where("course_id = ?", courseID).Order("created_at desc").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *ChatRepository) HistoryByCourse(courseID uint, page, limit int) ([]model.ChatMessage, int64, error) {
	query := r.DB.Model(&model.ChatMessage{}).Where("course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []model.ChatMessage
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&messages).Error
	return messages, total, err
}
