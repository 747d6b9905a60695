package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelNotificationEvents = "notification_events"
)

// NotificationEvent 新通知事件。ID 是客户端去重键：
// 投递语义为至少一次，重复或乱序到达由客户端按 ID 丢弃。
type NotificationEvent struct {
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	RecipientID int64  `json:"recipient_id"`
	ActorName   string `json:"actor_name"`
	Kind        string `json:"kind"` // 通知类型（vote / comment / reply / new_chapter ...）
	BookID      *int64 `json:"book_id,omitempty"`
	ChapterID   *int64 `json:"chapter_id,omitempty"`
	Paragraph   *int   `json:"paragraph,omitempty"`
	CommentID   *int64 `json:"comment_id,omitempty"`
	BoardID     *int64 `json:"board_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishNotification 发布新通知事件
func (p *Publisher) PublishNotification(ctx context.Context, event *NotificationEvent) error {
	event.Type = "notification"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	return p.client.Publish(ctx, ChannelNotificationEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅新通知事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*NotificationEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelNotificationEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
