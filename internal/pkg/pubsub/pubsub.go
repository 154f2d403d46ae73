package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

const userChannelPrefix = "notify:user:"

// 事件类型常量
const (
	EventTaskNotification = "task_notification"
	EventTaskResult       = "result"
	EventSubscription     = "subscription_updated"
)

// Event 发给用户通道的事件。通知类带 message，结果类带 data。
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// UserChannel 用户专属通道名
func UserChannel(userID int64) string {
	return fmt.Sprintf("%s%d", userChannelPrefix, userID)
}

// Publisher Redis 发布者。投递是尽力而为：用户不在线消息直接丢弃，
// 不做持久化和重放。
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 向指定用户通道发布事件
func (p *Publisher) Publish(ctx context.Context, userID int64, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, UserChannel(userID), data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅所有用户通道，handler 按用户 ID 分发
func (s *Subscriber) Subscribe(ctx context.Context, handler func(userID int64, event *Event)) error {
	pubsub := s.client.PSubscribe(ctx, userChannelPrefix+"*")
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

			userID, err := parseUserChannel(msg.Channel)
			if err != nil {
				continue
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(userID, &event)
		}
	}
}

func parseUserChannel(channel string) (int64, error) {
	idStr := strings.TrimPrefix(channel, userChannelPrefix)
	return strconv.ParseInt(idStr, 10, 64)
}
