package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notify:user:123", UserChannel(123))
	assert.Equal(t, "notify:user:1", UserChannel(1))
}

func TestParseUserChannel(t *testing.T) {
	userID, err := parseUserChannel("notify:user:456")
	require.NoError(t, err)
	assert.Equal(t, int64(456), userID)

	_, err = parseUserChannel("notify:user:not-a-number")
	assert.Error(t, err)
}

// 发布到用户通道，订阅端按用户 ID 收到
func TestPublishSubscribe_RoundTrip(t *testing.T) {
	client := setupRedis(t)

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type received struct {
		userID int64
		event  *Event
	}
	ch := make(chan received, 1)

	go func() {
		_ = subscriber.Subscribe(ctx, func(userID int64, event *Event) {
			ch <- received{userID: userID, event: event}
		})
	}()

	// 等订阅建立
	time.Sleep(100 * time.Millisecond)

	err := publisher.Publish(ctx, 42, &Event{
		Type:    EventTaskResult,
		Message: "Analysis completed",
		Data:    map[string]interface{}{"result": "done"},
	})
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, int64(42), got.userID)
		assert.Equal(t, EventTaskResult, got.event.Type)
		assert.Equal(t, "Analysis completed", got.event.Message)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for event")
	}
}

// 投递是尽力而为：没有订阅者时发布也不报错
func TestPublish_NoSubscriber(t *testing.T) {
	client := setupRedis(t)

	publisher := NewPublisher(client)

	err := publisher.Publish(context.Background(), 7, &Event{
		Type:    EventSubscription,
		Message: "Payment successful!",
	})
	assert.NoError(t, err)
}

// 不同用户的事件互不串扰
func TestPublishSubscribe_UserIsolation(t *testing.T) {
	client := setupRedis(t)

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := make(chan int64, 2)
	go func() {
		_ = subscriber.Subscribe(ctx, func(userID int64, event *Event) {
			ch <- userID
		})
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, publisher.Publish(ctx, 1, &Event{Type: EventTaskNotification, Message: "a"}))
	require.NoError(t, publisher.Publish(ctx, 2, &Event{Type: EventTaskNotification, Message: "b"}))

	got := map[int64]bool{}
	for i := 0; i < 2; i++ {
		select {
		case userID := <-ch:
			got[userID] = true
		case <-ctx.Done():
			t.Fatal("Timeout waiting for events")
		}
	}
	assert.True(t, got[1])
	assert.True(t, got[2])
}
