package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus 基于Redis发布/订阅的总线
// 多实例部署时事件需要跨进程送达
type RedisBus struct {
	client *redis.Client
	prefix string

	mu      sync.Mutex
	pubsubs []*redis.PubSub
}

// NewRedisBus 创建Redis总线
func NewRedisBus(config Config) (Bus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	prefix := config.ChannelPrefix
	if prefix == "" {
		prefix = DefaultConfig().ChannelPrefix
	}

	return &RedisBus{
		client: client,
		prefix: prefix,
	}, nil
}

// Publish 发布一个事件到对应的Redis频道
func (b *RedisBus) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %v", err)
	}
	return b.client.Publish(ctx, b.prefix+evt.Topic, data).Err()
}

// Subscribe 订阅某个主题的Redis频道
// 每个订阅持有一条独立的pubsub连接，后台goroutine分发消息
func (b *RedisBus) Subscribe(topic string, handler HandlerFunc) (func(), error) {
	pubsub := b.client.Subscribe(context.Background(), b.prefix+topic)

	// 等待订阅确认，避免错过紧随其后的发布
	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe topic %s: %v", topic, err)
	}

	b.mu.Lock()
	b.pubsubs = append(b.pubsubs, pubsub)
	b.mu.Unlock()

	go func() {
		for msg := range pubsub.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue
			}
			handler(evt)
		}
	}()

	unsubscribe := func() {
		pubsub.Close()
	}
	return unsubscribe, nil
}

// Close 关闭总线和全部订阅连接
func (b *RedisBus) Close() error {
	b.mu.Lock()
	for _, ps := range b.pubsubs {
		ps.Close()
	}
	b.pubsubs = nil
	b.mu.Unlock()

	return b.client.Close()
}

// 在包初始化时注册Redis总线
func init() {
	RegisterBus("redis", NewRedisBus)
}
