package eventbus

import (
	"context"
	"sync"
)

// MemoryBus 进程内发布/订阅总线
// 单实例部署时的默认实现，发布时同步调用各订阅者
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]HandlerFunc // topic -> id -> handler
	closed bool
}

// NewMemoryBus 创建进程内总线
func NewMemoryBus(_ Config) (Bus, error) {
	return &MemoryBus{
		subs: make(map[string]map[int]HandlerFunc),
	}, nil
}

// Publish 发布一个事件，同步通知该主题的所有订阅者
func (b *MemoryBus) Publish(_ context.Context, evt Event) error {
	b.mu.RLock()
	handlers := make([]HandlerFunc, 0, len(b.subs[evt.Topic]))
	for _, h := range b.subs[evt.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	// 在锁外调用，订阅者可以安全地再发布或取消订阅
	for _, h := range handlers {
		h(evt)
	}
	return nil
}

// Subscribe 订阅某个主题
func (b *MemoryBus) Subscribe(topic string, handler HandlerFunc) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]HandlerFunc)
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = handler

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
	return unsubscribe, nil
}

// Close 关闭总线，清空全部订阅
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string]map[int]HandlerFunc)
	b.closed = true
	return nil
}

// 在包初始化时注册进程内总线
func init() {
	RegisterBus("memory", NewMemoryBus)
}
