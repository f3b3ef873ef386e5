package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// 事件主题
const (
	// TopicDocumentImported 文档导入完成
	TopicDocumentImported = "document.imported"
	// TopicDraftSaved 草稿已自动保存
	TopicDraftSaved = "draft.saved"
	// TopicDocumentExported 文档导出完成
	TopicDocumentExported = "document.exported"
)

// Event 总线事件
// 两个互不共享状态的界面（编辑器视图与预览/管理视图）通过它交接数据
type Event struct {
	Topic      string          `json:"topic"`       // 事件主题
	DocumentID string          `json:"document_id"` // 关联的文档ID
	Payload    json.RawMessage `json:"payload"`     // 事件负载，各主题自定义结构
	Timestamp  time.Time       `json:"timestamp"`   // 事件产生时间
}

// NewEvent 创建一个事件，负载序列化为JSON
func NewEvent(topic, documentID string, payload interface{}) (Event, error) {
	var raw json.RawMessage = []byte("{}")
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal event payload: %v", err)
		}
		raw = data
	}

	return Event{
		Topic:      topic,
		DocumentID: documentID,
		Payload:    raw,
		Timestamp:  time.Now(),
	}, nil
}

// HandlerFunc 事件处理函数
type HandlerFunc func(evt Event)

// Bus 发布/订阅总线接口
type Bus interface {
	// Publish 发布一个事件
	Publish(ctx context.Context, evt Event) error

	// Subscribe 订阅某个主题，返回取消订阅函数
	Subscribe(topic string, handler HandlerFunc) (func(), error)

	// Close 关闭总线，释放资源
	Close() error
}

// Factory 总线工厂函数类型
type Factory func(config Config) (Bus, error)

// 注册的总线实现
var registry = make(map[string]Factory)

// RegisterBus 注册总线实现
func RegisterBus(name string, factory Factory) {
	registry[name] = factory
}

// NewBus 根据配置创建总线实例
// 未知类型时回退到进程内实现
func NewBus(config Config) (Bus, error) {
	if factory, ok := registry[config.Type]; ok {
		return factory(config)
	}
	return NewMemoryBus(config)
}

// Config 总线配置
type Config struct {
	// 总线类型: "memory" 或 "redis"
	Type string
	// Redis连接地址（仅Redis总线使用）
	RedisAddr string
	// Redis密码（仅Redis总线使用）
	RedisPassword string
	// Redis数据库编号（仅Redis总线使用）
	RedisDB int
	// Redis频道前缀（仅Redis总线使用）
	ChannelPrefix string
}

// DefaultConfig 返回默认总线配置
func DefaultConfig() Config {
	return Config{
		Type:          "memory",
		ChannelPrefix: "editor:events:",
	}
}
