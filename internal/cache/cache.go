package cache

import (
	"time"
)

// Cache 键值缓存接口
// 编辑器用它保存自动保存的草稿等带TTL的瞬态数据
type Cache interface {
	Get(key string) (value string, found bool, err error)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Factory 缓存工厂函数类型
type Factory func(config Config) (Cache, error)

// 注册的缓存实现
var registry = make(map[string]Factory)

// RegisterCache 注册缓存实现
func RegisterCache(name string, factory Factory) {
	registry[name] = factory
}

// NewCache 根据配置创建缓存实例
// 未知类型时回退到内存缓存
func NewCache(config Config) (Cache, error) {
	if factory, ok := registry[config.Type]; ok {
		return factory(config)
	}
	return NewMemoryCache(config)
}

// Config 缓存配置
type Config struct {
	// 缓存类型: "memory" 或 "redis"
	Type string
	// Redis连接地址（仅Redis缓存使用）
	RedisAddr string
	// Redis密码（仅Redis缓存使用）
	RedisPassword string
	// Redis数据库编号（仅Redis缓存使用）
	RedisDB int
	// 默认过期时间
	DefaultTTL time.Duration
	// 自动清理间隔（仅内存缓存使用）
	CleanupInterval time.Duration
}

// DefaultConfig 返回默认缓存配置
func DefaultConfig() Config {
	return Config{
		Type:            "memory",
		DefaultTTL:      time.Hour * 24,
		CleanupInterval: time.Minute * 10,
	}
}

// Key 生成标准化的缓存键
func Key(prefix string, parts ...string) string {
	key := prefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
