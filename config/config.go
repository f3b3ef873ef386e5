package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 系统配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Bus      BusConfig      `mapstructure:"bus"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Draft    DraftConfig    `mapstructure:"draft"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"`
	DSN  string `mapstructure:"dsn"`
}

// StorageConfig 文件存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type"`
	Path      string `mapstructure:"path"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Type     string        `mapstructure:"type"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// BusConfig 事件总线配置
type BusConfig struct {
	Type          string `mapstructure:"type"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// QueueConfig 异步任务队列配置
type QueueConfig struct {
	Enable        bool          `mapstructure:"enable"`
	Type          string        `mapstructure:"type"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Concurrency   int           `mapstructure:"concurrency"`
	RetryLimit    int           `mapstructure:"retry_limit"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// DraftConfig 草稿自动保存配置
type DraftConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load 从指定路径加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 设置默认值
	setDefaults(v)

	// 支持环境变量覆盖
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 配置文件不存在时使用默认值
			if configPath != "" {
				if err := writeDefaultConfig(v, configPath); err != nil {
					return nil, fmt.Errorf("failed to write default config: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	// 处理敏感字段的环境变量替换
	processEnvironmentVariables(&config)

	return &config, nil
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 服务配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// 数据库配置
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/editor.db")

	// 存储配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "data/files")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.bucket", "editor-files")
	v.SetDefault("storage.use_ssl", false)

	// 缓存配置
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "30m")

	// 事件总线配置
	v.SetDefault("bus.type", "memory")
	v.SetDefault("bus.redis_addr", "localhost:6379")
	v.SetDefault("bus.redis_db", 0)
	v.SetDefault("bus.channel_prefix", "editor:events:")

	// 任务队列配置
	v.SetDefault("queue.enable", false)
	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.retry_limit", 3)
	v.SetDefault("queue.retry_delay", "5s")

	// 草稿配置
	v.SetDefault("draft.ttl", "24h")

	// 日志配置
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
}

// writeDefaultConfig 将默认配置写入文件
func writeDefaultConfig(v *viper.Viper, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	if err := v.SafeWriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// processEnvironmentVariables 处理配置中的${ENV_VAR}占位符
func processEnvironmentVariables(config *Config) {
	config.Storage.AccessKey = resolveEnvVar(config.Storage.AccessKey)
	config.Storage.SecretKey = resolveEnvVar(config.Storage.SecretKey)
	config.Cache.Password = resolveEnvVar(config.Cache.Password)
	config.Bus.RedisPassword = resolveEnvVar(config.Bus.RedisPassword)
	config.Queue.RedisPassword = resolveEnvVar(config.Queue.RedisPassword)
}

// resolveEnvVar 如果值形如${VAR}则从环境变量读取
func resolveEnvVar(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}
	return value
}
