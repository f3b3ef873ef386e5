package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-editor-system/internal/cache"
	"github.com/fyerfyer/doc-editor-system/internal/eventbus"
)

// 草稿缓存键前缀
const draftKeyPrefix = "draft"

// Draft 自动保存的草稿
// 只存在于缓存中，落盘（flush）后转为文档内容和版本记录
type Draft struct {
	DocumentID  string    `json:"document_id"`  // 所属文档ID
	ContentHTML string    `json:"content_html"` // 草稿HTML内容
	SavedAt     time.Time `json:"saved_at"`     // 保存时间
}

// Store 草稿存储
// 写入缓存并在总线上广播draft.saved事件，供其他视图同步
type Store struct {
	cache  cache.Cache
	bus    eventbus.Bus
	ttl    time.Duration
	logger *logrus.Logger
}

// Option 草稿存储配置选项
type Option func(*Store)

// WithTTL 设置草稿过期时间
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore 创建草稿存储
func NewStore(c cache.Cache, bus eventbus.Bus, opts ...Option) *Store {
	s := &Store{
		cache:  c,
		bus:    bus,
		ttl:    24 * time.Hour,
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save 保存草稿并广播draft.saved事件
func (s *Store) Save(ctx context.Context, documentID, contentHTML string) (*Draft, error) {
	d := &Draft{
		DocumentID:  documentID,
		ContentHTML: contentHTML,
		SavedAt:     time.Now(),
	}

	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %v", err)
	}

	if err := s.cache.Set(s.key(documentID), string(data), s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store draft: %v", err)
	}

	// 事件送达失败不影响草稿本身的保存
	if s.bus != nil {
		evt, err := eventbus.NewEvent(eventbus.TopicDraftSaved, documentID, d)
		if err == nil {
			if err := s.bus.Publish(ctx, evt); err != nil {
				s.logger.WithError(err).WithField("document_id", documentID).
					Warn("Failed to publish draft.saved event")
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"chars":       len([]rune(contentHTML)),
	}).Debug("Draft saved")

	return d, nil
}

// Load 读取草稿，不存在时第二个返回值为false
func (s *Store) Load(documentID string) (*Draft, bool, error) {
	data, found, err := s.cache.Get(s.key(documentID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load draft: %v", err)
	}
	if !found {
		return nil, false, nil
	}

	var d Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal draft: %v", err)
	}
	return &d, true, nil
}

// Discard 丢弃草稿
func (s *Store) Discard(documentID string) error {
	return s.cache.Delete(s.key(documentID))
}

// key 草稿的缓存键
func (s *Store) key(documentID string) string {
	return cache.Key(draftKeyPrefix, documentID)
}
