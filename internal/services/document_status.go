package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/internal/repository"
	"github.com/sirupsen/logrus"
)

// DocumentStatusManager 文档状态管理器
// 负责管理文档导入的生命周期状态
type DocumentStatusManager struct {
	repo   repository.DocumentRepository // 文档仓储接口
	logger *logrus.Logger                // 日志记录器
	mu     sync.Mutex                    // 互斥锁，保证状态转换的原子性
}

// NewDocumentStatusManager 创建文档状态管理器
func NewDocumentStatusManager(repo repository.DocumentRepository, logger *logrus.Logger) *DocumentStatusManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	return &DocumentStatusManager{
		repo:   repo,
		logger: logger,
	}
}

// MarkImporting 将文档标记为导入处理中
func (m *DocumentStatusManager) MarkImporting(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := m.ValidateStateTransition(doc.Status, models.DocStatusImporting); err != nil {
		return fmt.Errorf("cannot mark document %s as importing from %s: %w", docID, doc.Status, err)
	}

	m.logger.WithField("doc_id", docID).Info("Marking document as importing")
	return m.repo.UpdateStatus(docID, models.DocStatusImporting, "")
}

// MarkReady 将文档标记为内容就绪
func (m *DocumentStatusManager) MarkReady(ctx context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := m.ValidateStateTransition(doc.Status, models.DocStatusReady); err != nil {
		return fmt.Errorf("cannot mark document %s as ready from %s: %w", docID, doc.Status, err)
	}

	m.logger.WithField("doc_id", docID).Info("Marking document as ready")
	return m.repo.UpdateStatus(docID, models.DocStatusReady, "")
}

// MarkFailed 将文档标记为导入失败
func (m *DocumentStatusManager) MarkFailed(ctx context.Context, docID string, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.repo.GetByID(docID); err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"error":  errorMsg,
	}).Error("Marking document as failed")

	return m.repo.UpdateStatus(docID, models.DocStatusFailed, errorMsg)
}

// GetStatus 获取文档当前状态
func (m *DocumentStatusManager) GetStatus(ctx context.Context, docID string) (models.DocumentStatus, error) {
	doc, err := m.repo.GetByID(docID)
	if err != nil {
		return "", fmt.Errorf("failed to get document status: %w", err)
	}
	return doc.Status, nil
}

// ValidateStateTransition 验证状态转换的有效性
func (m *DocumentStatusManager) ValidateStateTransition(from, to models.DocumentStatus) error {
	// 定义有效的状态转换
	validTransitions := map[models.DocumentStatus][]models.DocumentStatus{
		models.DocStatusDraft: {
			models.DocStatusImporting,
			models.DocStatusReady, // 直接写入内容时无需经过导入
			models.DocStatusFailed,
		},
		models.DocStatusImporting: {
			models.DocStatusReady,
			models.DocStatusFailed,
		},
		models.DocStatusReady: {
			models.DocStatusImporting, // 允许重新导入覆盖内容
			models.DocStatusReady,     // 内容更新不改变状态
		},
		models.DocStatusFailed: {
			models.DocStatusImporting, // 允许重试
		},
	}

	for _, validTo := range validTransitions[from] {
		if validTo == to {
			return nil
		}
	}
	return errors.New("invalid state transition")
}
