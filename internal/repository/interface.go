package repository

import "github.com/fyerfyer/doc-editor-system/internal/models"

// DocumentRepository 文档仓储接口
// 负责文档、版本记录和导出记录的存储与检索
type DocumentRepository interface {
	// Create 创建文档记录
	Create(doc *models.Document) error

	// Update 更新文档记录
	Update(doc *models.Document) error

	// UpdateContent 更新文档内容并刷新字符数
	UpdateContent(id string, contentHTML string) error

	// UpdateStatus 更新文档状态
	UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error

	// GetByID 根据ID获取文档
	GetByID(id string) (*models.Document, error)

	// List 列出文档列表，支持分页和筛选
	List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error)

	// Delete 删除文档及其版本和导出记录
	Delete(id string) error

	// SaveRevision 追加一条版本记录，序号自动递增
	SaveRevision(rev *models.Revision) error

	// ListRevisions 获取文档的版本记录，按序号降序
	ListRevisions(docID string, limit int) ([]*models.Revision, error)

	// CountRevisions 统计文档的版本数量
	CountRevisions(docID string) (int, error)

	// SaveExport 保存导出记录
	SaveExport(rec *models.ExportRecord) error

	// GetExport 根据ID获取导出记录
	GetExport(id string) (*models.ExportRecord, error)

	// ListExports 获取文档的导出记录
	ListExports(docID string) ([]*models.ExportRecord, error)
}
