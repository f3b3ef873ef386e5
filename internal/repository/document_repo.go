package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fyerfyer/doc-editor-system/internal/database"
	"github.com/fyerfyer/doc-editor-system/internal/models"
)

// docRepository 文档仓储的gorm实现
type docRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建文档仓储实例，使用全局数据库连接
func NewDocumentRepository() DocumentRepository {
	return &docRepository{db: database.MustDB()}
}

// NewDocumentRepositoryWithDB 使用指定的数据库连接创建文档仓储实例
func NewDocumentRepositoryWithDB(db *gorm.DB) DocumentRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &docRepository{db: db}
}

// Create 创建文档记录
func (r *docRepository) Create(doc *models.Document) error {
	if doc.ID == "" {
		return errors.New("document ID cannot be empty")
	}
	return r.db.Create(doc).Error
}

// Update 更新文档记录
func (r *docRepository) Update(doc *models.Document) error {
	if doc.ID == "" {
		return errors.New("document ID cannot be empty")
	}
	return r.db.Save(doc).Error
}

// UpdateContent 更新文档内容并刷新字符数
func (r *docRepository) UpdateContent(id string, contentHTML string) error {
	result := r.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content_html": contentHTML,
			"char_count":   len([]rune(contentHTML)),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrDocumentNotFound
	}
	return nil
}

// UpdateStatus 更新文档状态
func (r *docRepository) UpdateStatus(id string, status models.DocumentStatus, errorMsg string) error {
	result := r.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": status,
			"error":  errorMsg,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrDocumentNotFound
	}
	return nil
}

// GetByID 根据ID获取文档
func (r *docRepository) GetByID(id string) (*models.Document, error) {
	var doc models.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// List 列出文档列表，支持分页和筛选
func (r *docRepository) List(offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	var docs []*models.Document
	var total int64

	query := r.db.Model(&models.Document{})

	if filters != nil {
		if status, ok := filters["status"]; ok {
			if statusStr := fmt.Sprintf("%v", status); statusStr != "" {
				query = query.Where("status = ?", statusStr)
			}
		}

		if tags, ok := filters["tags"].(string); ok && tags != "" {
			query = query.Where("tags LIKE ?", "%"+tags+"%")
		}

		if title, ok := filters["title"].(string); ok && title != "" {
			query = query.Where("title LIKE ?", "%"+title+"%")
		}

		if source, ok := filters["source_type"].(string); ok && source != "" {
			query = query.Where("source_type = ?", source)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// Delete 删除文档及其版本和导出记录
func (r *docRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.Revision{}).Error; err != nil {
			return fmt.Errorf("failed to delete revisions: %v", err)
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.ExportRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete export records: %v", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Document{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrDocumentNotFound
		}
		return nil
	})
}

// SaveRevision 追加一条版本记录，序号自动递增
func (r *docRepository) SaveRevision(rev *models.Revision) error {
	if rev.DocumentID == "" {
		return errors.New("revision document ID cannot be empty")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxSeq int
		err := tx.Model(&models.Revision{}).
			Where("document_id = ?", rev.DocumentID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}

		rev.Seq = maxSeq + 1
		return tx.Create(rev).Error
	})
}

// ListRevisions 获取文档的版本记录，按序号降序
// limit为0时返回全部
func (r *docRepository) ListRevisions(docID string, limit int) ([]*models.Revision, error) {
	var revs []*models.Revision

	query := r.db.Where("document_id = ?", docID).Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

// CountRevisions 统计文档的版本数量
func (r *docRepository) CountRevisions(docID string) (int, error) {
	var count int64
	err := r.db.Model(&models.Revision{}).
		Where("document_id = ?", docID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// SaveExport 保存导出记录
func (r *docRepository) SaveExport(rec *models.ExportRecord) error {
	if rec.ID == "" {
		return errors.New("export record ID cannot be empty")
	}
	return r.db.Create(rec).Error
}

// GetExport 根据ID获取导出记录
func (r *docRepository) GetExport(id string) (*models.ExportRecord, error) {
	var rec models.ExportRecord
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrExportNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListExports 获取文档的导出记录
func (r *docRepository) ListExports(docID string) ([]*models.ExportRecord, error) {
	var recs []*models.ExportRecord
	err := r.db.Where("document_id = ?", docID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
