package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentStatus 文档状态类型
type DocumentStatus string

const (
	// DocStatusDraft 新建文档，尚无正式内容
	DocStatusDraft DocumentStatus = "draft"
	// DocStatusImporting 导入处理中
	DocStatusImporting DocumentStatus = "importing"
	// DocStatusReady 内容就绪，可编辑
	DocStatusReady DocumentStatus = "ready"
	// DocStatusFailed 导入失败
	DocStatusFailed DocumentStatus = "failed"
)

// RevisionOrigin 版本记录的产生方式
type RevisionOrigin string

const (
	// OriginManual 用户显式保存
	OriginManual RevisionOrigin = "manual"
	// OriginAutosave 自动保存草稿落盘
	OriginAutosave RevisionOrigin = "autosave"
	// OriginImport 导入产生的初始内容
	OriginImport RevisionOrigin = "import"
)

// Document 编辑器文档数据模型
// ContentHTML是编辑器的权威内容，导入/编辑/草稿落盘都写入这里
type Document struct {
	ID          string         `gorm:"primaryKey"`         // 文档ID，主键
	Title       string         `gorm:"not null"`           // 文档标题
	ContentHTML string         `gorm:"type:text"`          // 编辑器HTML内容
	Status      DocumentStatus `gorm:"not null;index"`     // 文档状态
	SourceType  string         `gorm:"size:20"`            // 导入来源类型（pdf/markdown/plaintext）
	SourceName  string         `gorm:"size:255"`           // 导入来源名称
	PageCount   int            `gorm:"not null;default:0"` // 导入源的页数
	CharCount   int            `gorm:"not null;default:0"` // 内容字符数
	Tags        string         `gorm:"type:varchar(255)"`  // 标签，逗号分隔
	Metadata    datatypes.JSON `gorm:"type:json"`          // 元数据，JSON格式
	Error       string         `gorm:"type:text"`          // 错误信息（导入失败时）
	CreatedAt   time.Time      `gorm:"not null;index"`     // 创建时间
	UpdatedAt   time.Time      `gorm:"not null;index"`     // 更新时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (d *Document) BeforeUpdate(tx *gorm.DB) (err error) {
	d.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (Document) TableName() string {
	return "documents"
}

// Revision 文档版本记录
// 每次内容落盘（手动保存、草稿冲刷、导入）都会追加一条
type Revision struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"` // 主键ID
	DocumentID  string         `gorm:"not null;index"`           // 所属文档ID
	Seq         int            `gorm:"not null"`                 // 文档内递增序号
	ContentHTML string         `gorm:"type:text;not null"`       // 该版本的HTML内容
	Origin      RevisionOrigin `gorm:"not null;size:20"`         // 产生方式
	CreatedAt   time.Time      `gorm:"not null;index"`           // 创建时间
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (r *Revision) BeforeCreate(tx *gorm.DB) (err error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (Revision) TableName() string {
	return "revisions"
}

// ExportRecord 导出产物记录
// 记录一次导出生成的文件及其存储位置
type ExportRecord struct {
	ID         string    `gorm:"primaryKey"`     // 导出记录ID
	DocumentID string    `gorm:"not null;index"` // 所属文档ID
	Format     string    `gorm:"not null;size:10"`
	FileName   string    `gorm:"not null"` // 产物文件名
	StorageID  string    `gorm:"not null"` // 存储层中的文件ID
	Size       int64     `gorm:"not null"` // 产物大小（字节）
	CreatedAt  time.Time `gorm:"not null;index"`
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (e *ExportRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (ExportRecord) TableName() string {
	return "export_records"
}
