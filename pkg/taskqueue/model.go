package taskqueue

import (
	"encoding/json"
	"time"
)

// TaskType 任务类型
type TaskType string

const (
	// TaskDocumentImport 文档导入任务，解析上传的源文件并生成HTML内容
	TaskDocumentImport TaskType = "document_import"
	// TaskDocumentExport 文档导出任务，将文档内容转换为指定格式的文件
	TaskDocumentExport TaskType = "document_export"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	// StatusPending 等待处理
	StatusPending TaskStatus = "pending"
	// StatusProcessing 处理中
	StatusProcessing TaskStatus = "processing"
	// StatusCompleted 已完成
	StatusCompleted TaskStatus = "completed"
	// StatusFailed 处理失败
	StatusFailed TaskStatus = "failed"
)

// Task 任务基础结构
type Task struct {
	ID          string          `json:"id"`           // 任务唯一标识符
	Type        TaskType        `json:"type"`         // 任务类型
	DocumentID  string          `json:"document_id"`  // 关联的文档ID
	Status      TaskStatus      `json:"status"`       // 任务状态
	Payload     json.RawMessage `json:"payload"`      // 任务载荷数据，不同任务类型对应不同结构
	Result      json.RawMessage `json:"result"`       // 任务结果数据
	Error       string          `json:"error"`        // 错误信息（如果处理失败）
	CreatedAt   time.Time       `json:"created_at"`   // 创建时间
	UpdatedAt   time.Time       `json:"updated_at"`   // 更新时间
	StartedAt   *time.Time      `json:"started_at"`   // 开始处理时间
	CompletedAt *time.Time      `json:"completed_at"` // 完成时间
	Attempts    int             `json:"attempts"`     // 尝试次数
	MaxRetries  int             `json:"max_retries"`  // 最大重试次数
}

// DocumentImportPayload 文档导入任务载荷
type DocumentImportPayload struct {
	FileID   string `json:"file_id"`   // 源文件在存储中的ID
	FileName string `json:"file_name"` // 源文件名
	MimeType string `json:"mime_type"` // 源文件MIME类型
	Title    string `json:"title"`     // 文档标题（为空时使用文件名）
}

// DocumentImportResult 文档导入任务结果
type DocumentImportResult struct {
	DocumentID string `json:"document_id"` // 生成的文档ID
	SourceType string `json:"source_type"` // 识别出的来源类型
	PageCount  int    `json:"page_count"`  // 页数（PDF来源时有效）
	CharCount  int    `json:"char_count"`  // 字符数
	Error      string `json:"error"`       // 错误信息（如果有）
}

// DocumentExportPayload 文档导出任务载荷
type DocumentExportPayload struct {
	DocumentID string `json:"document_id"` // 文档ID
	Format     string `json:"format"`      // 导出格式: txt, markdown, pdf
	FileName   string `json:"file_name"`   // 导出文件名（为空时按标题生成）
}

// DocumentExportResult 文档导出任务结果
type DocumentExportResult struct {
	DocumentID string `json:"document_id"` // 文档ID
	ExportID   string `json:"export_id"`   // 导出记录ID
	StorageID  string `json:"storage_id"`  // 导出产物在存储中的ID
	FileName   string `json:"file_name"`   // 导出文件名
	Format     string `json:"format"`      // 导出格式
	Size       int64  `json:"size"`        // 产物大小（字节）
	Error      string `json:"error"`       // 错误信息（如果有）
}
