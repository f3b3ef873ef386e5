package model

import (
	"time"

	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/pkg/taskqueue"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// DocumentResponse 文档响应
type DocumentResponse struct {
	ID          string    `json:"id"`                // 文档ID
	Title       string    `json:"title"`             // 文档标题
	ContentHTML string    `json:"content_html"`      // 编辑器HTML内容
	Status      string    `json:"status"`            // 文档状态
	SourceType  string    `json:"source_type"`       // 导入来源类型
	SourceName  string    `json:"source_name"`       // 导入来源名称
	PageCount   int       `json:"page_count"`        // 导入源页数
	CharCount   int       `json:"char_count"`        // 内容字符数
	Tags        string    `json:"tags"`              // 标签
	Error       string    `json:"error,omitempty"`   // 错误信息（导入失败时）
	TaskID      string    `json:"task_id,omitempty"` // 关联的异步任务ID
	CreatedAt   time.Time `json:"created_at"`        // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`        // 更新时间
}

// NewDocumentResponse 从文档模型构建响应
func NewDocumentResponse(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		ContentHTML: doc.ContentHTML,
		Status:      string(doc.Status),
		SourceType:  doc.SourceType,
		SourceName:  doc.SourceName,
		PageCount:   doc.PageCount,
		CharCount:   doc.CharCount,
		Tags:        doc.Tags,
		Error:       doc.Error,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// DocumentListResponse 文档列表响应
type DocumentListResponse struct {
	Total     int64              `json:"total"`     // 总数量
	Page      int                `json:"page"`      // 当前页码
	PageSize  int                `json:"page_size"` // 每页大小
	Documents []DocumentResponse `json:"documents"` // 文档列表
}

// DraftResponse 草稿响应
type DraftResponse struct {
	DocumentID  string    `json:"document_id"`  // 文档ID
	ContentHTML string    `json:"content_html"` // 草稿HTML内容
	SavedAt     time.Time `json:"saved_at"`     // 草稿保存时间
	Exists      bool      `json:"exists"`       // 草稿是否存在
}

// RevisionInfo 版本记录信息
type RevisionInfo struct {
	Seq         int       `json:"seq"`          // 文档内递增序号
	ContentHTML string    `json:"content_html"` // 该版本的HTML内容
	Origin      string    `json:"origin"`       // 产生方式
	CreatedAt   time.Time `json:"created_at"`   // 创建时间
}

// RevisionListResponse 版本记录列表响应
type RevisionListResponse struct {
	DocumentID string         `json:"document_id"` // 文档ID
	Revisions  []RevisionInfo `json:"revisions"`   // 版本记录
}

// ExportResponse 导出响应
type ExportResponse struct {
	ExportID   string    `json:"export_id,omitempty"` // 导出记录ID（同步导出时）
	TaskID     string    `json:"task_id,omitempty"`   // 任务ID（异步导出时）
	DocumentID string    `json:"document_id"`         // 文档ID
	Format     string    `json:"format"`              // 导出格式
	FileName   string    `json:"file_name,omitempty"` // 导出文件名
	Size       int64     `json:"size,omitempty"`      // 产物大小
	CreatedAt  time.Time `json:"created_at"`          // 创建时间
}

// ExportListResponse 导出记录列表响应
type ExportListResponse struct {
	DocumentID string           `json:"document_id"` // 文档ID
	Exports    []ExportResponse `json:"exports"`     // 导出记录
}

// TaskResponse 任务响应
type TaskResponse struct {
	*taskqueue.TaskInfo
	Result interface{} `json:"result,omitempty"` // 任务结果
}

// DeleteResponse 删除响应
type DeleteResponse struct {
	Success bool   `json:"success"` // 是否成功
	ID      string `json:"id"`      // 被删除的资源ID
}
