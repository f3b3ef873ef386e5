package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/internal/repository"
	"github.com/fyerfyer/doc-editor-system/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Format 导出格式
type Format string

const (
	// FormatTxt 纯文本格式
	FormatTxt Format = "txt"
	// FormatMarkdown Markdown格式
	FormatMarkdown Format = "markdown"
	// FormatPDF PDF格式
	FormatPDF Format = "pdf"
)

// ErrUnsupportedFormat 不支持的导出格式错误
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// ParseFormat 解析导出格式字符串
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text", "plain":
		return FormatTxt, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// Ext 返回格式对应的文件扩展名
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatPDF:
		return ".pdf"
	default:
		return ".txt"
	}
}

// Exporter 文档导出器
// 将文档的HTML内容转换为目标格式，写入存储并记录导出产物
type Exporter struct {
	repo   repository.DocumentRepository
	store  storage.Storage
	logger *logrus.Logger
}

// Option 导出器配置选项
type Option func(*Exporter)

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter 创建文档导出器
func NewExporter(repo repository.DocumentRepository, store storage.Storage, opts ...Option) *Exporter {
	e := &Exporter{
		repo:   repo,
		store:  store,
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export 导出文档为指定格式
// fileName为空时根据文档标题生成
func (e *Exporter) Export(documentID string, format Format, fileName string) (*models.ExportRecord, error) {
	doc, err := e.repo.GetByID(documentID)
	if err != nil {
		return nil, err
	}

	if doc.Status == models.DocStatusImporting {
		return nil, fmt.Errorf("%w: document is still importing", models.ErrInvalidDocumentStatus)
	}

	var data []byte
	switch format {
	case FormatTxt:
		data = []byte(HTMLToText(doc.ContentHTML))
	case FormatMarkdown:
		data = []byte(HTMLToMarkdown(doc.ContentHTML))
	case FormatPDF:
		data, err = renderPDF(doc.Title, doc.ContentHTML)
		if err != nil {
			return nil, fmt.Errorf("failed to render pdf export: %v", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if fileName == "" {
		fileName = sanitizeFileName(doc.Title) + format.Ext()
	}

	info, err := e.store.Save(bytes.NewReader(data), fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to save export file: %v", err)
	}

	rec := &models.ExportRecord{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Format:     string(format),
		FileName:   fileName,
		StorageID:  info.ID,
		Size:       info.Size,
	}
	if err := e.repo.SaveExport(rec); err != nil {
		return nil, fmt.Errorf("failed to save export record: %v", err)
	}

	e.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"export_id":   rec.ID,
		"format":      format,
		"file_name":   fileName,
		"size":        info.Size,
	}).Info("Document exported")

	return rec, nil
}

// Open 打开导出产物用于下载
// 返回的reader由调用方负责关闭
func (e *Exporter) Open(exportID string) (io.ReadCloser, *models.ExportRecord, error) {
	rec, err := e.repo.GetExport(exportID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := e.store.Get(rec.StorageID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open export file: %v", err)
	}
	return reader, rec, nil
}

// List 获取文档的导出记录
func (e *Exporter) List(documentID string) ([]*models.ExportRecord, error) {
	return e.repo.ListExports(documentID)
}

// sanitizeFileName 清理文件名中的非法字符
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "document"
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
