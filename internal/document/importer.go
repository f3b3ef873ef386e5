package document

import (
	"errors"
	"strings"
)

// SourceType 导入源的内容类型
type SourceType string

const (
	// PDF PDF文档
	PDF SourceType = "pdf"
	// Markdown Markdown文档
	Markdown SourceType = "markdown"
	// PlainText 纯文本
	PlainText SourceType = "plaintext"
	// Unknown 未知类型
	Unknown SourceType = "unknown"
)

// ImportResult 导入结果
// HTML为交给编辑器的内容片段，已完成保留字符转义
type ImportResult struct {
	HTML      string     // 编辑器HTML片段
	Source    SourceType // 源类型
	PageCount int        // 页数（仅对分页的源有意义）
	CharCount int        // 提取出的字符数
}

// Importer 导入器接口
// 负责将某种格式的源内容转换为编辑器HTML片段
type Importer interface {
	// Import 转换源内容，sourceName用于日志和错误提示
	Import(data []byte, sourceName string) (*ImportResult, error)
}

// ImporterFactory 根据MIME类型创建对应的导入器
func ImporterFactory(mimeType string) (Importer, error) {
	switch DetectSourceType(mimeType) {
	case PDF:
		return NewPDFImporter(), nil
	case Markdown:
		return NewMarkdownImporter(), nil
	case PlainText:
		return NewPlainTextImporter(), nil
	default:
		return nil, errors.New("unsupported source type: " + mimeType)
	}
}

// DetectSourceType 根据MIME类型判断导入源类型
func DetectSourceType(mimeType string) SourceType {
	// data URI中的mediatype可能带charset等参数
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}

	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "application/pdf":
		return PDF
	case "text/markdown", "text/x-markdown":
		return Markdown
	case "text/plain", "":
		return PlainText
	default:
		return Unknown
	}
}
