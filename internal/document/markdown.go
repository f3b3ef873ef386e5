package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownImporter Markdown文档导入器
// 直接渲染为HTML交给编辑器
type MarkdownImporter struct{}

// NewMarkdownImporter 创建一个新的Markdown导入器
func NewMarkdownImporter() Importer {
	return &MarkdownImporter{}
}

// Import 将Markdown内容渲染为编辑器HTML片段
func (m *MarkdownImporter) Import(data []byte, sourceName string) (*ImportResult, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("markdown source %s is not valid UTF-8", sourceName)
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)
	doc := mdParser.Parse(data)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags,
	})
	rendered := markdown.Render(doc, renderer)

	return &ImportResult{
		HTML:      string(rendered),
		Source:    Markdown,
		PageCount: 1,
		CharCount: len([]rune(string(rendered))),
	}, nil
}
