package document

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/fyerfyer/doc-editor-system/internal/pdftext"
)

// PlainTextImporter 纯文本导入器
// 按空行分段，每段转为一个转义后的<p>
type PlainTextImporter struct{}

// NewPlainTextImporter 创建一个新的纯文本导入器
func NewPlainTextImporter() Importer {
	return &PlainTextImporter{}
}

// Import 将纯文本内容转换为编辑器HTML片段
func (p *PlainTextImporter) Import(data []byte, sourceName string) (*ImportResult, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("text source %s is not valid UTF-8", sourceName)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = pdftext.NormalizeSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>" + html.EscapeString(para) + "</p>")
	}

	out := b.String()
	if out == "" {
		out = "<p></p>"
	}

	return &ImportResult{
		HTML:      out,
		Source:    PlainText,
		PageCount: 1,
		CharCount: len([]rune(out)),
	}, nil
}
