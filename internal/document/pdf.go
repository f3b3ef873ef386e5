package document

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fyerfyer/doc-editor-system/internal/pdftext"
)

// PDFImporter PDF文档导入器
// 先用pdfcpu校验负载，再逐页提取定位文本片段并重建阅读顺序
type PDFImporter struct{}

// NewPDFImporter 创建一个新的PDF导入器
func NewPDFImporter() Importer {
	return &PDFImporter{}
}

// Import 将PDF字节数据转换为编辑器HTML片段
// 校验或任何一页的提取失败都会使整个导入失败，不保留部分结果
func (p *PDFImporter) Import(data []byte, sourceName string) (*ImportResult, error) {
	conf := model.NewDefaultConfiguration()

	// 在进入页处理之前拒绝损坏的负载
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("invalid pdf payload %s: %v", sourceName, err)
	}

	pages, err := pdftext.ExtractRuns(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %v", sourceName, err)
	}

	html := pdftext.Reconstruct(pages)

	return &ImportResult{
		HTML:      html,
		Source:    PDF,
		PageCount: len(pages),
		CharCount: len([]rune(html)),
	}, nil
}
