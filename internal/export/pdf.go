package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// renderPDF 将编辑器HTML内容渲染为PDF字节流
// 使用gofpdf的基础HTML渲染，支持常见的段落、标题和内联样式标签
func renderPDF(title, contentHTML string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, tr(title), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 11)
	htmlWriter := pdf.HTMLBasicNew()
	htmlWriter.Write(5.5, tr(contentHTML))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %v", err)
	}
	return buf.Bytes(), nil
}
