package pdftext

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestPDF 用gofpdf生成一份用于提取测试的PDF
func buildTestPDF(t *testing.T, pageTexts ...string) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for _, text := range pageTexts {
		pdf.AddPage()
		pdf.MultiCell(0, 14, text, "", "", false)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf), "生成测试PDF失败")
	return buf.Bytes()
}

// TestExtractRuns 测试从PDF字节中提取定位文本片段
func TestExtractRuns(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		data := buildTestPDF(t, "Hello extraction test")

		pages, err := ExtractRuns(data)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.NotEmpty(t, pages[0], "页面应包含文本片段")

		out := Reconstruct(pages)
		assert.Contains(t, out, "Hello extraction test")
	})

	t.Run("page count matches", func(t *testing.T) {
		data := buildTestPDF(t, "first page", "second page")

		pages, err := ExtractRuns(data)
		require.NoError(t, err)
		assert.Len(t, pages, 2)
	})

	t.Run("invalid data fails", func(t *testing.T) {
		_, err := ExtractRuns([]byte("this is not a pdf"))
		assert.Error(t, err)
	})
}
