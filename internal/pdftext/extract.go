package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractRuns 从PDF字节数据中逐页提取定位文本片段
// 任何一页读取失败都会使整个调用失败，不返回部分结果
func ExtractRuns(data []byte) (pages []PageRuns, err error) {
	// ledongthuc/pdf在处理畸形内容流时可能panic，统一转为错误返回
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to extract text from pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %v", err)
	}

	total := reader.NumPage()
	pages = make([]PageRuns, 0, total)

	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			return nil, fmt.Errorf("failed to read pdf page %d", num)
		}

		var runs PageRuns
		for _, text := range page.Content().Text {
			runs = append(runs, TextRun{Text: text.S, X: text.X, Y: text.Y})
		}
		pages = append(pages, runs)
	}

	return pages, nil
}
