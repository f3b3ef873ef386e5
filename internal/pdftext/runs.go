package pdftext

// TextRun PDF内容流中报告的一条定位文本片段
// 坐标为页面坐标系，y轴向上增长（页面底部为0）
type TextRun struct {
	Text string  // 文本内容
	X    float64 // 水平位置
	Y    float64 // 垂直位置
}

// PageRuns 单个页面的全部文本片段
// 顺序为内容流报告顺序，不保证是视觉阅读顺序
type PageRuns []TextRun
