package pdftext

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
)

// 页面没有可读文本时的占位提示
const emptyPageNotice = "（本页未识别到可读文本）"

// 整个文档没有可读文本时的占位提示
const emptyDocumentNotice = "（未能从文档中提取到任何文本）"

// Reconstruct 将各页面的定位文本片段还原为接近阅读顺序的HTML片段
// 每行一个<p>，每页一个带页码标题的<section>，整体包裹在标记来源的<div>中
// 文本内容经过HTML转义，纯函数，不产生错误
func Reconstruct(pages []PageRuns) string {
	var b strings.Builder
	hasText := false

	for i, page := range pages {
		lines := pageLines(page)
		if len(lines) > 0 {
			hasText = true
		}
		writePageSection(&b, i+1, lines)
	}

	// 全文档都没有可读文本时，只输出一条文档级提示
	if !hasText {
		return `<div class="pdf-import"><p class="pdf-empty">` +
			html.EscapeString(emptyDocumentNotice) + `</p></div>`
	}

	return `<div class="pdf-import">` + b.String() + `</div>`
}

// pageLines 将单页的文本片段聚类成有序的文本行
// 按取整后的y坐标分组（同一视觉行的片段y值因字体度量会有微小差异），
// 行从上到下（y降序），行内片段从左到右（x升序，相同x保持原始顺序）
func pageLines(runs PageRuns) []string {
	groups := make(map[int]PageRuns)
	var keys []int

	for _, run := range runs {
		text := NormalizeSpace(run.Text)
		if text == "" {
			continue
		}
		key := lineKey(run.Y)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], TextRun{Text: text, X: run.X, Y: run.Y})
	}

	// PDF页面坐标y=0在底部，降序排列即为从上到下的阅读顺序
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	var lines []string
	for _, key := range keys {
		line := groups[key]
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})

		parts := make([]string, len(line))
		for i, run := range line {
			parts[i] = run.Text
		}
		if text := NormalizeSpace(strings.Join(parts, " ")); text != "" {
			lines = append(lines, text)
		}
	}

	return lines
}

// lineKey 将y坐标取整作为行聚类键
// 取整规则固定为四舍五入（.5远离零），不依赖平台默认行为；
// 标准点坐标下行距远大于1个单位，取整足以区分相邻行
func lineKey(y float64) int {
	return int(math.Round(y))
}

// writePageSection 输出一个页面的section片段
func writePageSection(b *strings.Builder, pageNum int, lines []string) {
	fmt.Fprintf(b, `<section class="pdf-page" data-page="%d">`, pageNum)
	fmt.Fprintf(b, "<h3>第 %d 页</h3>", pageNum)

	if len(lines) == 0 {
		b.WriteString(`<p class="pdf-empty">` + html.EscapeString(emptyPageNotice) + "</p>")
	} else {
		for _, line := range lines {
			b.WriteString("<p>" + html.EscapeString(line) + "</p>")
		}
	}

	b.WriteString("</section>")
}

// NormalizeSpace 折叠连续空白为单个空格并去除首尾空白
// 幂等：对已规范化的文本再次调用结果不变
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
