package pdftext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeSpace 测试空白规范化
func TestNormalizeSpace(t *testing.T) {
	t.Run("collapse whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", NormalizeSpace("  a \t b \n c  "))
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Equal(t, "", NormalizeSpace(" \t\n "))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := NormalizeSpace("  hello   world ")
		assert.Equal(t, once, NormalizeSpace(once), "二次规范化结果应该不变")
	})

	t.Run("already normalized", func(t *testing.T) {
		assert.Equal(t, "hello world", NormalizeSpace("hello world"))
	})
}

// TestReconstructLineOrder 测试行内与行间的排序规则
func TestReconstructLineOrder(t *testing.T) {
	t.Run("ascending x within line", func(t *testing.T) {
		pages := []PageRuns{{
			{Text: "B", X: 10, Y: 100},
			{Text: "A", X: 0, Y: 100},
		}}
		out := Reconstruct(pages)
		assert.Contains(t, out, "<p>A B</p>", "同一行内片段应按x升序拼接")
	})

	t.Run("descending y across lines", func(t *testing.T) {
		pages := []PageRuns{{
			{Text: "lower", X: 0, Y: 50},
			{Text: "upper", X: 0, Y: 100},
		}}
		out := Reconstruct(pages)
		upperIdx := strings.Index(out, "upper")
		lowerIdx := strings.Index(out, "lower")
		assert.True(t, upperIdx >= 0 && lowerIdx >= 0)
		assert.Less(t, upperIdx, lowerIdx, "y值大的行（页面上方）应该先输出")
	})

	t.Run("stable order for equal x", func(t *testing.T) {
		pages := []PageRuns{{
			{Text: "first", X: 5, Y: 40},
			{Text: "second", X: 5, Y: 40},
		}}
		out := Reconstruct(pages)
		assert.Contains(t, out, "<p>first second</p>", "相同x的片段应保持原始相对顺序")
	})

	t.Run("nearby y values merge into one line", func(t *testing.T) {
		pages := []PageRuns{{
			{Text: "hello", X: 0, Y: 99.8},
			{Text: "world", X: 20, Y: 100.2},
		}}
		out := Reconstruct(pages)
		assert.Contains(t, out, "<p>hello world</p>", "y值取整后相同的片段应合并为一行")
	})
}

// TestReconstructEmptyInput 测试空输入的占位输出
func TestReconstructEmptyInput(t *testing.T) {
	t.Run("whitespace only page gets placeholder", func(t *testing.T) {
		pages := []PageRuns{
			{{Text: "real text", X: 0, Y: 100}},
			{{Text: "   ", X: 0, Y: 100}, {Text: "\t\n", X: 10, Y: 100}},
		}
		out := Reconstruct(pages)
		assert.Contains(t, out, "real text")
		assert.Contains(t, out, emptyPageNotice, "纯空白页应输出页级占位提示")
		assert.Contains(t, out, `data-page="2"`, "空白页的section不应被省略")
	})

	t.Run("zero pages yields document fallback only", func(t *testing.T) {
		out := Reconstruct(nil)
		assert.Contains(t, out, emptyDocumentNotice)
		assert.NotContains(t, out, "<section", "文档级占位时不应有任何页section")
	})

	t.Run("all pages empty yields document fallback only", func(t *testing.T) {
		pages := []PageRuns{
			{{Text: " ", X: 0, Y: 10}},
			nil,
		}
		out := Reconstruct(pages)
		assert.Contains(t, out, emptyDocumentNotice)
		assert.NotContains(t, out, emptyPageNotice, "全空文档只输出一条文档级提示")
	})
}

// TestReconstructEscaping 测试保留字符的HTML转义
func TestReconstructEscaping(t *testing.T) {
	pages := []PageRuns{{
		{Text: `<b>&"bold"&</b> 'x'`, X: 0, Y: 100},
	}}
	out := Reconstruct(pages)

	assert.NotContains(t, out, "<b>", "输入中的标签不应被当作标记输出")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, "&amp;")
	assert.Contains(t, out, "&#34;")
	assert.Contains(t, out, "&#39;")
}

// TestReconstructPageStructure 测试输出的整体结构
func TestReconstructPageStructure(t *testing.T) {
	pages := []PageRuns{
		{{Text: "page one", X: 0, Y: 700}},
		{{Text: "page two", X: 0, Y: 700}},
	}
	out := Reconstruct(pages)

	assert.True(t, strings.HasPrefix(out, `<div class="pdf-import">`))
	assert.True(t, strings.HasSuffix(out, "</div>"))
	assert.Equal(t, 2, strings.Count(out, "<section"), "每页应有一个section")
	assert.Contains(t, out, "第 1 页")
	assert.Contains(t, out, "第 2 页")
	assert.Less(t, strings.Index(out, "page one"), strings.Index(out, "page two"),
		"页面顺序应与输入一致")
}

// TestLineKeyRounding 测试行聚类键的取整规则
func TestLineKeyRounding(t *testing.T) {
	assert.Equal(t, 100, lineKey(100.4))
	assert.Equal(t, 101, lineKey(100.5), "取整规则为四舍五入（.5远离零）")
	assert.Equal(t, 100, lineKey(99.5))
	assert.Equal(t, 0, lineKey(0.0))
}
