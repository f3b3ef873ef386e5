package export

import (
	"html"
	"strings"
)

// blockReplacements 常见块级元素到纯文本分隔符的映射
var blockReplacements = []struct {
	Old string
	New string
}{
	{"<br>", "\n"},
	{"<br/>", "\n"},
	{"<br />", "\n"},
	{"<p>", ""},
	{"</p>", "\n\n"},
	{"<li>", "- "},
	{"</li>", "\n"},
	{"<ul>", "\n"},
	{"</ul>", "\n"},
	{"<ol>", "\n"},
	{"</ol>", "\n"},
	{"<h1>", "\n\n"},
	{"</h1>", "\n\n"},
	{"<h2>", "\n\n"},
	{"</h2>", "\n\n"},
	{"<h3>", "\n\n"},
	{"</h3>", "\n\n"},
	{"<h4>", "\n\n"},
	{"</h4>", "\n\n"},
	{"<h5>", "\n\n"},
	{"</h5>", "\n\n"},
	{"<h6>", "\n\n"},
	{"</h6>", "\n\n"},
}

// markdownReplacements 块级元素到Markdown标记的映射
// 需要在通用标签剥离前应用，否则标题层级信息会丢失
var markdownReplacements = []struct {
	Old string
	New string
}{
	{"<br>", "\n"},
	{"<br/>", "\n"},
	{"<br />", "\n"},
	{"<p>", ""},
	{"</p>", "\n\n"},
	{"<li>", "- "},
	{"</li>", "\n"},
	{"<ul>", "\n"},
	{"</ul>", "\n"},
	{"<ol>", "\n"},
	{"</ol>", "\n"},
	{"<h1>", "\n\n# "},
	{"</h1>", "\n\n"},
	{"<h2>", "\n\n## "},
	{"</h2>", "\n\n"},
	{"<h3>", "\n\n### "},
	{"</h3>", "\n\n"},
	{"<h4>", "\n\n#### "},
	{"</h4>", "\n\n"},
	{"<h5>", "\n\n##### "},
	{"</h5>", "\n\n"},
	{"<h6>", "\n\n###### "},
	{"</h6>", "\n\n"},
	{"<strong>", "**"},
	{"</strong>", "**"},
	{"<b>", "**"},
	{"</b>", "**"},
	{"<em>", "*"},
	{"</em>", "*"},
	{"<i>", "*"},
	{"</i>", "*"},
	{"<code>", "`"},
	{"</code>", "`"},
}

// HTMLToText 将编辑器HTML内容转换为纯文本
// 块级标签转为换行，其余标签剥离，实体引用还原为字符
func HTMLToText(content string) string {
	result := content
	for _, r := range blockReplacements {
		result = strings.ReplaceAll(result, r.Old, r.New)
	}

	result = stripTags(result)
	result = html.UnescapeString(result)
	return normalizeBlocks(result)
}

// HTMLToMarkdown 将编辑器HTML内容转换为Markdown文本
func HTMLToMarkdown(content string) string {
	result := content
	for _, r := range markdownReplacements {
		result = strings.ReplaceAll(result, r.Old, r.New)
	}

	result = stripTags(result)
	result = html.UnescapeString(result)
	return normalizeBlocks(result)
}

// stripTags 移除所有剩余的HTML标签
func stripTags(s string) string {
	for {
		start := strings.Index(s, "<")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], ">")
		if end == -1 {
			break
		}
		s = s[:start] + " " + s[start+end+1:]
	}
	return s
}

// normalizeBlocks 规范化文本块
// 每行内部空白折叠为单个空格，连续空行折叠为一个段落分隔
func normalizeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	blocks := make([]string, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, strings.Join(strings.Fields(line), " "))
	}

	result := strings.Join(blocks, "\n")
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(result)
}
