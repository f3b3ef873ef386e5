package export

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/internal/repository"
	"github.com/fyerfyer/doc-editor-system/pkg/storage"
)

var exportTestDBCount int

// setupExportTest 准备内存数据库仓储和本地临时存储
func setupExportTest(t *testing.T) (repository.DocumentRepository, storage.Storage) {
	exportTestDBCount++
	dsn := fmt.Sprintf("file:export_test_%d?mode=memory&cache=shared", exportTestDBCount)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "打开内存数据库失败")

	err = db.AutoMigrate(&models.Document{}, &models.Revision{}, &models.ExportRecord{})
	require.NoError(t, err, "迁移表结构失败")

	store, err := storage.NewLocalStorage(storage.LocalConfig{Path: t.TempDir()})
	require.NoError(t, err, "创建本地存储失败")

	return repository.NewDocumentRepositoryWithDB(db), store
}

func createReadyDocument(t *testing.T, repo repository.DocumentRepository, id, title, content string) {
	doc := &models.Document{
		ID:          id,
		Title:       title,
		ContentHTML: content,
		Status:      models.DocStatusReady,
	}
	require.NoError(t, repo.Create(doc), "创建文档失败")
}

func TestHTMLToText(t *testing.T) {
	html := "<h1>标题</h1><p>第一段 内容</p><p>含有 &amp; 和 &lt;tag&gt; 的段落</p><ul><li>条目一</li><li>条目二</li></ul>"
	text := HTMLToText(html)

	assert.Contains(t, text, "标题")
	assert.Contains(t, text, "第一段 内容")
	assert.Contains(t, text, "含有 & 和 <tag> 的段落", "实体引用应还原为字符")
	assert.Contains(t, text, "- 条目一")
	assert.Contains(t, text, "- 条目二")
	assert.NotContains(t, text, "<p>", "不应残留HTML标签")
	assert.NotContains(t, text, "\n\n\n", "不应出现连续空行")
}

func TestHTMLToMarkdown(t *testing.T) {
	html := "<h2>章节</h2><p>正文带<strong>加粗</strong>和<em>斜体</em></p><ul><li>列表项</li></ul>"
	md := HTMLToMarkdown(html)

	assert.Contains(t, md, "## 章节", "h2应转为二级标题")
	assert.Contains(t, md, "**加粗**")
	assert.Contains(t, md, "*斜体*")
	assert.Contains(t, md, "- 列表项")
	assert.NotContains(t, md, "<strong>")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"txt", FormatTxt, false},
		{"TEXT", FormatTxt, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", FormatPDF, false},
		{"docx", "", true},
	}

	for _, tt := range tests {
		format, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, "格式 %s 应返回错误", tt.input)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		}
	}
}

func TestExporterTxt(t *testing.T) {
	repo, store := setupExportTest(t)
	exporter := NewExporter(repo, store)

	createReadyDocument(t, repo, "doc-1", "测试文档", "<p>第一段</p><p>第二段</p>")

	rec, err := exporter.Export("doc-1", FormatTxt, "")
	require.NoError(t, err, "导出失败")
	assert.Equal(t, "doc-1", rec.DocumentID)
	assert.Equal(t, "txt", rec.Format)
	assert.Equal(t, "测试文档.txt", rec.FileName, "文件名应由标题生成")
	assert.NotEmpty(t, rec.StorageID)
	assert.Greater(t, rec.Size, int64(0))

	// 产物内容可以读回
	reader, gotRec, err := exporter.Open(rec.ID)
	require.NoError(t, err, "打开导出产物失败")
	defer reader.Close()
	assert.Equal(t, rec.ID, gotRec.ID)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(data), "第一段")
	assert.Contains(t, string(data), "第二段")
}

func TestExporterMarkdown(t *testing.T) {
	repo, store := setupExportTest(t)
	exporter := NewExporter(repo, store)

	createReadyDocument(t, repo, "doc-2", "章节文档", "<h1>总标题</h1><p>正文</p>")

	rec, err := exporter.Export("doc-2", FormatMarkdown, "custom.md")
	require.NoError(t, err)
	assert.Equal(t, "custom.md", rec.FileName, "指定文件名应优先")

	reader, _, err := exporter.Open(rec.ID)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# 总标题")
}

func TestExporterPDF(t *testing.T) {
	repo, store := setupExportTest(t)
	exporter := NewExporter(repo, store)

	createReadyDocument(t, repo, "doc-3", "PDF Doc", "<p>Hello world</p>")

	rec, err := exporter.Export("doc-3", FormatPDF, "")
	require.NoError(t, err, "PDF导出失败")
	assert.Equal(t, "pdf", rec.Format)

	reader, _, err := exporter.Open(rec.ID)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.True(t, len(data) > 4, "PDF产物不应为空")
	assert.Equal(t, "%PDF", string(data[:4]), "产物应为PDF文件")
}

func TestExporterErrors(t *testing.T) {
	repo, store := setupExportTest(t)
	exporter := NewExporter(repo, store)

	// 文档不存在
	_, err := exporter.Export("missing", FormatTxt, "")
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)

	// 导入中的文档不可导出
	doc := &models.Document{ID: "doc-4", Title: "导入中", Status: models.DocStatusImporting}
	require.NoError(t, repo.Create(doc))
	_, err = exporter.Export("doc-4", FormatTxt, "")
	assert.ErrorIs(t, err, models.ErrInvalidDocumentStatus)

	// 不支持的格式
	createReadyDocument(t, repo, "doc-5", "正常文档", "<p>内容</p>")
	_, err = exporter.Export("doc-5", Format("docx"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExporterList(t *testing.T) {
	repo, store := setupExportTest(t)
	exporter := NewExporter(repo, store)

	createReadyDocument(t, repo, "doc-6", "多次导出", "<p>内容</p>")

	_, err := exporter.Export("doc-6", FormatTxt, "")
	require.NoError(t, err)
	_, err = exporter.Export("doc-6", FormatMarkdown, "")
	require.NoError(t, err)

	records, err := exporter.List("doc-6")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeFileName("a/b\\c"))
	assert.Equal(t, "document", sanitizeFileName("   "))
	assert.Equal(t, "标题_副本", sanitizeFileName("标题:副本"))
}
