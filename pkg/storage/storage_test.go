package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalStorage(t *testing.T) *LocalStorage {
	s, err := NewLocalStorage(LocalConfig{Path: t.TempDir()})
	require.NoError(t, err, "创建本地存储失败")
	return s
}

func TestLocalStorageSaveAndGet(t *testing.T) {
	s := setupLocalStorage(t)

	content := "导出的文档内容"
	info, err := s.Save(strings.NewReader(content), "export.txt")
	require.NoError(t, err, "保存文件失败")
	assert.NotEmpty(t, info.ID, "文件ID不应为空")
	assert.Equal(t, "export.txt", info.Name)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "text/plain", info.MimeType)

	reader, err := s.Get(info.ID)
	require.NoError(t, err, "读取文件失败")
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "读取内容应与保存内容一致")
}

func TestLocalStorageExists(t *testing.T) {
	s := setupLocalStorage(t)

	info, err := s.Save(strings.NewReader("data"), "doc.md")
	require.NoError(t, err)

	exists, err := s.Exists(info.ID)
	require.NoError(t, err)
	assert.True(t, exists, "已保存的文件应存在")

	exists, err = s.Exists("nonexistent-id")
	require.NoError(t, err)
	assert.False(t, exists, "不存在的文件应返回false")
}

func TestLocalStorageDelete(t *testing.T) {
	s := setupLocalStorage(t)

	info, err := s.Save(strings.NewReader("to be deleted"), "temp.pdf")
	require.NoError(t, err)

	err = s.Delete(info.ID)
	require.NoError(t, err, "删除文件失败")

	exists, err := s.Exists(info.ID)
	require.NoError(t, err)
	assert.False(t, exists, "删除后文件不应存在")

	err = s.Delete(info.ID)
	assert.Error(t, err, "重复删除应返回错误")
}

func TestMimeTypeOf(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"doc.pdf", "application/pdf"},
		{"readme.md", "text/markdown"},
		{"notes.txt", "text/plain"},
		{"page.html", "text/html"},
		{"unknown.bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, mimeTypeOf(tt.filename), "文件 %s 的类型判断错误", tt.filename)
	}
}

func TestNewStorageFactory(t *testing.T) {
	s, err := NewStorage(Config{Type: "local", Local: LocalConfig{Path: t.TempDir()}})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = NewStorage(Config{Type: "ftp"})
	assert.Error(t, err, "不支持的存储类型应返回错误")
}
