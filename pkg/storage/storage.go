package storage

import (
	"io"
	"path/filepath"
	"strings"
)

// FileInfo 文件元数据
type FileInfo struct {
	ID       string // 文件唯一标识符
	Name     string // 原始文件名
	Size     int64  // 文件大小（字节）
	MimeType string // MIME类型
	Path     string // 内部存储路径（实现相关）
}

// Storage 文件存储接口
// 编辑器用它保存导入的源文件负载和导出产物，可以有不同实现（本地文件系统、MinIO等）
type Storage interface {
	// Save 保存文件并返回文件信息
	Save(reader io.Reader, filename string) (FileInfo, error)

	// Get 获取文件内容
	Get(id string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(id string) error

	// Exists 检查文件是否存在
	Exists(id string) (bool, error)
}

// mimeTypeOf 根据文件扩展名判断MIME类型
func mimeTypeOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
