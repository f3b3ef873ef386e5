package document

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDataURI 测试data URI解析
func TestParseDataURI(t *testing.T) {
	t.Run("base64 payload", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("hello"))
		uri := "data:application/pdf;base64," + payload

		parsed, err := ParseDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", parsed.MimeType)
		assert.Equal(t, []byte("hello"), parsed.Data)
	})

	t.Run("percent encoded payload", func(t *testing.T) {
		parsed, err := ParseDataURI("data:text/plain,hello%20world")
		require.NoError(t, err)
		assert.Equal(t, "text/plain", parsed.MimeType)
		assert.Equal(t, []byte("hello world"), parsed.Data)
	})

	t.Run("missing mediatype", func(t *testing.T) {
		parsed, err := ParseDataURI("data:,plain")
		require.NoError(t, err)
		assert.Equal(t, "", parsed.MimeType)
		assert.Equal(t, []byte("plain"), parsed.Data)
	})

	t.Run("non data URI rejected", func(t *testing.T) {
		_, err := ParseDataURI("https://example.com/doc.pdf")
		assert.ErrorIs(t, err, ErrNotDataURI, "非data URI应在任何处理开始前被拒绝")

		_, err = ParseDataURI("file:///tmp/doc.pdf")
		assert.ErrorIs(t, err, ErrNotDataURI)
	})

	t.Run("malformed data URI", func(t *testing.T) {
		_, err := ParseDataURI("data:application/pdf;base64")
		assert.Error(t, err, "缺少逗号分隔符的data URI应报错")

		_, err = ParseDataURI("data:application/pdf;base64,!!!not-base64!!!")
		assert.Error(t, err)
	})
}

// TestDetectSourceType 测试MIME类型判定
func TestDetectSourceType(t *testing.T) {
	assert.Equal(t, PDF, DetectSourceType("application/pdf"))
	assert.Equal(t, Markdown, DetectSourceType("text/markdown"))
	assert.Equal(t, PlainText, DetectSourceType("text/plain"))
	assert.Equal(t, PlainText, DetectSourceType(""), "未声明mediatype时默认按纯文本处理")
	assert.Equal(t, PlainText, DetectSourceType("text/plain;charset=utf-8"))
	assert.Equal(t, Unknown, DetectSourceType("image/png"))
}
