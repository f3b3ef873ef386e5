package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotDataURI 输入不是data URI时返回的错误
// 导入只接受data URI形式的负载，其他形式在任何页面处理开始前即被拒绝
var ErrNotDataURI = errors.New("input is not a data URI")

// DataURI 解析后的data URI
type DataURI struct {
	MimeType string // mediatype部分，可能为空
	Data     []byte // 解码后的负载
}

// ParseDataURI 解析data URI（data:[<mediatype>][;base64],<data>）
// 支持base64和百分号编码两种负载形式
func ParseDataURI(uri string) (*DataURI, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "data:") {
		return nil, ErrNotDataURI
	}

	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return nil, fmt.Errorf("malformed data URI: missing comma separator")
	}

	isBase64 := false
	if strings.HasSuffix(meta, ";base64") {
		isBase64 = true
		meta = strings.TrimSuffix(meta, ";base64")
	}

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 payload: %v", err)
		}
	} else {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode percent-encoded payload: %v", err)
		}
		data = []byte(decoded)
	}

	return &DataURI{
		MimeType: meta,
		Data:     data,
	}, nil
}
