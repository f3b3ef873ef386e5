package model

// PaginationRequest 分页请求参数
type PaginationRequest struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`           // 当前页码，从1开始
	PageSize int `form:"page_size" json:"page_size" binding:"omitempty,min=1"` // 每页记录数
}

// GetPage 获取页码，默认为1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页记录数，默认为10，最大为100
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 10
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// DocumentCreateRequest 文档创建请求
type DocumentCreateRequest struct {
	Title       string `json:"title" binding:"omitempty,max=255"` // 文档标题
	ContentHTML string `json:"content_html" binding:"omitempty"`  // 初始HTML内容
}

// DocumentImportRequest 文档导入请求
// 内容以data URI形式提交，MIME类型决定使用哪个导入器
type DocumentImportRequest struct {
	DataURI    string `json:"data_uri" binding:"required"`             // data URI形式的源内容
	Title      string `json:"title" binding:"omitempty,max=255"`       // 文档标题，为空时使用源文件名
	SourceName string `json:"source_name" binding:"omitempty,max=255"` // 源文件名
	Async      bool   `json:"async" binding:"omitempty"`               // 是否异步处理
}

// DocumentIDRequest 带文档ID的路径请求
type DocumentIDRequest struct {
	ID string `uri:"id" binding:"required"` // 文档ID
}

// DocumentContentRequest 文档内容更新请求
type DocumentContentRequest struct {
	ContentHTML string `json:"content_html" binding:"required"` // 编辑器HTML内容
}

// DraftSaveRequest 草稿保存请求
type DraftSaveRequest struct {
	ContentHTML string `json:"content_html" binding:"required"` // 草稿HTML内容
}

// DocumentListRequest 文档列表请求
type DocumentListRequest struct {
	PaginationRequest
	Status     string `form:"status" json:"status" binding:"omitempty"`           // 文档状态过滤
	Tags       string `form:"tags" json:"tags" binding:"omitempty"`               // 标签过滤
	SourceType string `form:"source_type" json:"source_type" binding:"omitempty"` // 来源类型过滤
	Title      string `form:"title" json:"title" binding:"omitempty"`             // 标题模糊匹配
}

// ExportRequest 文档导出请求
type ExportRequest struct {
	Format   string `json:"format" binding:"required,oneof=txt text plain md markdown pdf"` // 导出格式
	FileName string `json:"file_name" binding:"omitempty,max=255"`                          // 导出文件名
	Async    bool   `json:"async" binding:"omitempty"`                                      // 是否异步处理
}

// RevisionListRequest 版本记录查询请求
type RevisionListRequest struct {
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"` // 返回条数限制
}

// GetLimit 获取版本条数限制，默认为20
func (r *RevisionListRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}

// TaskIDRequest 带任务ID的路径请求
type TaskIDRequest struct {
	ID string `uri:"id" binding:"required"` // 任务ID
}

// ExportIDRequest 带导出记录ID的路径请求
type ExportIDRequest struct {
	ID string `uri:"id" binding:"required"` // 导出记录ID
}
