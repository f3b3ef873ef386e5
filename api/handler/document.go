package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-editor-system/api/middleware"
	"github.com/fyerfyer/doc-editor-system/api/model"
	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/internal/services"
)

// DocumentHandler 处理文档相关的API请求
type DocumentHandler struct {
	editor *services.EditorService // 编辑器服务
	logger *logrus.Logger          // 日志记录器
}

// NewDocumentHandler 创建新的文档处理器
func NewDocumentHandler(editor *services.EditorService) *DocumentHandler {
	return &DocumentHandler{
		editor: editor,
		logger: middleware.GetLogger(),
	}
}

// CreateDocument 创建文档
// POST /api/documents
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req model.DocumentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的请求参数"))
		return
	}

	doc, err := h.editor.CreateDocument(c.Request.Context(), req.Title, req.ContentHTML)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create document")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "创建文档失败"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentResponse(doc)))
}

// GetDocument 获取文档
// GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	var req model.DocumentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	doc, err := h.editor.GetDocument(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
			return
		}
		h.logger.WithError(err).WithField("doc_id", req.ID).Error("Failed to get document")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取文档失败"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentResponse(doc)))
}

// ListDocuments 获取文档列表
// GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req model.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的查询参数"))
		return
	}

	filters := make(map[string]interface{})
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.Tags != "" {
		filters["tags"] = req.Tags
	}
	if req.SourceType != "" {
		filters["source_type"] = req.SourceType
	}
	if req.Title != "" {
		filters["title"] = req.Title
	}

	page := req.GetPage()
	pageSize := req.GetPageSize()
	offset := (page - 1) * pageSize

	docs, total, err := h.editor.ListDocuments(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list documents")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取文档列表失败"))
		return
	}

	items := make([]model.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, model.NewDocumentResponse(doc))
	}

	resp := model.DocumentListResponse{
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		Documents: items,
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// UpdateContent 更新文档内容
// PUT /api/documents/:id/content
func (h *DocumentHandler) UpdateContent(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	var req model.DocumentContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的请求参数"))
		return
	}

	doc, err := h.editor.SaveContent(c.Request.Context(), uri.ID, req.ContentHTML, models.OriginManual)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
			return
		}
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to update document content")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "保存内容失败"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentResponse(doc)))
}

// DeleteDocument 删除文档
// DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	var req model.DocumentIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	if err := h.editor.DeleteDocument(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
			return
		}
		h.logger.WithError(err).WithField("doc_id", req.ID).Error("Failed to delete document")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "删除文档失败"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DeleteResponse{Success: true, ID: req.ID}))
}

// ListRevisions 获取文档版本记录
// GET /api/documents/:id/revisions
func (h *DocumentHandler) ListRevisions(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	var req model.RevisionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的查询参数"))
		return
	}

	revs, err := h.editor.ListRevisions(c.Request.Context(), uri.ID, req.GetLimit())
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
			return
		}
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to list revisions")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取版本记录失败"))
		return
	}

	items := make([]model.RevisionInfo, 0, len(revs))
	for _, rev := range revs {
		items = append(items, model.RevisionInfo{
			Seq:         rev.Seq,
			ContentHTML: rev.ContentHTML,
			Origin:      string(rev.Origin),
			CreatedAt:   rev.CreatedAt,
		})
	}

	resp := model.RevisionListResponse{
		DocumentID: uri.ID,
		Revisions:  items,
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}
