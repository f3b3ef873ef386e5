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

// DraftHandler 处理草稿相关的API请求
type DraftHandler struct {
	editor *services.EditorService // 编辑器服务
	logger *logrus.Logger          // 日志记录器
}

// NewDraftHandler 创建新的草稿处理器
func NewDraftHandler(editor *services.EditorService) *DraftHandler {
	return &DraftHandler{
		editor: editor,
		logger: middleware.GetLogger(),
	}
}

// SaveDraft 保存草稿
// PUT /api/documents/:id/draft
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	var req model.DraftSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的请求参数"))
		return
	}

	d, err := h.editor.SaveDraft(c.Request.Context(), uri.ID, req.ContentHTML)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
			return
		}
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to save draft")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "保存草稿失败"))
		return
	}

	resp := model.DraftResponse{
		DocumentID:  d.DocumentID,
		ContentHTML: d.ContentHTML,
		SavedAt:     d.SavedAt,
		Exists:      true,
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// GetDraft 获取草稿
// GET /api/documents/:id/draft
func (h *DraftHandler) GetDraft(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	d, found, err := h.editor.LoadDraft(c.Request.Context(), uri.ID)
	if err != nil {
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to load draft")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取草稿失败"))
		return
	}

	resp := model.DraftResponse{
		DocumentID: uri.ID,
		Exists:     found,
	}
	if found {
		resp.ContentHTML = d.ContentHTML
		resp.SavedAt = d.SavedAt
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// FlushDraft 将草稿落盘为正式内容
// POST /api/documents/:id/draft/flush
func (h *DraftHandler) FlushDraft(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	doc, err := h.editor.FlushDraft(c.Request.Context(), uri.ID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
			return
		}
		h.logger.WithError(err).WithField("doc_id", uri.ID).Warn("Failed to flush draft")
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "草稿落盘失败: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentResponse(doc)))
}

// DiscardDraft 丢弃草稿
// DELETE /api/documents/:id/draft
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	if err := h.editor.DiscardDraft(c.Request.Context(), uri.ID); err != nil {
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to discard draft")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "丢弃草稿失败"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.DeleteResponse{Success: true, ID: uri.ID}))
}
