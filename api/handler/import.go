package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-editor-system/api/middleware"
	"github.com/fyerfyer/doc-editor-system/api/model"
	"github.com/fyerfyer/doc-editor-system/internal/document"
	"github.com/fyerfyer/doc-editor-system/internal/services"
)

// ImportHandler 处理文档导入相关的API请求
type ImportHandler struct {
	editor *services.EditorService // 编辑器服务
	logger *logrus.Logger          // 日志记录器
}

// NewImportHandler 创建新的导入处理器
func NewImportHandler(editor *services.EditorService) *ImportHandler {
	return &ImportHandler{
		editor: editor,
		logger: middleware.GetLogger(),
	}
}

// ImportDocument 从data URI导入文档
// POST /api/documents/import
func (h *ImportHandler) ImportDocument(c *gin.Context) {
	var req model.DocumentImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的请求参数"))
		return
	}

	// 先解析URI，scheme或负载非法时直接拒绝
	parsed, err := document.ParseDataURI(req.DataURI)
	if err != nil {
		if errors.Is(err, document.ErrNotDataURI) {
			c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "仅支持data URI形式的导入源"))
			return
		}
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无法解析导入源: "+err.Error()))
		return
	}

	if document.DetectSourceType(parsed.MimeType) == document.Unknown {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(
			http.StatusBadRequest,
			"不支持的内容类型，仅支持 application/pdf, text/markdown, text/plain",
		))
		return
	}

	if req.Async {
		doc, taskID, err := h.editor.ImportAsync(c.Request.Context(), parsed.Data, parsed.MimeType, req.Title, req.SourceName)
		if err != nil {
			h.logger.WithError(err).Error("Failed to enqueue import task")
			c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "导入任务入队失败"))
			return
		}

		resp := model.NewDocumentResponse(doc)
		resp.TaskID = taskID
		c.JSON(http.StatusAccepted, model.NewSuccessResponse(resp))
		return
	}

	doc, err := h.editor.ImportFile(c.Request.Context(), parsed.Data, parsed.MimeType, req.Title, req.SourceName)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"mime_type":   parsed.MimeType,
			"source_name": req.SourceName,
		}).Error("Failed to import document")
		c.JSON(http.StatusUnprocessableEntity, model.NewErrorResponse(http.StatusUnprocessableEntity, "导入失败: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(model.NewDocumentResponse(doc)))
}
