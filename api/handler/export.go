package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-editor-system/api/middleware"
	"github.com/fyerfyer/doc-editor-system/api/model"
	"github.com/fyerfyer/doc-editor-system/internal/export"
	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/internal/services"
)

// ExportHandler 处理文档导出相关的API请求
type ExportHandler struct {
	editor *services.EditorService // 编辑器服务
	logger *logrus.Logger          // 日志记录器
}

// NewExportHandler 创建新的导出处理器
func NewExportHandler(editor *services.EditorService) *ExportHandler {
	return &ExportHandler{
		editor: editor,
		logger: middleware.GetLogger(),
	}
}

// ExportDocument 导出文档
// POST /api/documents/:id/export
func (h *ExportHandler) ExportDocument(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的请求参数"))
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "不支持的导出格式"))
		return
	}

	if req.Async {
		taskID, err := h.editor.ExportAsync(c.Request.Context(), uri.ID, format, req.FileName)
		if err != nil {
			if errors.Is(err, models.ErrDocumentNotFound) {
				c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
				return
			}
			h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to enqueue export task")
			c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "导出任务入队失败"))
			return
		}

		resp := model.ExportResponse{
			TaskID:     taskID,
			DocumentID: uri.ID,
			Format:     string(format),
		}
		c.JSON(http.StatusAccepted, model.NewSuccessResponse(resp))
		return
	}

	rec, err := h.editor.ExportDocument(c.Request.Context(), uri.ID, format, req.FileName)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到文档"))
		case errors.Is(err, models.ErrInvalidDocumentStatus):
			c.JSON(http.StatusConflict, model.NewErrorResponse(http.StatusConflict, "文档正在导入中，暂不可导出"))
		default:
			h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to export document")
			c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "导出失败"))
		}
		return
	}

	resp := model.ExportResponse{
		ExportID:   rec.ID,
		DocumentID: rec.DocumentID,
		Format:     rec.Format,
		FileName:   rec.FileName,
		Size:       rec.Size,
		CreatedAt:  rec.CreatedAt,
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// ListExports 获取文档导出记录
// GET /api/documents/:id/exports
func (h *ExportHandler) ListExports(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	records, err := h.editor.ListExports(c.Request.Context(), uri.ID)
	if err != nil {
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to list exports")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取导出记录失败"))
		return
	}

	items := make([]model.ExportResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, model.ExportResponse{
			ExportID:   rec.ID,
			DocumentID: rec.DocumentID,
			Format:     rec.Format,
			FileName:   rec.FileName,
			Size:       rec.Size,
			CreatedAt:  rec.CreatedAt,
		})
	}

	resp := model.ExportListResponse{
		DocumentID: uri.ID,
		Exports:    items,
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(resp))
}

// DownloadExport 下载导出产物
// GET /api/exports/:id
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	var uri model.ExportIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的导出记录ID"))
		return
	}

	reader, rec, err := h.editor.OpenExport(c.Request.Context(), uri.ID)
	if err != nil {
		if errors.Is(err, models.ErrExportNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到导出记录"))
			return
		}
		h.logger.WithError(err).WithField("export_id", uri.ID).Error("Failed to open export file")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "读取导出产物失败"))
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	c.Header("Content-Type", contentTypeForFormat(rec.Format))
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.WithError(err).WithField("export_id", uri.ID).Error("Failed to stream export file")
	}
}

// contentTypeForFormat 根据导出格式返回Content-Type
func contentTypeForFormat(format string) string {
	switch format {
	case "pdf":
		return "application/pdf"
	case "markdown":
		return "text/markdown"
	default:
		return "text/plain; charset=utf-8"
	}
}
