package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-editor-system/api/middleware"
	"github.com/fyerfyer/doc-editor-system/api/model"
	"github.com/fyerfyer/doc-editor-system/internal/services"
	"github.com/fyerfyer/doc-editor-system/pkg/taskqueue"
)

// TaskHandler 处理任务相关的API请求
type TaskHandler struct {
	editor *services.EditorService // 编辑器服务
	logger *logrus.Logger          // 日志记录器
}

// NewTaskHandler 创建新的任务处理器
func NewTaskHandler(editor *services.EditorService) *TaskHandler {
	return &TaskHandler{
		editor: editor,
		logger: middleware.GetLogger(),
	}
}

// GetTask 获取任务状态
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	var uri model.TaskIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的任务ID"))
		return
	}

	task, err := h.editor.GetTask(c.Request.Context(), uri.ID)
	if err != nil {
		if errors.Is(err, taskqueue.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, model.NewErrorResponse(http.StatusNotFound, "未找到任务"))
			return
		}
		h.logger.WithError(err).WithField("task_id", uri.ID).Error("Failed to get task")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取任务失败"))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(buildTaskResponse(task)))
}

// ListDocumentTasks 获取文档关联的任务
// GET /api/documents/:id/tasks
func (h *TaskHandler) ListDocumentTasks(c *gin.Context) {
	var uri model.DocumentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(http.StatusBadRequest, "无效的文档ID"))
		return
	}

	tasks, err := h.editor.GetDocumentTasks(c.Request.Context(), uri.ID)
	if err != nil {
		h.logger.WithError(err).WithField("doc_id", uri.ID).Error("Failed to list document tasks")
		c.JSON(http.StatusInternalServerError, model.NewErrorResponse(http.StatusInternalServerError, "获取任务列表失败"))
		return
	}

	items := make([]model.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, buildTaskResponse(task))
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse(items))
}

// buildTaskResponse 从任务构建响应，结果负载展开为JSON对象
func buildTaskResponse(task *taskqueue.Task) model.TaskResponse {
	resp := model.TaskResponse{TaskInfo: taskqueue.NewTaskInfo(task)}

	if len(task.Result) > 0 {
		var result interface{}
		if err := json.Unmarshal(task.Result, &result); err == nil {
			resp.Result = result
		}
	}
	return resp
}
