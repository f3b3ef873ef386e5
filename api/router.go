package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/doc-editor-system/api/handler"
	"github.com/fyerfyer/doc-editor-system/api/middleware"
)

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	docHandler *handler.DocumentHandler,
	importHandler *handler.ImportHandler,
	draftHandler *handler.DraftHandler,
	exportHandler *handler.ExportHandler,
	taskHandler *handler.TaskHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 应用全局中间件
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(middleware.SetTraceID())

	// 在调试模式下记录请求体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
	}

	api := router.Group("/api")
	{
		// 文档管理API
		docGroup := api.Group("/documents")
		{
			// 创建文档 - POST /api/documents
			docGroup.POST("", docHandler.CreateDocument)

			// 导入文档 - POST /api/documents/import
			docGroup.POST("/import", importHandler.ImportDocument)

			// 获取文档列表 - GET /api/documents
			docGroup.GET("", docHandler.ListDocuments)

			// 获取文档 - GET /api/documents/:id
			docGroup.GET("/:id", docHandler.GetDocument)

			// 删除文档 - DELETE /api/documents/:id
			docGroup.DELETE("/:id", docHandler.DeleteDocument)

			// 更新文档内容 - PUT /api/documents/:id/content
			docGroup.PUT("/:id/content", docHandler.UpdateContent)

			// 版本记录 - GET /api/documents/:id/revisions
			docGroup.GET("/:id/revisions", docHandler.ListRevisions)

			// 草稿 - PUT/GET/DELETE /api/documents/:id/draft
			docGroup.PUT("/:id/draft", draftHandler.SaveDraft)
			docGroup.GET("/:id/draft", draftHandler.GetDraft)
			docGroup.DELETE("/:id/draft", draftHandler.DiscardDraft)

			// 草稿落盘 - POST /api/documents/:id/draft/flush
			docGroup.POST("/:id/draft/flush", draftHandler.FlushDraft)

			// 导出 - POST /api/documents/:id/export
			docGroup.POST("/:id/export", exportHandler.ExportDocument)

			// 导出记录 - GET /api/documents/:id/exports
			docGroup.GET("/:id/exports", exportHandler.ListExports)

			// 文档任务 - GET /api/documents/:id/tasks
			docGroup.GET("/:id/tasks", taskHandler.ListDocumentTasks)
		}

		// 导出产物下载 - GET /api/exports/:id
		api.GET("/exports/:id", exportHandler.DownloadExport)

		// 任务状态 - GET /api/tasks/:id
		api.GET("/tasks/:id", taskHandler.GetTask)

		// 健康检查API
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})
	}

	return router
}

// Cors 跨域资源共享中间件
// 如果需要支持跨域请求，可以启用此中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
