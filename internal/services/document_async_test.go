package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/pkg/taskqueue"
)

// setupAsyncService 在基础服务上挂接一个miniredis任务队列
func setupAsyncService(t *testing.T) (*EditorService, taskqueue.Queue) {
	svc, _ := setupEditorService(t)

	mr, err := miniredis.Run()
	require.NoError(t, err, "启动miniredis失败")
	t.Cleanup(mr.Close)

	queue, err := taskqueue.NewRedisQueue(&taskqueue.Config{
		RedisAddr:   mr.Addr(),
		Concurrency: 1,
		RetryLimit:  1,
		RetryDelay:  time.Second,
	})
	require.NoError(t, err, "创建任务队列失败")
	t.Cleanup(func() { queue.Close() })

	WithTaskQueue(queue)(svc)
	return svc, queue
}

func TestImportAsync(t *testing.T) {
	svc, queue := setupAsyncService(t)
	ctx := context.Background()

	data := []byte("first paragraph\n\nsecond paragraph")
	doc, taskID, err := svc.ImportAsync(ctx, data, "text/plain", "异步导入", "notes.txt")
	require.NoError(t, err, "异步导入入队失败")
	assert.Equal(t, models.DocStatusImporting, doc.Status, "入队后文档应处于导入中")
	assert.NotEmpty(t, taskID)

	// 模拟worker处理任务
	task, err := queue.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskqueue.TaskDocumentImport, task.Type)
	assert.Equal(t, doc.ID, task.DocumentID)

	handler := svc.ImportTaskHandler()
	err = handler.ProcessTask(ctx, task)
	require.NoError(t, err, "处理导入任务失败")

	// 文档应变为就绪并填入内容
	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusReady, got.Status)
	assert.Contains(t, got.ContentHTML, "<p>first paragraph</p>")
	assert.Contains(t, got.ContentHTML, "<p>second paragraph</p>")
	assert.Equal(t, "plaintext", got.SourceType)

	// 任务结果应被写回
	task, err = queue.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskqueue.StatusCompleted, task.Status)

	var result taskqueue.DocumentImportResult
	require.NoError(t, taskqueue.UnmarshalPayload(task.Result, &result))
	assert.Equal(t, doc.ID, result.DocumentID)
	assert.Greater(t, result.CharCount, 0)
}

func TestImportAsyncFailure(t *testing.T) {
	svc, queue := setupAsyncService(t)
	ctx := context.Background()

	// 不支持的MIME类型会在worker阶段失败
	doc, taskID, err := svc.ImportAsync(ctx, []byte{0x00, 0x01}, "image/png", "", "image.png")
	require.NoError(t, err, "入队本身应成功")

	task, err := queue.GetTask(ctx, taskID)
	require.NoError(t, err)

	handler := svc.ImportTaskHandler()
	err = handler.ProcessTask(ctx, task)
	assert.Error(t, err, "不支持的类型应处理失败")

	// 文档应落为失败状态
	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, got.Status)
	assert.NotEmpty(t, got.Error, "失败原因应被记录")
}

func TestExportAsync(t *testing.T) {
	svc, queue := setupAsyncService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, "异步导出", "<h1>标题</h1><p>正文</p>")
	require.NoError(t, err)

	taskID, err := svc.ExportAsync(ctx, doc.ID, "markdown", "")
	require.NoError(t, err, "异步导出入队失败")

	task, err := queue.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskqueue.TaskDocumentExport, task.Type)

	handler := svc.ExportTaskHandler()
	err = handler.ProcessTask(ctx, task)
	require.NoError(t, err, "处理导出任务失败")

	// 导出记录应生成
	records, err := svc.ListExports(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "markdown", records[0].Format)

	// 任务结果应指向导出记录
	task, err = queue.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskqueue.StatusCompleted, task.Status)

	var result taskqueue.DocumentExportResult
	require.NoError(t, taskqueue.UnmarshalPayload(task.Result, &result))
	assert.Equal(t, records[0].ID, result.ExportID)
}

func TestGetDocumentTasks(t *testing.T) {
	svc, _ := setupAsyncService(t)
	ctx := context.Background()

	doc, taskID, err := svc.ImportAsync(ctx, []byte("text"), "text/plain", "", "a.txt")
	require.NoError(t, err)

	tasks, err := svc.GetDocumentTasks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, taskID, tasks[0].ID)

	got, err := svc.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, taskID, got.ID)
}
