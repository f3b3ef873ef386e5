package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-editor-system/internal/document"
	"github.com/fyerfyer/doc-editor-system/internal/draft"
	"github.com/fyerfyer/doc-editor-system/internal/eventbus"
	"github.com/fyerfyer/doc-editor-system/internal/export"
	"github.com/fyerfyer/doc-editor-system/internal/models"
	"github.com/fyerfyer/doc-editor-system/internal/repository"
	"github.com/fyerfyer/doc-editor-system/pkg/storage"
	"github.com/fyerfyer/doc-editor-system/pkg/taskqueue"
)

// EditorService 编辑器服务
// 负责协调文档的创建、导入、草稿保存和导出
type EditorService struct {
	repo          repository.DocumentRepository // 文档元数据存储
	storage       storage.Storage               // 源文件与导出产物存储
	draftStore    *draft.Store                  // 草稿存储
	exporter      *export.Exporter              // 文档导出器
	bus           eventbus.Bus                  // 事件总线
	taskQueue     taskqueue.Queue               // 任务队列
	statusManager *DocumentStatusManager        // 文档状态管理器
	asyncEnabled  bool                          // 是否启用异步处理
	timeout       time.Duration                 // 处理超时时间
	logger        *logrus.Logger                // 日志记录器
}

// EditorOption 编辑器服务配置选项
type EditorOption func(*EditorService)

// NewEditorService 创建编辑器服务
func NewEditorService(repo repository.DocumentRepository, store storage.Storage, opts ...EditorOption) *EditorService {
	srv := &EditorService{
		repo:    repo,
		storage: store,
		timeout: time.Minute * 5,
		logger:  logrus.New(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	if srv.statusManager == nil {
		srv.statusManager = NewDocumentStatusManager(repo, srv.logger)
	}
	if srv.exporter == nil {
		srv.exporter = export.NewExporter(repo, store, export.WithLogger(srv.logger))
	}

	return srv
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) EditorOption {
	return func(s *EditorService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDraftStore 设置草稿存储
func WithDraftStore(store *draft.Store) EditorOption {
	return func(s *EditorService) {
		s.draftStore = store
	}
}

// WithEventBus 设置事件总线
func WithEventBus(bus eventbus.Bus) EditorOption {
	return func(s *EditorService) {
		s.bus = bus
	}
}

// WithTaskQueue 设置任务队列
func WithTaskQueue(queue taskqueue.Queue) EditorOption {
	return func(s *EditorService) {
		s.taskQueue = queue
		s.asyncEnabled = queue != nil
	}
}

// WithStatusManager 设置状态管理器
func WithStatusManager(manager *DocumentStatusManager) EditorOption {
	return func(s *EditorService) {
		s.statusManager = manager
	}
}

// WithExporter 设置文档导出器
func WithExporter(exporter *export.Exporter) EditorOption {
	return func(s *EditorService) {
		s.exporter = exporter
	}
}

// WithTimeout 设置处理超时时间
func WithTimeout(timeout time.Duration) EditorOption {
	return func(s *EditorService) {
		s.timeout = timeout
	}
}

// CreateDocument 创建一个新文档
// 内容为空时创建草稿状态的空文档
func (s *EditorService) CreateDocument(ctx context.Context, title, contentHTML string) (*models.Document, error) {
	if title == "" {
		title = "未命名文档"
	}

	status := models.DocStatusDraft
	if contentHTML != "" {
		status = models.DocStatusReady
	}

	doc := &models.Document{
		ID:          uuid.New().String(),
		Title:       title,
		ContentHTML: contentHTML,
		Status:      status,
		CharCount:   len([]rune(contentHTML)),
	}

	if err := s.repo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %v", err)
	}

	if contentHTML != "" {
		rev := &models.Revision{
			DocumentID:  doc.ID,
			ContentHTML: contentHTML,
			Origin:      models.OriginManual,
		}
		if err := s.repo.SaveRevision(rev); err != nil {
			s.logger.WithError(err).WithField("doc_id", doc.ID).Warn("Failed to save initial revision")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id": doc.ID,
		"title":  title,
		"status": status,
	}).Info("Document created")

	return doc, nil
}

// GetDocument 获取文档
func (s *EditorService) GetDocument(ctx context.Context, docID string) (*models.Document, error) {
	return s.repo.GetByID(docID)
}

// ListDocuments 获取文档列表
func (s *EditorService) ListDocuments(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Document, int64, error) {
	return s.repo.List(offset, limit, filters)
}

// DeleteDocument 删除文档及其关联数据
func (s *EditorService) DeleteDocument(ctx context.Context, docID string) error {
	// 清理导出产物文件
	exports, err := s.repo.ListExports(docID)
	if err == nil {
		for _, rec := range exports {
			if err := s.storage.Delete(rec.StorageID); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"doc_id":     docID,
					"storage_id": rec.StorageID,
				}).Warn("Failed to delete export file")
			}
		}
	}

	// 丢弃未落盘的草稿
	if s.draftStore != nil {
		if err := s.draftStore.Discard(docID); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to discard draft")
		}
	}

	if err := s.repo.Delete(docID); err != nil {
		return err
	}

	s.logger.WithField("doc_id", docID).Info("Document deleted")
	return nil
}

// SaveContent 保存文档内容并追加版本记录
// 手动保存会同时丢弃缓存中的草稿
func (s *EditorService) SaveContent(ctx context.Context, docID, contentHTML string, origin models.RevisionOrigin) (*models.Document, error) {
	if err := s.repo.UpdateContent(docID, contentHTML); err != nil {
		return nil, err
	}

	rev := &models.Revision{
		DocumentID:  docID,
		ContentHTML: contentHTML,
		Origin:      origin,
	}
	if err := s.repo.SaveRevision(rev); err != nil {
		return nil, fmt.Errorf("failed to save revision: %v", err)
	}

	if origin == models.OriginManual && s.draftStore != nil {
		if err := s.draftStore.Discard(docID); err != nil {
			s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to discard draft after save")
		}
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, err
	}

	// 有内容的草稿文档在首次保存后进入就绪状态
	if doc.Status == models.DocStatusDraft && contentHTML != "" {
		if err := s.repo.UpdateStatus(docID, models.DocStatusReady, ""); err != nil {
			return nil, err
		}
		doc.Status = models.DocStatusReady
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"origin": origin,
		"chars":  len([]rune(contentHTML)),
	}).Info("Document content saved")

	return doc, nil
}

// ListRevisions 获取文档的版本记录
func (s *EditorService) ListRevisions(ctx context.Context, docID string, limit int) ([]*models.Revision, error) {
	if _, err := s.repo.GetByID(docID); err != nil {
		return nil, err
	}
	return s.repo.ListRevisions(docID, limit)
}

// SaveDraft 保存草稿到缓存
func (s *EditorService) SaveDraft(ctx context.Context, docID, contentHTML string) (*draft.Draft, error) {
	if s.draftStore == nil {
		return nil, errors.New("draft store is not configured")
	}

	if _, err := s.repo.GetByID(docID); err != nil {
		return nil, err
	}
	return s.draftStore.Save(ctx, docID, contentHTML)
}

// LoadDraft 加载文档草稿
func (s *EditorService) LoadDraft(ctx context.Context, docID string) (*draft.Draft, bool, error) {
	if s.draftStore == nil {
		return nil, false, errors.New("draft store is not configured")
	}
	return s.draftStore.Load(docID)
}

// FlushDraft 将草稿落盘为正式内容
// 生成一条autosave来源的版本记录并清空草稿
func (s *EditorService) FlushDraft(ctx context.Context, docID string) (*models.Document, error) {
	if s.draftStore == nil {
		return nil, errors.New("draft store is not configured")
	}

	d, found, err := s.draftStore.Load(docID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no draft found for document %s", docID)
	}

	doc, err := s.SaveContent(ctx, docID, d.ContentHTML, models.OriginAutosave)
	if err != nil {
		return nil, err
	}

	if err := s.draftStore.Discard(docID); err != nil {
		s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to discard flushed draft")
	}
	return doc, nil
}

// DiscardDraft 丢弃文档草稿
func (s *EditorService) DiscardDraft(ctx context.Context, docID string) error {
	if s.draftStore == nil {
		return errors.New("draft store is not configured")
	}
	return s.draftStore.Discard(docID)
}

// ImportFromDataURI 从data URI导入内容，生成一个新文档
// 解析MIME类型选择导入器，导入结果作为文档的初始内容
func (s *EditorService) ImportFromDataURI(ctx context.Context, uri, title, sourceName string) (*models.Document, error) {
	parsed, err := document.ParseDataURI(uri)
	if err != nil {
		return nil, err
	}
	return s.importData(ctx, parsed.Data, parsed.MimeType, title, sourceName)
}

// ImportFile 从文件内容导入，生成一个新文档
func (s *EditorService) ImportFile(ctx context.Context, data []byte, mimeType, title, fileName string) (*models.Document, error) {
	return s.importData(ctx, data, mimeType, title, fileName)
}

// importData 执行同步导入
func (s *EditorService) importData(ctx context.Context, data []byte, mimeType, title, sourceName string) (*models.Document, error) {
	importer, err := document.ImporterFactory(mimeType)
	if err != nil {
		return nil, err
	}

	result, err := importer.Import(data, sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to import document: %v", err)
	}

	if title == "" {
		title = sourceName
	}
	if title == "" {
		title = "导入的文档"
	}

	doc := &models.Document{
		ID:          uuid.New().String(),
		Title:       title,
		ContentHTML: result.HTML,
		Status:      models.DocStatusReady,
		SourceType:  string(result.Source),
		SourceName:  sourceName,
		PageCount:   result.PageCount,
		CharCount:   result.CharCount,
	}

	if err := s.repo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %v", err)
	}

	rev := &models.Revision{
		DocumentID:  doc.ID,
		ContentHTML: result.HTML,
		Origin:      models.OriginImport,
	}
	if err := s.repo.SaveRevision(rev); err != nil {
		s.logger.WithError(err).WithField("doc_id", doc.ID).Warn("Failed to save import revision")
	}

	s.publishEvent(ctx, eventbus.TopicDocumentImported, doc.ID, map[string]interface{}{
		"source_type": doc.SourceType,
		"source_name": doc.SourceName,
		"page_count":  doc.PageCount,
		"char_count":  doc.CharCount,
	})

	s.logger.WithFields(logrus.Fields{
		"doc_id":      doc.ID,
		"source_type": doc.SourceType,
		"page_count":  doc.PageCount,
		"char_count":  doc.CharCount,
	}).Info("Document imported")

	return doc, nil
}

// ImportAsync 异步导入文档
// 源文件写入存储后入队处理，立即返回导入中状态的文档和任务ID
func (s *EditorService) ImportAsync(ctx context.Context, data []byte, mimeType, title, fileName string) (*models.Document, string, error) {
	if !s.asyncEnabled || s.taskQueue == nil {
		return nil, "", errors.New("async processing is not enabled")
	}

	info, err := s.storage.Save(bytes.NewReader(data), fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to save source file: %v", err)
	}

	if title == "" {
		title = fileName
	}

	doc := &models.Document{
		ID:         uuid.New().String(),
		Title:      title,
		Status:     models.DocStatusImporting,
		SourceType: string(document.DetectSourceType(mimeType)),
		SourceName: fileName,
	}
	if err := s.repo.Create(doc); err != nil {
		return nil, "", fmt.Errorf("failed to create document: %v", err)
	}

	payload := &taskqueue.DocumentImportPayload{
		FileID:   info.ID,
		FileName: fileName,
		MimeType: mimeType,
		Title:    title,
	}

	taskID, err := s.taskQueue.Enqueue(ctx, taskqueue.TaskDocumentImport, doc.ID, payload)
	if err != nil {
		// 入队失败时直接落为失败状态，避免文档停留在导入中
		s.statusManager.MarkFailed(ctx, doc.ID, fmt.Sprintf("failed to enqueue import task: %v", err))
		return nil, "", fmt.Errorf("failed to enqueue import task: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id":  doc.ID,
		"task_id": taskID,
		"file_id": info.ID,
	}).Info("Import task enqueued")

	return doc, taskID, nil
}

// ExportDocument 同步导出文档
func (s *EditorService) ExportDocument(ctx context.Context, docID string, format export.Format, fileName string) (*models.ExportRecord, error) {
	rec, err := s.exporter.Export(docID, format, fileName)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, eventbus.TopicDocumentExported, docID, map[string]interface{}{
		"export_id": rec.ID,
		"format":    rec.Format,
		"file_name": rec.FileName,
		"size":      rec.Size,
	})

	return rec, nil
}

// ExportAsync 异步导出文档
func (s *EditorService) ExportAsync(ctx context.Context, docID string, format export.Format, fileName string) (string, error) {
	if !s.asyncEnabled || s.taskQueue == nil {
		return "", errors.New("async processing is not enabled")
	}

	if _, err := s.repo.GetByID(docID); err != nil {
		return "", err
	}

	payload := &taskqueue.DocumentExportPayload{
		DocumentID: docID,
		Format:     string(format),
		FileName:   fileName,
	}

	taskID, err := s.taskQueue.Enqueue(ctx, taskqueue.TaskDocumentExport, docID, payload)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue export task: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"doc_id":  docID,
		"task_id": taskID,
		"format":  format,
	}).Info("Export task enqueued")

	return taskID, nil
}

// OpenExport 打开导出产物用于下载
func (s *EditorService) OpenExport(ctx context.Context, exportID string) (io.ReadCloser, *models.ExportRecord, error) {
	return s.exporter.Open(exportID)
}

// ListExports 获取文档的导出记录
func (s *EditorService) ListExports(ctx context.Context, docID string) ([]*models.ExportRecord, error) {
	return s.exporter.List(docID)
}

// GetTask 获取任务信息
func (s *EditorService) GetTask(ctx context.Context, taskID string) (*taskqueue.Task, error) {
	if s.taskQueue == nil {
		return nil, errors.New("task queue is not configured")
	}
	return s.taskQueue.GetTask(ctx, taskID)
}

// GetDocumentTasks 获取文档关联的任务
func (s *EditorService) GetDocumentTasks(ctx context.Context, docID string) ([]*taskqueue.Task, error) {
	if s.taskQueue == nil {
		return nil, errors.New("task queue is not configured")
	}
	return s.taskQueue.GetTasksByDocument(ctx, docID)
}

// WaitForTask 等待任务完成
func (s *EditorService) WaitForTask(ctx context.Context, taskID string, timeout time.Duration) (*taskqueue.Task, error) {
	if s.taskQueue == nil {
		return nil, errors.New("task queue is not configured")
	}
	return s.taskQueue.WaitForTask(ctx, taskID, timeout)
}

// ImportTaskHandler 返回处理导入任务的处理器
func (s *EditorService) ImportTaskHandler() taskqueue.Handler {
	return taskqueue.HandlerFunc{
		Type: taskqueue.TaskDocumentImport,
		Fn:   s.processImportTask,
	}
}

// ExportTaskHandler 返回处理导出任务的处理器
func (s *EditorService) ExportTaskHandler() taskqueue.Handler {
	return taskqueue.HandlerFunc{
		Type: taskqueue.TaskDocumentExport,
		Fn:   s.processExportTask,
	}
}

// processImportTask 执行异步导入任务
func (s *EditorService) processImportTask(ctx context.Context, task *taskqueue.Task) error {
	var payload taskqueue.DocumentImportPayload
	if err := taskqueue.UnmarshalPayload(task.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", taskqueue.ErrInvalidPayload, err)
	}

	docID := task.DocumentID
	fail := func(err error) error {
		if markErr := s.statusManager.MarkFailed(ctx, docID, err.Error()); markErr != nil {
			s.logger.WithError(markErr).WithField("doc_id", docID).Error("Failed to mark document as failed")
		}
		return err
	}

	reader, err := s.storage.Get(payload.FileID)
	if err != nil {
		return fail(fmt.Errorf("failed to read source file: %v", err))
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return fail(fmt.Errorf("failed to read source file: %v", err))
	}

	importer, err := document.ImporterFactory(payload.MimeType)
	if err != nil {
		return fail(err)
	}

	result, err := importer.Import(data, payload.FileName)
	if err != nil {
		return fail(fmt.Errorf("failed to import document: %v", err))
	}

	if err := s.repo.UpdateContent(docID, result.HTML); err != nil {
		return fail(fmt.Errorf("failed to update document content: %v", err))
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return fail(err)
	}
	doc.SourceType = string(result.Source)
	doc.PageCount = result.PageCount
	doc.CharCount = result.CharCount
	doc.Status = models.DocStatusReady
	doc.Error = ""
	if err := s.repo.Update(doc); err != nil {
		return fail(fmt.Errorf("failed to update document: %v", err))
	}

	rev := &models.Revision{
		DocumentID:  docID,
		ContentHTML: result.HTML,
		Origin:      models.OriginImport,
	}
	if err := s.repo.SaveRevision(rev); err != nil {
		s.logger.WithError(err).WithField("doc_id", docID).Warn("Failed to save import revision")
	}

	taskResult := &taskqueue.DocumentImportResult{
		DocumentID: docID,
		SourceType: string(result.Source),
		PageCount:  result.PageCount,
		CharCount:  result.CharCount,
	}
	if err := s.taskQueue.UpdateTaskStatus(ctx, task.ID, taskqueue.StatusCompleted, taskResult, ""); err != nil {
		s.logger.WithError(err).WithField("task_id", task.ID).Warn("Failed to record task result")
	}

	s.publishEvent(ctx, eventbus.TopicDocumentImported, docID, map[string]interface{}{
		"source_type": result.Source,
		"source_name": payload.FileName,
		"page_count":  result.PageCount,
		"char_count":  result.CharCount,
		"task_id":     task.ID,
	})

	s.logger.WithFields(logrus.Fields{
		"doc_id":  docID,
		"task_id": task.ID,
	}).Info("Import task completed")

	return nil
}

// processExportTask 执行异步导出任务
func (s *EditorService) processExportTask(ctx context.Context, task *taskqueue.Task) error {
	var payload taskqueue.DocumentExportPayload
	if err := taskqueue.UnmarshalPayload(task.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %v", taskqueue.ErrInvalidPayload, err)
	}

	format, err := export.ParseFormat(payload.Format)
	if err != nil {
		return err
	}

	rec, err := s.exporter.Export(payload.DocumentID, format, payload.FileName)
	if err != nil {
		return err
	}

	taskResult := &taskqueue.DocumentExportResult{
		DocumentID: rec.DocumentID,
		ExportID:   rec.ID,
		StorageID:  rec.StorageID,
		FileName:   rec.FileName,
		Format:     rec.Format,
		Size:       rec.Size,
	}
	if err := s.taskQueue.UpdateTaskStatus(ctx, task.ID, taskqueue.StatusCompleted, taskResult, ""); err != nil {
		s.logger.WithError(err).WithField("task_id", task.ID).Warn("Failed to record task result")
	}

	s.publishEvent(ctx, eventbus.TopicDocumentExported, rec.DocumentID, map[string]interface{}{
		"export_id": rec.ID,
		"format":    rec.Format,
		"file_name": rec.FileName,
		"size":      rec.Size,
		"task_id":   task.ID,
	})

	return nil
}

// publishEvent 发布事件到总线
// 总线未配置或发布失败只记录日志，不影响主流程
func (s *EditorService) publishEvent(ctx context.Context, topic, docID string, payload interface{}) {
	if s.bus == nil {
		return
	}

	evt, err := eventbus.NewEvent(topic, docID, payload)
	if err != nil {
		s.logger.WithError(err).WithField("topic", topic).Warn("Failed to build event")
		return
	}

	if err := s.bus.Publish(ctx, evt); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"topic":  topic,
			"doc_id": docID,
		}).Warn("Failed to publish event")
	}
}
