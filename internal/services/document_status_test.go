package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/doc-editor-system/internal/models"
)

func TestStatusTransitions(t *testing.T) {
	svc, _ := setupEditorService(t)
	manager := svc.statusManager
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, "状态测试", "")
	require.NoError(t, err)
	require.Equal(t, models.DocStatusDraft, doc.Status)

	// draft -> importing
	err = manager.MarkImporting(ctx, doc.ID)
	require.NoError(t, err, "草稿应能进入导入中")

	status, err := manager.GetStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusImporting, status)

	// importing -> ready
	err = manager.MarkReady(ctx, doc.ID)
	require.NoError(t, err, "导入中应能进入就绪")

	// ready -> importing 允许重新导入
	err = manager.MarkImporting(ctx, doc.ID)
	require.NoError(t, err, "就绪文档应允许重新导入")

	// importing -> failed
	err = manager.MarkFailed(ctx, doc.ID, "parse error")
	require.NoError(t, err)

	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, got.Status)
	assert.Equal(t, "parse error", got.Error, "失败原因应被记录")

	// failed -> importing 允许重试
	err = manager.MarkImporting(ctx, doc.ID)
	require.NoError(t, err, "失败文档应允许重试")
}

func TestInvalidStatusTransition(t *testing.T) {
	svc, _ := setupEditorService(t)
	manager := svc.statusManager
	ctx := context.Background()

	// draft -> ready 需要有内容写入，但状态机本身允许
	err := manager.ValidateStateTransition(models.DocStatusDraft, models.DocStatusReady)
	assert.NoError(t, err)

	// failed -> ready 不允许直接转换
	err = manager.ValidateStateTransition(models.DocStatusFailed, models.DocStatusReady)
	assert.Error(t, err)

	// 不存在的文档
	err = manager.MarkImporting(ctx, "missing")
	assert.Error(t, err)
}

func TestMarkFailedFromAnyState(t *testing.T) {
	svc, _ := setupEditorService(t)
	manager := svc.statusManager
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, "失败标记", "<p>内容</p>")
	require.NoError(t, err)

	// MarkFailed不校验来源状态，任何阶段都可能失败
	err = manager.MarkFailed(ctx, doc.ID, "storage unavailable")
	require.NoError(t, err)

	status, err := manager.GetStatus(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, status)
}
