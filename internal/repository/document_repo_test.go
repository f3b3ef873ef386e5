package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fyerfyer/doc-editor-system/internal/database"
	"github.com/fyerfyer/doc-editor-system/internal/models"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	// 使用唯一的内存数据库标识符
	dbName := fmt.Sprintf("file:memdb_%d?mode=memory", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")

	err = db.AutoMigrate(&models.Document{}, &models.Revision{}, &models.ExportRecord{})
	require.NoError(t, err, "Failed to run migrations")

	originalDB := database.DB
	database.DB = db

	cleanup := func() {
		database.DB = originalDB
	}

	return db, cleanup
}

func newTestDocument(id string) *models.Document {
	return &models.Document{
		ID:          id,
		Title:       "测试文档",
		ContentHTML: "<p>初始内容</p>",
		Status:      models.DocStatusReady,
		SourceType:  "plaintext",
		Tags:        "test",
	}
}

func TestDocumentRepository_CreateAndGet(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()

	doc := newTestDocument("doc-1")
	require.NoError(t, repo.Create(doc))

	got, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "测试文档", got.Title)
	assert.Equal(t, models.DocStatusReady, got.Status)
	assert.False(t, got.CreatedAt.IsZero(), "创建时间应被自动填充")

	t.Run("empty id rejected", func(t *testing.T) {
		err := repo.Create(&models.Document{})
		assert.Error(t, err)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := repo.GetByID("no-such-doc")
		assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	})
}

func TestDocumentRepository_UpdateContent(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	require.NoError(t, repo.Create(newTestDocument("doc-2")))

	err := repo.UpdateContent("doc-2", "<p>新内容</p>")
	require.NoError(t, err)

	got, err := repo.GetByID("doc-2")
	require.NoError(t, err)
	assert.Equal(t, "<p>新内容</p>", got.ContentHTML)
	assert.Equal(t, len([]rune("<p>新内容</p>")), got.CharCount, "字符数应随内容刷新")

	assert.ErrorIs(t, repo.UpdateContent("missing", "<p></p>"), models.ErrDocumentNotFound)
}

func TestDocumentRepository_UpdateStatus(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	doc := newTestDocument("doc-3")
	doc.Status = models.DocStatusImporting
	require.NoError(t, repo.Create(doc))

	require.NoError(t, repo.UpdateStatus("doc-3", models.DocStatusFailed, "boom"))

	got, err := repo.GetByID("doc-3")
	require.NoError(t, err)
	assert.Equal(t, models.DocStatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
}

func TestDocumentRepository_List(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	for i := 0; i < 5; i++ {
		doc := newTestDocument(fmt.Sprintf("doc-list-%d", i))
		if i%2 == 0 {
			doc.Status = models.DocStatusDraft
		}
		require.NoError(t, repo.Create(doc))
	}

	t.Run("pagination", func(t *testing.T) {
		docs, total, err := repo.List(0, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, docs, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		docs, total, err := repo.List(0, 10, map[string]interface{}{
			"status": models.DocStatusDraft,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, doc := range docs {
			assert.Equal(t, models.DocStatusDraft, doc.Status)
		}
	})
}

func TestDocumentRepository_Revisions(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	require.NoError(t, repo.Create(newTestDocument("doc-rev")))

	// 连续追加三个版本，序号应递增
	for i := 1; i <= 3; i++ {
		rev := &models.Revision{
			DocumentID:  "doc-rev",
			ContentHTML: fmt.Sprintf("<p>版本%d</p>", i),
			Origin:      models.OriginManual,
		}
		require.NoError(t, repo.SaveRevision(rev))
		assert.Equal(t, i, rev.Seq, "版本序号应自动递增")
	}

	revs, err := repo.ListRevisions("doc-rev", 0)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, 3, revs[0].Seq, "版本列表应按序号降序")

	count, err := repo.CountRevisions("doc-rev")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	t.Run("limit", func(t *testing.T) {
		revs, err := repo.ListRevisions("doc-rev", 2)
		require.NoError(t, err)
		assert.Len(t, revs, 2)
	})
}

func TestDocumentRepository_Exports(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	require.NoError(t, repo.Create(newTestDocument("doc-exp")))

	rec := &models.ExportRecord{
		ID:         "exp-1",
		DocumentID: "doc-exp",
		Format:     "pdf",
		FileName:   "测试文档.pdf",
		StorageID:  "storage-1",
		Size:       2048,
	}
	require.NoError(t, repo.SaveExport(rec))

	got, err := repo.GetExport("exp-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-exp", got.DocumentID)

	recs, err := repo.ListExports("doc-exp")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, err = repo.GetExport("missing")
	assert.ErrorIs(t, err, models.ErrExportNotFound)
}

func TestDocumentRepository_Delete(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDocumentRepository()
	require.NoError(t, repo.Create(newTestDocument("doc-del")))
	require.NoError(t, repo.SaveRevision(&models.Revision{
		DocumentID:  "doc-del",
		ContentHTML: "<p>v1</p>",
		Origin:      models.OriginManual,
	}))

	require.NoError(t, repo.Delete("doc-del"))

	_, err := repo.GetByID("doc-del")
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)

	revs, err := repo.ListRevisions("doc-del", 0)
	require.NoError(t, err)
	assert.Empty(t, revs, "删除文档时应级联删除版本记录")

	assert.ErrorIs(t, repo.Delete("doc-del"), models.ErrDocumentNotFound)
}
